package crypto

import (
	"encoding/binary"

	"github.com/ckb-tps-bench/bench/pkg/types"
)

// ScriptHash computes the content-addressed hash of a script, the value
// CKB uses as a cell's lock hash / type hash and as CellDeps' code_hash
// when HashType is HashTypeType.
func ScriptHash(s types.Script) types.Hash {
	return HashConcat(s.CodeHash[:], []byte{byte(s.HashType)}, s.Args)
}

// TransactionHash computes a transaction's ID by hashing its canonical
// signing bytes (see SigningBytes). This is a deterministic
// little-endian-concatenation digest in the style of a UTXO transaction's
// signing hash, not CKB's molecule serialization — the fields and their
// order are CKB's, the byte encoding is the simpler scheme this harness's
// ancestor codebase already uses for its own transaction hashing.
func TransactionHash(tx types.Transaction) types.Hash {
	return Hash(SigningBytes(tx))
}

// SigningBytes returns the canonical byte representation of a transaction
// used both for TransactionHash and as the base of the sighash-all digest
// (see internal/txbuilder). It excludes witnesses, since CKB's sighash-all
// lock covers them separately via length-prefixing in the signing digest.
func SigningBytes(tx types.Transaction) []byte {
	var buf []byte

	buf = binary.LittleEndian.AppendUint64(buf, uint64(tx.Version))

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.CellDeps)))
	for _, d := range tx.CellDeps {
		buf = append(buf, d.OutPoint.TxHash[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, d.OutPoint.Index)
		buf = append(buf, byte(depTypeByte(d.DepType)))
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.HeaderDeps)))
	for _, h := range tx.HeaderDeps {
		buf = append(buf, h[:]...)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(in.Since))
		buf = append(buf, in.PreviousOutput.TxHash[:]...)
		buf = binary.LittleEndian.AppendUint32(buf, in.PreviousOutput.Index)
	}

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.Outputs)))
	for i, out := range tx.Outputs {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(out.Capacity))
		buf = append(buf, scriptBytes(out.Lock)...)
		if out.Type != nil {
			buf = append(buf, 1)
			buf = append(buf, scriptBytes(*out.Type)...)
		} else {
			buf = append(buf, 0)
		}
		if i < len(tx.OutputsData) {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(tx.OutputsData[i])))
			buf = append(buf, tx.OutputsData[i]...)
		} else {
			buf = binary.LittleEndian.AppendUint32(buf, 0)
		}
	}

	return buf
}

// WitnessArgsBytes returns the canonical byte representation of a
// WitnessArgs used both to build the sighash-all signing digest and to
// populate a transaction's Witnesses entries. Each field is serialized as
// a presence byte followed by a length-prefixed blob when present.
func WitnessArgsBytes(w types.WitnessArgs) []byte {
	var buf []byte
	buf = appendOptionalBytes(buf, w.Lock)
	buf = appendOptionalBytes(buf, w.InputType)
	buf = appendOptionalBytes(buf, w.OutputType)
	return buf
}

func appendOptionalBytes(buf []byte, b []byte) []byte {
	if b == nil {
		return append(buf, 0)
	}
	buf = append(buf, 1)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(b)))
	return append(buf, b...)
}

func scriptBytes(s types.Script) []byte {
	var buf []byte
	buf = append(buf, s.CodeHash[:]...)
	buf = append(buf, byte(s.HashType))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(s.Args)))
	buf = append(buf, s.Args...)
	return buf
}

func depTypeByte(d types.DepType) byte {
	if d == types.DepTypeDepGroup {
		return 1
	}
	return 0
}
