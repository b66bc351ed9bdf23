package txbuilder

import (
	"encoding/binary"
	"fmt"

	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/pkg/crypto"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// placeholderSignatureSize matches the real recoverable signature's length,
// so the digest covers a witness of the exact size the final, signed
// witness will occupy.
const placeholderSignatureSize = crypto.RecoverableSignatureSize

// Sign computes the sighash-all digest for tx and replaces its first
// witness with a WitnessArgs carrying signer's signature over that digest.
// All other witnesses are left empty. The digest is deterministic given
// (tx, signer's key): a Blake2b-256 hash (CKB's domain separation) over the
// transaction hash, the little-endian length of a placeholder witness (a
// WitnessArgs whose Lock is placeholderSignatureSize zero bytes), and that
// placeholder witness's bytes.
func Sign(signer *account.Account, tx types.Transaction) (types.Transaction, error) {
	if len(tx.Witnesses) == 0 {
		return types.Transaction{}, fmt.Errorf("txbuilder: transaction has no witness slots to sign")
	}

	digest := SigningDigest(tx)

	sig, err := signer.PrivateKey().Sign(digest[:])
	if err != nil {
		return types.Transaction{}, fmt.Errorf("sign digest: %w", err)
	}

	signedWitness := crypto.WitnessArgsBytes(types.WitnessArgs{Lock: sig})

	signed := tx
	signed.Witnesses = make([]types.HexBytes, len(tx.Witnesses))
	copy(signed.Witnesses, tx.Witnesses)
	signed.Witnesses[0] = signedWitness

	return signed, nil
}

// SigningDigest computes the sighash-all digest an unsigned transaction's
// first witness must be signed over, independent of any particular
// signer — used both by Sign and by tests that cross-check the digest.
func SigningDigest(tx types.Transaction) types.Hash {
	placeholder := types.WitnessArgs{Lock: make(types.HexBytes, placeholderSignatureSize)}
	placeholderBytes := crypto.WitnessArgsBytes(placeholder)

	txHash := crypto.TransactionHash(tx)

	lengthPrefix := make([]byte, 8)
	binary.LittleEndian.PutUint64(lengthPrefix, uint64(len(placeholderBytes)))

	return crypto.HashConcat(txHash[:], lengthPrefix, placeholderBytes)
}
