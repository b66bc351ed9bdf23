package types

import "encoding/json"

// ScriptHashType selects how a script's code_hash is interpreted, per the
// CKB convention: Data matches against a code cell's data hash, Type
// matches against a type script's hash (used for upgradable system
// scripts like the sighash-all lock).
type ScriptHashType uint8

const (
	HashTypeData ScriptHashType = iota
	HashTypeType
	HashTypeData1
)

// String returns the CKB RPC spelling of the hash type.
func (t ScriptHashType) String() string {
	switch t {
	case HashTypeData:
		return "data"
	case HashTypeType:
		return "type"
	case HashTypeData1:
		return "data1"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the hash type as its CKB RPC string spelling.
func (t ScriptHashType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a CKB RPC hash type string.
func (t *ScriptHashType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "data":
		*t = HashTypeData
	case "type":
		*t = HashTypeType
	case "data1":
		*t = HashTypeData1
	default:
		*t = HashTypeData
	}
	return nil
}

// Script is a locking (or type) script: a predicate over a code cell,
// parameterized by Args. The sighash-all lock used throughout this harness
// is {CodeHash: SighashAllTypeHash, HashType: HashTypeType, Args: lockArg}.
type Script struct {
	CodeHash Hash           `json:"code_hash"`
	HashType ScriptHashType `json:"hash_type"`
	Args     HexBytes       `json:"args"`
}

// Equal reports byte-for-byte equality on the canonical fields — the
// ownership test an account applies to a cell's lock script.
func (s Script) Equal(o Script) bool {
	return s.CodeHash == o.CodeHash && s.HashType == o.HashType && bytesEqual(s.Args, o.Args)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// DepType distinguishes a plain code cell dependency from a dep-group
// (a cell whose data is itself an array of out-points to load).
type DepType uint8

const (
	DepTypeCode DepType = iota
	DepTypeDepGroup
)

// MarshalJSON encodes the dep type as its CKB RPC string spelling.
func (d DepType) MarshalJSON() ([]byte, error) {
	if d == DepTypeDepGroup {
		return json.Marshal("dep_group")
	}
	return json.Marshal("code")
}

// UnmarshalJSON decodes a CKB RPC dep type string.
func (d *DepType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "dep_group" {
		*d = DepTypeDepGroup
	} else {
		*d = DepTypeCode
	}
	return nil
}

// CellDep names a cell a transaction's scripts need loaded at execution.
type CellDep struct {
	OutPoint OutPoint `json:"out_point"`
	DepType  DepType  `json:"dep_type"`
}

// CellOutput is the "(capacity, lock script, optional type script)" record
// that — paired with an OutPoint and cell data — forms a cell (UTXO).
type CellOutput struct {
	Capacity Uint64  `json:"capacity"`
	Lock     Script  `json:"lock"`
	Type     *Script `json:"type,omitempty"`
}
