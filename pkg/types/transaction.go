package types

import "encoding/json"

// CellInput spends a previously created cell. Since encodes an absolute or
// relative lock (block number, epoch, or timestamp) below which the input
// cannot be mined; this harness always uses an unlocked (zero) since.
type CellInput struct {
	Since          Uint64   `json:"since"`
	PreviousOutput OutPoint `json:"previous_output"`
}

// Transaction is the CKB raw transaction shape, as sent to and returned by
// the JSON-RPC server. OutputsData holds one entry per Output (empty string
// when a cell carries no data); Witnesses holds one serialized WitnessArgs
// blob per entry, aligned to Inputs by position.
type Transaction struct {
	Version     Uint64       `json:"version"`
	CellDeps    []CellDep    `json:"cell_deps"`
	HeaderDeps  []Hash       `json:"header_deps"`
	Inputs      []CellInput  `json:"inputs"`
	Outputs     []CellOutput `json:"outputs"`
	OutputsData []HexBytes   `json:"outputs_data"`
	Witnesses   []HexBytes   `json:"witnesses"`
}

// transactionJSON has Transaction's fields without its MarshalJSON method,
// so MarshalJSON can encode it without recursing.
type transactionJSON Transaction

// MarshalJSON ensures header_deps, outputs_data and witnesses marshal as
// "[]" rather than "null" when empty, matching what a CKB node expects.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	j := transactionJSON(tx)
	if j.HeaderDeps == nil {
		j.HeaderDeps = []Hash{}
	}
	if j.OutputsData == nil {
		j.OutputsData = []HexBytes{}
	}
	if j.Witnesses == nil {
		j.Witnesses = []HexBytes{}
	}
	if j.CellDeps == nil {
		j.CellDeps = []CellDep{}
	}
	return json.Marshal(j)
}

// WitnessArgs is the structure serialized into a transaction's per-input
// witness slot. Lock carries the unlock proof (signature) for the
// corresponding input's lock script; InputType/OutputType carry proofs for
// type scripts and are unused by the plain sighash-all transfers this
// harness builds.
type WitnessArgs struct {
	Lock       HexBytes `json:"lock,omitempty"`
	InputType  HexBytes `json:"input_type,omitempty"`
	OutputType HexBytes `json:"output_type,omitempty"`
}

// TxStatus is the pool/chain status of a transaction as reported by
// get_transaction.
type TxStatus struct {
	Status    string `json:"status"`
	BlockHash *Hash  `json:"block_hash,omitempty"`
}

// TransactionWithStatus wraps a transaction with its pool/chain status, the
// shape returned by get_transaction.
type TransactionWithStatus struct {
	Transaction *Transaction `json:"transaction"`
	TxStatus    TxStatus     `json:"tx_status"`
}
