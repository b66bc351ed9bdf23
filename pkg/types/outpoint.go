package types

import (
	"encoding/json"
	"fmt"
)

// OutPoint references a specific output (cell) of a transaction.
type OutPoint struct {
	TxHash Hash
	Index  uint32
}

type outPointJSON struct {
	TxHash Hash   `json:"tx_hash"`
	Index  Uint64 `json:"index"`
}

// MarshalJSON encodes the out-point per the CKB RPC convention:
// {"tx_hash": "0x..", "index": "0x.."}.
func (o OutPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(outPointJSON{TxHash: o.TxHash, Index: Uint64(o.Index)})
}

// UnmarshalJSON decodes a CKB-style out-point.
func (o *OutPoint) UnmarshalJSON(data []byte) error {
	var j outPointJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	o.TxHash = j.TxHash
	o.Index = uint32(j.Index)
	return nil
}

// IsZero reports whether the out-point has a zero tx hash and zero index —
// the marker used by a cellbase (coinbase) input.
func (o OutPoint) IsZero() bool {
	return o.TxHash.IsZero() && o.Index == 0
}

// String returns "tx_hash:index" in hex.
func (o OutPoint) String() string {
	return fmt.Sprintf("%s:%d", o.TxHash.String(), o.Index)
}
