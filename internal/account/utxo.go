package account

import "github.com/ckb-tps-bench/bench/pkg/types"

// UTXO is a spendable cell this account owns: its out-point (for use as a
// CellInput) and its output (for its capacity and lock script).
type UTXO struct {
	OutPoint types.OutPoint
	Output   types.CellOutput
}

// Capacity returns the cell's capacity in shannons.
func (u UTXO) Capacity() uint64 {
	return uint64(u.Output.Capacity)
}

// AsInput returns the CellInput a transaction spending this UTXO attaches.
func (u UTXO) AsInput() types.CellInput {
	return types.CellInput{PreviousOutput: u.OutPoint}
}

// immature pairs a not-yet-spendable coinbase UTXO with the block number
// it was created at, so the tracker knows when to promote it.
type immature struct {
	createdAt uint64
	utxo      UTXO
}
