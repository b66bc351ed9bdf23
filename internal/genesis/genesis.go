// Package genesis extracts the two facts every account and transaction
// builder needs from a chain's genesis block: the sighash-all dep-group
// out-point, and the sighash-all lock code's type script hash.
package genesis

import (
	"fmt"

	"github.com/ckb-tps-bench/bench/internal/rpcclient"
	"github.com/ckb-tps-bench/bench/pkg/crypto"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// Info is the immutable, explicitly-passed context every account and
// transaction builder needs — deliberately not a package-level global
// (see SPEC_FULL.md §5's design note), so tests can construct a fake.
type Info struct {
	// SighashAllCellDep is the cell-dep a transaction must attach to
	// load the sighash-all lock script code.
	SighashAllCellDep types.CellDep

	// SighashAllTypeHash is the type-script hash of the sighash-all
	// lock code, used as the CodeHash of every account's lock script.
	SighashAllTypeHash types.Hash
}

// Load fetches block 0 from client and extracts the dep-group out-point
// and sighash-all type hash, per CKB's genesis layout: the transaction at
// DepGroupTransactionIndex holds the dep-group cells (the sighash-all one
// at SighashAllDepGroupCellIndex); the genesis's first transaction holds
// the lock code cell itself, whose type script hash identifies it.
func Load(client *rpcclient.Client) (*Info, error) {
	block, err := client.GetBlockByNumber(0)
	if err != nil {
		return nil, fmt.Errorf("fetch genesis block: %w", err)
	}
	if block == nil {
		return nil, fmt.Errorf("genesis block not found")
	}
	if len(block.Transactions) <= types.DepGroupTransactionIndex {
		return nil, fmt.Errorf("genesis block has no dep-group transaction at index %d", types.DepGroupTransactionIndex)
	}

	depGroupTx := block.Transactions[types.DepGroupTransactionIndex]
	txHash := crypto.TransactionHash(depGroupTx)
	depGroupOutPoint := types.OutPoint{TxHash: txHash, Index: types.SighashAllDepGroupCellIndex}

	codeTx := block.Transactions[0]
	if len(codeTx.Outputs) <= types.SighashAllTypeScriptCellIndex {
		return nil, fmt.Errorf("genesis block's first transaction has no output at index %d", types.SighashAllTypeScriptCellIndex)
	}
	codeCell := codeTx.Outputs[types.SighashAllTypeScriptCellIndex]
	if codeCell.Type == nil {
		return nil, fmt.Errorf("sighash-all code cell carries no type script")
	}

	return &Info{
		SighashAllCellDep: types.CellDep{
			OutPoint: depGroupOutPoint,
			DepType:  types.DepTypeDepGroup,
		},
		SighashAllTypeHash: crypto.ScriptHash(*codeCell.Type),
	}, nil
}
