// Package txbuilder constructs and signs plain sighash-all transfer
// transactions: spend a set of input cells, split the proceeds evenly
// across a fixed output count, and attach the recipient's lock script.
package txbuilder

import (
	"fmt"

	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/internal/genesis"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// EstimateFee returns the linear fee estimate for a transaction with the
// given output count, a conservative over-approximation of the node's
// minimum fee rate of 1000 shannons/KB.
func EstimateFee(outputsCount uint64) uint64 {
	return outputsCount * uint64(types.MinFeeRate)
}

// ConstructUnsigned builds an unsigned transaction spending inputs and
// paying their total capacity (less EstimateFee) to recipient, split
// across outputsCount outputs as evenly as possible: the residual of
// integer division is distributed one unit each to the first
// (residual mod outputsCount) outputs.
func ConstructUnsigned(recipient *account.Account, gi *genesis.Info, inputs []account.UTXO, outputsCount uint64) (types.Transaction, error) {
	if outputsCount == 0 {
		return types.Transaction{}, fmt.Errorf("txbuilder: outputsCount must be positive")
	}

	var inputTotal uint64
	for _, u := range inputs {
		inputTotal += u.Capacity()
	}

	fee := EstimateFee(outputsCount)
	minRequired := outputsCount*uint64(types.MinSecpCellCapacity) + fee
	if inputTotal < minRequired {
		return types.Transaction{}, fmt.Errorf(
			"txbuilder: input total %d below minimum %d (outputs=%d, fee=%d)",
			inputTotal, minRequired, outputsCount, fee,
		)
	}

	residual := inputTotal - fee
	base := residual / outputsCount
	extra := residual % outputsCount

	cellInputs := make([]types.CellInput, len(inputs))
	for i, u := range inputs {
		cellInputs[i] = u.AsInput()
	}

	outputs := make([]types.CellOutput, outputsCount)
	outputsData := make([]types.HexBytes, outputsCount)
	lockScript := recipient.LockScript()
	for i := uint64(0); i < outputsCount; i++ {
		capacity := base
		if i < extra {
			capacity++
		}
		outputs[i] = types.CellOutput{Capacity: types.Uint64(capacity), Lock: lockScript}
		outputsData[i] = types.HexBytes{}
	}

	return types.Transaction{
		Version:     0,
		CellDeps:    []types.CellDep{gi.SighashAllCellDep},
		Inputs:      cellInputs,
		Outputs:     outputs,
		OutputsData: outputsData,
		Witnesses:   make([]types.HexBytes, len(cellInputs)),
	}, nil
}
