// Package account derives a benchmark account's lock script from its
// private key and reconstructs the live-cell set it owns by streaming
// confirmed blocks from the network.
package account

import (
	"fmt"

	"github.com/ckb-tps-bench/bench/internal/genesis"
	"github.com/ckb-tps-bench/bench/pkg/crypto"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// LockArgSize is the length of a sighash-all lock's args: the first 20
// bytes of the Blake2b hash of the account's compressed public key.
const LockArgSize = 20

// Account holds a benchmark participant's signing key and derives the
// lock script that identifies cells it owns.
type Account struct {
	privateKey     *crypto.PrivateKey
	genesis        *genesis.Info
	lockScript     types.Script
	maturityWindow uint64
}

// New derives an Account's sighash-all lock script from a private key and
// the chain's genesis info (for the sighash-all code's type hash).
// maturityWindow is the number of blocks a cellbase output must wait
// before it matures (consensus_cellbase_maturity in config); pass
// types.DefaultCellbaseMaturityWindow for the chain's nominal default.
func New(privateKey *crypto.PrivateKey, gi *genesis.Info, maturityWindow uint64) *Account {
	pubKey := privateKey.PublicKey()
	digest := crypto.Hash(pubKey)
	lockArg := make(types.HexBytes, LockArgSize)
	copy(lockArg, digest[:LockArgSize])

	lockScript := types.Script{
		CodeHash: gi.SighashAllTypeHash,
		HashType: types.HashTypeType,
		Args:     lockArg,
	}

	return &Account{privateKey: privateKey, genesis: gi, lockScript: lockScript, maturityWindow: maturityWindow}
}

// PrivateKey returns the account's signing key.
func (a *Account) PrivateKey() *crypto.PrivateKey { return a.privateKey }

// LockScript returns the account's sighash-all lock script.
func (a *Account) LockScript() types.Script { return a.lockScript }

// LockHash returns the content-addressed hash of the account's lock script.
func (a *Account) LockHash() types.Hash { return crypto.ScriptHash(a.lockScript) }

// owns reports whether output belongs to this account.
func (a *Account) owns(output types.CellOutput) bool {
	return a.lockScript.Equal(output.Lock)
}

// ownedOutputs splits a block's outputs this account owns into matured
// (non-coinbase-position) and unmatured (coinbase-position) UTXOs.
func (a *Account) ownedOutputs(block *types.Block) (matured, unmatured []UTXO) {
	for txIndex, tx := range block.Transactions {
		txHash := crypto.TransactionHash(tx)
		for index, output := range tx.Outputs {
			if !a.owns(output) {
				continue
			}
			u := UTXO{
				OutPoint: types.OutPoint{TxHash: txHash, Index: uint32(index)},
				Output:   output,
			}
			if txIndex == 0 {
				unmatured = append(unmatured, u)
			} else {
				matured = append(matured, u)
			}
		}
	}
	return matured, unmatured
}

// fetchBlock centralizes the "fetch block N" RPC call so both PullUntil
// and PullForever share one retrieval error message.
func fetchBlock(client blockFetcher, number uint64) (*types.Block, error) {
	block, err := client.GetBlockByNumber(number)
	if err != nil {
		return nil, fmt.Errorf("get_block_by_number(%d): %w", number, err)
	}
	return block, nil
}

// blockFetcher is the subset of *rpcclient.Client the tracker needs,
// narrowed so tests can supply a fake without spinning up an HTTP server
// where that isn't needed.
type blockFetcher interface {
	GetBlockByNumber(number uint64) (*types.Block, error)
}
