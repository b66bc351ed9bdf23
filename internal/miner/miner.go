// Package miner drives a configured account as the network's block
// producer: polling block templates, assembling them into blocks, and
// submitting them back to the node.
package miner

import (
	"fmt"
	"time"

	"github.com/ckb-tps-bench/bench/internal/log"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// client is the subset of *rpcclient.Client the miner needs.
type client interface {
	GetBlockTemplate() (*types.BlockTemplate, error)
	SubmitBlock(workID string, block types.Block) (*types.Hash, error)
	TxPoolInfo() (*types.TxPoolInfo, error)
}

// Miner repeatedly fetches a block template from a node and submits it,
// standing in for the network's PoW/PoA step in a benchmark setting where
// block assembly, not consensus, is what's under test.
type Miner struct {
	client    client
	blockTime time.Duration
}

// New builds a Miner against client, producing blocks every blockTime when
// run via RunForever.
func New(c client, blockTime time.Duration) *Miner {
	return &Miner{client: c, blockTime: blockTime}
}

// BlockAssemblerLockScript fetches a block template and returns the lock
// script of its cellbase output — the lock the node is actually configured
// to reward, against which a caller can compare a configured miner
// account's own lock script. Nothing in this package performs that check.
func BlockAssemblerLockScript(c client) (types.Script, error) {
	template, err := c.GetBlockTemplate()
	if err != nil {
		return types.Script{}, fmt.Errorf("get_block_template: %w", err)
	}
	if len(template.Cellbase.Transaction.Outputs) == 0 {
		return types.Script{}, fmt.Errorf("block template cellbase has no outputs")
	}
	return template.Cellbase.Transaction.Outputs[0].Lock, nil
}

// GenerateBlock fetches one block template, assembles it, and submits it,
// returning the submitted block's hash and number.
func (m *Miner) GenerateBlock() (*types.Hash, uint64, error) {
	template, err := m.client.GetBlockTemplate()
	if err != nil {
		return nil, 0, fmt.Errorf("get_block_template: %w", err)
	}

	block := assembleBlock(*template)
	workID := fmt.Sprintf("%d", uint64(template.WorkID))

	hash, err := m.client.SubmitBlock(workID, block)
	if err != nil {
		return nil, uint64(template.Number), fmt.Errorf("submit_block(work_id=%s): %w", workID, err)
	}
	return hash, uint64(template.Number), nil
}

// RunN generates exactly n blocks, one after another.
func (m *Miner) RunN(n uint64) error {
	for i := uint64(0); i < n; i++ {
		hash, number, err := m.GenerateBlock()
		if err != nil {
			return err
		}
		log.Miner.Info().Uint64("number", number).Stringer("hash", hash).Msg("submitted block")
	}
	return nil
}

// RunUntilTxpoolEmpty generates blocks, pausing 1s between each, until the
// node's pending and proposed tx pool counts both reach zero.
func (m *Miner) RunUntilTxpoolEmpty() error {
	for {
		info, err := m.client.TxPoolInfo()
		if err != nil {
			return fmt.Errorf("tx_pool_info: %w", err)
		}
		if info.Pending == 0 && info.Proposed == 0 {
			return nil
		}
		if _, _, err := m.GenerateBlock(); err != nil {
			return err
		}
		time.Sleep(time.Second)
	}
}

// RunForever generates blocks on blockTime cadence until stop is closed.
func (m *Miner) RunForever(stop <-chan struct{}) {
	ticker := time.NewTicker(m.blockTime)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, _, err := m.GenerateBlock(); err != nil {
				log.Miner.Error().Err(err).Msg("generate block failed")
			}
		}
	}
}

// assembleBlock converts a block template into the submittable block
// shape, attaching the cellbase as the block's first transaction.
func assembleBlock(template types.BlockTemplate) types.Block {
	transactions := make([]types.Transaction, 0, len(template.Transactions)+1)
	transactions = append(transactions, template.Cellbase.Transaction)
	for _, entry := range template.Transactions {
		transactions = append(transactions, entry.Transaction)
	}

	return types.Block{
		Header: types.Header{
			Version:       template.Version,
			CompactTarget: template.CompactTarget,
			Timestamp:     template.CurrentTime,
			Number:        template.Number,
			ParentHash:    template.ParentHash,
			Epoch:         template.Epoch,
		},
		Transactions: transactions,
		Proposals:    template.Proposals,
	}
}
