package bench

import (
	"fmt"
	"time"

	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/internal/log"
	"github.com/ckb-tps-bench/bench/internal/txbuilder"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// transferOutputsCount is the output width of the miner-to-bencher seed
// transfer: a single consolidated cell is all the bencher's own benchmark
// transactions need to start splitting further.
const transferOutputsCount = 1

// sentLogInterval bounds how often a long-running send loop logs its
// running count, matching the original benchmark's periodic progress line.
const sentLogInterval = 60 * time.Second

// runTransferPipeline streams the miner's own matured cells and
// consolidates them into transfers to the bencher account, running until
// stop is closed. It is spawned once (not per-benchmark) whenever the
// miner and bencher are distinct accounts, since the bencher otherwise
// never receives the coinbase rewards it needs to spend.
func (d *Driver) runTransferPipeline(stop <-chan struct{}) {
	client := d.ctx.Endpoints.Client(0)

	tip, err := client.GetTipBlockNumber()
	if err != nil {
		log.Bench.Error().Err(err).Msg("transfer pipeline: get_tip_block_number failed")
		return
	}
	mature, pending, err := d.ctx.Miner.PullUntil(client, tip)
	if err != nil {
		log.Bench.Error().Err(err).Msg("transfer pipeline: bootstrap miner utxo set failed")
		return
	}
	tipHeader, err := client.GetHeaderByNumber(tip)
	if err != nil || tipHeader == nil {
		log.Bench.Error().Err(err).Uint64("tip", tip).Msg("transfer pipeline: get_header_by_number failed")
		return
	}

	utxoCh := make(chan account.UTXO, utxoQueueSize)
	go func() {
		for _, u := range mature {
			select {
			case utxoCh <- u:
			case <-stop:
				return
			}
		}
		if err := d.ctx.Miner.PullForever(d.ctx.Endpoints, tipHeader, pending, utxoCh, stop); err != nil {
			log.Bench.Error().Err(err).Msg("transfer pipeline: miner utxo stream stopped")
		}
	}()

	minInputTotal := uint64(transferOutputsCount)*uint64(types.MinSecpCellCapacity) + txbuilder.EstimateFee(transferOutputsCount)
	var inputs []account.UTXO
	var total uint64
	sent, lastPrint := 0, time.Now()

	for {
		select {
		case utxo, ok := <-utxoCh:
			if !ok {
				return
			}
			total += utxo.Capacity()
			inputs = append(inputs, utxo)
			if total < minInputTotal {
				continue
			}

			tx, err := txbuilder.ConstructUnsigned(d.ctx.Bencher, d.ctx.Genesis, inputs, transferOutputsCount)
			inputs, total = nil, 0
			if err != nil {
				log.Bench.Warn().Err(err).Msg("transfer pipeline: construct_unsigned failed, dropping inputs")
				continue
			}
			signed, err := txbuilder.Sign(d.ctx.Miner, tx)
			if err != nil {
				log.Bench.Warn().Err(err).Msg("transfer pipeline: sign failed, dropping inputs")
				continue
			}
			if _, err := client.SendTransaction(signed); err != nil {
				panic(fmt.Errorf("transfer pipeline: send_transaction: %w", err))
			}

			sent++
			if time.Since(lastPrint) > sentLogInterval {
				lastPrint = time.Now()
				log.Bench.Info().Int("sent", sent).Msg("transferred miner funds to bencher")
			}
		case <-stop:
			return
		}
	}
}
