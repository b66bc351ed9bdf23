package bench

import (
	"fmt"
	"time"

	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/internal/dispatcher"
	"github.com/ckb-tps-bench/bench/internal/log"
	"github.com/ckb-tps-bench/bench/internal/miner"
	"github.com/ckb-tps-bench/bench/internal/monitor"
	"github.com/ckb-tps-bench/bench/internal/txbuilder"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

// utxoQueueSize is the capacity of the channel a UTXO stream feeds,
// matching spec.md §5's `signed_tx`/bootstrap channel sizing discussion.
const utxoQueueSize = 2000

// BenchmarkSpec is one configured benchmark run: a transaction shape, an
// inter-send delay, and the evaluation mode that decides when the network
// has stabilized.
type BenchmarkSpec struct {
	TransactionType TransactionType
	SendDelay       time.Duration
	Eval            monitor.Config
}

// BisectSpec requests the optional best-TPS search described in
// SPEC_FULL.md's benchmark driver section, bracketing send_delay between
// MinSendDelay and the interval implied by MinTPS.
type BisectSpec struct {
	TransactionType TransactionType
	MinSendDelay    time.Duration
	MinTPS          uint64
	Eval            monitor.Config
}

// Mine repeatedly fetches a block template, assembles it, and submits it,
// exiting after blocks blocks.
func (d *Driver) Mine(blocks uint64) error {
	client := d.ctx.Endpoints.Client(0)
	m := miner.New(client, d.ctx.MinerBlockTime)
	return m.RunN(blocks)
}

// Bench runs the miner in the background at its configured cadence, seeds
// the bencher account from the miner's funds if the two accounts differ,
// and runs each configured benchmark (and, if bisect is non-nil, the
// best-send-delay search) in turn, appending every result to results.
func (d *Driver) Bench(specs []BenchmarkSpec, bisect *BisectSpec, results *ResultWriter) error {
	stop := make(chan struct{})
	defer close(stop)

	minerClient := d.ctx.Endpoints.Client(0)
	m := miner.New(minerClient, d.ctx.MinerBlockTime)
	go m.RunForever(stop)

	if !d.ctx.Miner.LockScript().Equal(d.ctx.Bencher.LockScript()) {
		go d.runTransferPipeline(stop)
	}

	utxoCh, err := d.trackBencherUTXOs(stop)
	if err != nil {
		return fmt.Errorf("bench: track bencher utxos: %w", err)
	}

	disp := d.newDispatcher()
	go disp.Run(stop)

	mon := monitor.New(d.ctx.Endpoints, d.ctx.NetworkNodeCount, d.ctx.BenchingNodeCount)

	for _, spec := range specs {
		metrics, err := d.runBenchmark(spec, mon, utxoCh, disp, stop)
		if err != nil {
			return fmt.Errorf("bench(%s, delay=%s): %w", spec.TransactionType, spec.SendDelay, err)
		}
		if err := results.Append(Result{TransactionType: spec.TransactionType, SendDelayMs: uint64(spec.SendDelay / time.Millisecond), Metrics: metrics}); err != nil {
			log.Bench.Error().Err(err).Msg("failed to persist benchmark result")
		}
	}

	if bisect != nil {
		hi := SendDelayUpperBound(bisect.MinTPS)
		probe := func(delay time.Duration) (monitor.Metrics, error) {
			return d.runBenchmark(BenchmarkSpec{TransactionType: bisect.TransactionType, SendDelay: delay, Eval: bisect.Eval}, mon, utxoCh, disp, stop)
		}
		delay, metrics, err := BisectBestSendDelay(bisect.MinSendDelay, hi, probe)
		if err != nil {
			return fmt.Errorf("bench: bisect best send delay: %w", err)
		}
		if err := results.Append(Result{TransactionType: bisect.TransactionType, SendDelayMs: uint64(delay / time.Millisecond), Metrics: metrics}); err != nil {
			log.Bench.Error().Err(err).Msg("failed to persist bisect result")
		}
	}

	return nil
}

// newDispatcher fans out across one sender per configured endpoint, paced
// against the first endpoint's reported tip.
func (d *Driver) newDispatcher() *dispatcher.Dispatcher {
	n := d.ctx.Endpoints.Len()
	senders := make([]dispatcher.Sender, n)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		c := d.ctx.Endpoints.Client(i)
		senders[i] = c
		labels[i] = c.URI
	}
	return dispatcher.New(d.ctx.DispatcherCfg, d.ctx.Endpoints.Client(0), senders, labels)
}

// trackBencherUTXOs bootstraps the bencher's live-cell set up to the
// current tip and streams further matured outputs on the returned
// channel, mirroring threads.rs's spawn_pull_utxos.
func (d *Driver) trackBencherUTXOs(stop <-chan struct{}) (<-chan account.UTXO, error) {
	client := d.ctx.Endpoints.Client(0)

	tip, err := client.GetTipBlockNumber()
	if err != nil {
		return nil, fmt.Errorf("get_tip_block_number: %w", err)
	}
	mature, pending, err := d.ctx.Bencher.PullUntil(client, tip)
	if err != nil {
		return nil, fmt.Errorf("bootstrap bencher utxo set: %w", err)
	}
	tipHeader, err := client.GetHeaderByNumber(tip)
	if err != nil || tipHeader == nil {
		return nil, fmt.Errorf("get_header_by_number(%d): %w", tip, err)
	}

	out := make(chan account.UTXO, utxoQueueSize)
	go func() {
		for _, u := range mature {
			select {
			case out <- u:
			case <-stop:
				return
			}
		}
		if err := d.ctx.Bencher.PullForever(d.ctx.Endpoints, tipHeader, pending, out, stop); err != nil {
			log.Bench.Error().Err(err).Msg("bencher utxo stream stopped")
		}
	}()
	return out, nil
}

// runBenchmark waits for the previous benchmark's transactions to fully
// drain, then accumulates incoming UTXOs into signed transactions at
// spec.SendDelay's pace, dispatching each one, until the stability monitor
// (run in the background) reports the network has stabilized.
func (d *Driver) runBenchmark(spec BenchmarkSpec, mon *monitor.Monitor, utxoCh <-chan account.UTXO, disp *dispatcher.Dispatcher, stop <-chan struct{}) (monitor.Metrics, error) {
	if err := waitTxpoolEmpty(d.ctx.Endpoints, stop); err != nil {
		return monitor.Metrics{}, err
	}
	log.Bench.Info().Str("transaction_type", spec.TransactionType.String()).Dur("send_delay", spec.SendDelay).Msg("starting benchmark")

	monStop := make(chan struct{})
	result := make(chan monitor.Metrics, 1)
	errCh := make(chan error, 1)
	go func() {
		metrics, err := mon.Run(spec.Eval, monStop)
		if err != nil {
			errCh <- err
			return
		}
		result <- metrics
	}()
	finish := func() {
		close(monStop)
	}

	outputsCount := spec.TransactionType.OutputsCount()
	minInputTotal := outputsCount*uint64(types.MinSecpCellCapacity) + txbuilder.EstimateFee(outputsCount)

	var inputs []account.UTXO
	var total uint64
	sent, lastPrint := 0, time.Now()

	for {
		select {
		case metrics := <-result:
			finish()
			return metrics, nil
		case err := <-errCh:
			finish()
			return monitor.Metrics{}, err
		case utxo, ok := <-utxoCh:
			if !ok {
				finish()
				return monitor.Metrics{}, fmt.Errorf("utxo stream closed before network stabilized")
			}
			total += utxo.Capacity()
			inputs = append(inputs, utxo)
			if total < minInputTotal {
				continue
			}

			tx, err := txbuilder.ConstructUnsigned(d.ctx.Bencher, d.ctx.Genesis, inputs, outputsCount)
			inputs, total = nil, 0
			if err != nil {
				log.Bench.Warn().Err(err).Msg("construct_unsigned failed, dropping inputs")
				continue
			}
			signed, err := txbuilder.Sign(d.ctx.Bencher, tx)
			if err != nil {
				log.Bench.Warn().Err(err).Msg("sign failed, dropping inputs")
				continue
			}
			disp.Submit(signed)

			sent++
			if time.Since(lastPrint) > sentLogInterval {
				lastPrint = time.Now()
				log.Bench.Info().Int("sent", sent).Msg("benched transactions")
			}

			time.Sleep(spec.SendDelay)
		case <-stop:
			finish()
			return monitor.Metrics{}, fmt.Errorf("stopped before network stabilized")
		}
	}
}

// waitTxpoolEmpty blocks until every endpoint's pool has drained, so a new
// benchmark never starts measuring a previous one's trailing transactions.
func waitTxpoolEmpty(chain interface{ IsTxpoolEmpty() (bool, error) }, stop <-chan struct{}) error {
	for {
		empty, err := chain.IsTxpoolEmpty()
		if err == nil && empty {
			return nil
		}
		select {
		case <-time.After(time.Second):
		case <-stop:
			return fmt.Errorf("stopped waiting for tx pool to drain")
		}
	}
}
