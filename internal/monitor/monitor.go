// Package monitor watches the network's confirmed chain for stability,
// emitting a throughput summary once one of its evaluation modes is
// satisfied.
package monitor

import (
	"fmt"
	"time"

	"github.com/ckb-tps-bench/bench/internal/log"
	"github.com/ckb-tps-bench/bench/pkg/crypto"
	"github.com/ckb-tps-bench/bench/pkg/types"
)

const pollInterval = time.Second

// chain is the subset of *endpointset.Set the monitor needs, plus a
// single client's block-fetching method (block contents, unlike headers,
// aren't cross-endpoint agreement-checked — the header confirmation
// already vouches for the block they came from).
type chain interface {
	ConfirmedTipHeader() (*types.Header, error)
	IsTxpoolEmpty() (bool, error)
	GetBlockByNumber(number uint64) (*types.Block, error)
}

// Mode selects one of the four evaluation strategies spec'd for
// deciding when the network has "stabilized".
type Mode int

const (
	ModeRecentBlockTxnsNearly Mode = iota
	ModeCustomBlocksElapsed
	ModeTimedTask
	ModeNever
)

// Config parameterizes the chosen Mode; only the fields relevant to the
// selected mode are read.
type Config struct {
	Mode Mode

	// RecentBlockTxnsNearly
	Window int
	Margin int

	// CustomBlocksElapsed
	Warmup uint64
	Blocks uint64

	// TimedTask
	Duration time.Duration
}

// Metrics is the throughput summary emitted once an evaluation mode is
// satisfied, or by ComputeChainMetrics's one-shot whole-chain walk.
type Metrics struct {
	TPS                      uint64 `json:"tps"`
	AverageBlockTimeMs       uint64 `json:"average_block_time_ms"`
	AverageBlockTransactions uint64 `json:"average_block_transactions"`
	StartBlockNumber         uint64 `json:"start_block_number"`
	EndBlockNumber           uint64 `json:"end_block_number"`
	NetworkNodeCount         int    `json:"network_node_count"`
	BenchingNodeCount        int    `json:"benching_node_count"`
	TotalTxSize              uint64 `json:"total_tx_size"`
}

// Monitor evaluates network stability against a chain view.
type Monitor struct {
	chain             chain
	networkNodeCount  int
	benchingNodeCount int
}

// New builds a Monitor. networkNodeCount is the full network's endpoint
// count; benchingNodeCount is how many of those this harness is actually
// dispatching transactions to (the two can differ when only a subset of a
// larger network is under test).
func New(c chain, networkNodeCount, benchingNodeCount int) *Monitor {
	return &Monitor{chain: c, networkNodeCount: networkNodeCount, benchingNodeCount: benchingNodeCount}
}

// Run waits for the tx pool to stop being empty (signaling the benchmark
// has started sending), then runs the configured evaluation mode until it
// reports stability or stop is closed.
func (m *Monitor) Run(cfg Config, stop <-chan struct{}) (Metrics, error) {
	if ok := m.waitTxpoolNonEmpty(stop); !ok {
		return Metrics{}, fmt.Errorf("monitor: stopped before tx pool became non-empty")
	}

	switch cfg.Mode {
	case ModeRecentBlockTxnsNearly:
		return m.recentBlockTxnsNearly(cfg.Window, cfg.Margin, stop)
	case ModeCustomBlocksElapsed:
		return m.customBlocksElapsed(cfg.Warmup, cfg.Blocks, stop)
	case ModeTimedTask:
		return m.timedTask(cfg.Duration, stop)
	case ModeNever:
		<-stop
		return Metrics{}, nil
	default:
		return Metrics{}, fmt.Errorf("monitor: unknown mode %d", cfg.Mode)
	}
}

func (m *Monitor) waitTxpoolNonEmpty(stop <-chan struct{}) bool {
	for {
		empty, err := m.chain.IsTxpoolEmpty()
		if err == nil && !empty {
			return true
		}
		if !sleepOrStop(pollInterval, stop) {
			return false
		}
	}
}

// recentBlockTxnsNearly slides a window of confirmed blocks, emitting
// Metrics once the spread between the window's busiest and quietest
// block's tx counts falls to margin or below.
func (m *Monitor) recentBlockTxnsNearly(window, margin int, stop <-chan struct{}) (Metrics, error) {
	log.Monitor.Info().Int("window", window).Int("margin", margin).Msg("waiting for recent block txn counts to stabilize")

	queue, err := m.seedQueue(window, stop)
	if err != nil {
		return Metrics{}, err
	}

	for {
		next, ok, err := m.waitNextBlock(queue[len(queue)-1].Header, stop)
		if err != nil {
			return Metrics{}, err
		}
		if !ok {
			return Metrics{}, fmt.Errorf("monitor: stopped waiting for the next confirmed block")
		}
		queue = append(queue, next)
		if len(queue) > window {
			queue = queue[len(queue)-window:]
		}

		if len(queue) < window {
			continue
		}

		minTxns, maxTxns := txnBounds(queue)
		metrics := summarize(queue, m.networkNodeCount, m.benchingNodeCount)
		log.Monitor.Info().Interface("metrics", metrics).Msg("window metrics")
		if maxTxns <= minTxns+margin {
			return metrics, nil
		}
	}
}

// customBlocksElapsed measures confirmed blocks [tip+warmup, tip+warmup+blocks],
// where tip is the confirmed tip at call time: blocks+1 blocks spanning
// `blocks` block intervals, the first of which is block tip+warmup itself.
func (m *Monitor) customBlocksElapsed(warmup, blocks uint64, stop <-chan struct{}) (Metrics, error) {
	log.Monitor.Info().Uint64("warmup", warmup).Uint64("blocks", blocks).Msg("measuring a fixed window past warmup")

	tip, err := m.waitConfirmedTip(stop)
	if err != nil {
		return Metrics{}, err
	}
	start := uint64(tip.Number) + warmup
	end := start + blocks

	if err := m.waitForConfirmedNumber(end, stop); err != nil {
		return Metrics{}, err
	}

	queue, err := m.fetchRange(start, end)
	if err != nil {
		return Metrics{}, err
	}
	return summarize(queue, m.networkNodeCount, m.benchingNodeCount), nil
}

// timedTask accumulates every confirmed block produced during d.
func (m *Monitor) timedTask(d time.Duration, stop <-chan struct{}) (Metrics, error) {
	log.Monitor.Info().Dur("duration", d).Msg("measuring confirmed blocks over a fixed duration")

	start, err := m.waitConfirmedTip(stop)
	if err != nil {
		return Metrics{}, err
	}

	queue := []*types.Block{}
	first, err := m.chain.GetBlockByNumber(uint64(start.Number))
	if err != nil || first == nil {
		return Metrics{}, fmt.Errorf("monitor: fetch start block %d: %w", start.Number, err)
	}
	queue = append(queue, first)

	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		tip, err := m.chain.ConfirmedTipHeader()
		if err == nil && tip != nil {
			for n := uint64(queue[len(queue)-1].Header.Number) + 1; n <= uint64(tip.Number); n++ {
				block, err := m.chain.GetBlockByNumber(n)
				if err != nil || block == nil {
					break
				}
				queue = append(queue, block)
			}
		}
		if !sleepOrStop(pollInterval, stop) {
			break
		}
	}

	if len(queue) < 2 {
		return Metrics{}, fmt.Errorf("monitor: fewer than 2 confirmed blocks observed during the timed window")
	}
	return summarize(queue, m.networkNodeCount, m.benchingNodeCount), nil
}

// ComputeChainMetrics walks the whole confirmed chain once (genesis to
// the current fixed tip) and summarizes it without waiting for
// stabilization — the basis of the `metric` CLI subcommand.
func (m *Monitor) ComputeChainMetrics() (Metrics, error) {
	tip, err := m.chain.ConfirmedTipHeader()
	if err != nil {
		return Metrics{}, fmt.Errorf("confirmed tip: %w", err)
	}
	if tip == nil {
		return Metrics{}, fmt.Errorf("monitor: no confirmed tip available")
	}

	queue, err := m.fetchRange(0, uint64(tip.Number))
	if err != nil {
		return Metrics{}, err
	}
	if len(queue) < 2 {
		return Metrics{}, fmt.Errorf("monitor: fewer than 2 blocks in chain")
	}
	return summarize(queue, m.networkNodeCount, m.benchingNodeCount), nil
}

func (m *Monitor) seedQueue(window int, stop <-chan struct{}) ([]*types.Block, error) {
	tip, err := m.waitConfirmedTip(stop)
	if err != nil {
		return nil, err
	}
	first, err := m.chain.GetBlockByNumber(uint64(tip.Number))
	if err != nil || first == nil {
		return nil, fmt.Errorf("monitor: fetch confirmed tip block %d: %w", tip.Number, err)
	}
	queue := make([]*types.Block, 0, window)
	return append(queue, first), nil
}

func (m *Monitor) waitConfirmedTip(stop <-chan struct{}) (*types.Header, error) {
	for {
		tip, err := m.chain.ConfirmedTipHeader()
		if err == nil && tip != nil {
			return tip, nil
		}
		if !sleepOrStop(pollInterval, stop) {
			return nil, fmt.Errorf("monitor: stopped waiting for a confirmed tip")
		}
	}
}

// waitNextBlock polls until the confirmed tip passes after.Number, then
// returns the block immediately following it.
func (m *Monitor) waitNextBlock(after types.Header, stop <-chan struct{}) (*types.Block, bool, error) {
	for {
		tip, err := m.chain.ConfirmedTipHeader()
		if err == nil && tip != nil && uint64(tip.Number) > uint64(after.Number) {
			block, err := m.chain.GetBlockByNumber(uint64(after.Number) + 1)
			if err != nil || block == nil {
				return nil, false, fmt.Errorf("monitor: fetch block %d: %w", uint64(after.Number)+1, err)
			}
			return block, true, nil
		}
		if !sleepOrStop(pollInterval, stop) {
			return nil, false, nil
		}
	}
}

func (m *Monitor) waitForConfirmedNumber(target uint64, stop <-chan struct{}) error {
	for {
		tip, err := m.chain.ConfirmedTipHeader()
		if err == nil && tip != nil && uint64(tip.Number) >= target {
			return nil
		}
		if !sleepOrStop(pollInterval, stop) {
			return fmt.Errorf("monitor: stopped waiting for confirmed height %d", target)
		}
	}
}

func (m *Monitor) fetchRange(start, end uint64) ([]*types.Block, error) {
	blocks := make([]*types.Block, 0, end-start+1)
	for n := start; n <= end; n++ {
		block, err := m.chain.GetBlockByNumber(n)
		if err != nil || block == nil {
			return nil, fmt.Errorf("monitor: fetch block %d: %w", n, err)
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

func txnBounds(blocks []*types.Block) (min, max int) {
	min, max = len(blocks[0].Transactions), len(blocks[0].Transactions)
	for _, b := range blocks[1:] {
		n := len(b.Transactions)
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	return min, max
}

func summarize(blocks []*types.Block, networkNodeCount, benchingNodeCount int) Metrics {
	start, end := blocks[0], blocks[len(blocks)-1]
	var totalTxns, totalSize uint64
	for _, b := range blocks {
		totalTxns += uint64(len(b.Transactions))
		for _, tx := range b.Transactions {
			totalSize += uint64(len(crypto.SigningBytes(tx)))
		}
	}

	elapsedMs := uint64(end.Header.Timestamp) - uint64(start.Header.Timestamp)
	averageBlockTimeMs := elapsedMs / uint64(len(blocks))
	if averageBlockTimeMs == 0 {
		averageBlockTimeMs = 1
	}
	var tps uint64
	if elapsedMs > 0 {
		tps = uint64(float64(totalTxns) * 1000 / float64(elapsedMs))
	}

	return Metrics{
		TPS:                      tps,
		AverageBlockTimeMs:       averageBlockTimeMs,
		AverageBlockTransactions: totalTxns / uint64(len(blocks)),
		StartBlockNumber:         uint64(start.Header.Number),
		EndBlockNumber:           uint64(end.Header.Number),
		NetworkNodeCount:         networkNodeCount,
		BenchingNodeCount:        benchingNodeCount,
		TotalTxSize:              totalSize,
	}
}

func sleepOrStop(d time.Duration, stop <-chan struct{}) bool {
	select {
	case <-time.After(d):
		return true
	case <-stop:
		return false
	}
}
