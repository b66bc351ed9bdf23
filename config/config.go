// Package config loads the TOML configuration that drives the mine and
// bench CLI modes: account keys, the benchmark matrix, and the consensus
// constants a bencher needs to size transactions and wait out maturity
// windows.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ckb-tps-bench/bench/internal/monitor"
)

// TransactionType mirrors internal/bench.TransactionType for TOML
// decoding, keeping the bench package free of a config import.
type TransactionType string

const (
	In1Out1 TransactionType = "In1Out1"
	In2Out2 TransactionType = "In2Out2"
	In3Out3 TransactionType = "In3Out3"
)

// StabilityMode names one of monitor.Config's evaluation modes, selected
// by the TOML key method_to_eval_network_stable (and, per-benchmark, by
// method_to_eval_net_stable).
type StabilityMode string

const (
	StabilityRecentBlockTxnsNearly StabilityMode = "recent_block_txns_nearly"
	StabilityCustomBlocksElapsed   StabilityMode = "custom_blocks_elapsed"
	StabilityTimedTask             StabilityMode = "timed_task"
	StabilityNever                 StabilityMode = "never"
)

// MinerConfig holds the miner account's key and block cadence.
type MinerConfig struct {
	PrivateKey string `toml:"private_key"`
	BlockTime  uint64 `toml:"block_time"` // milliseconds
}

// StabilityConfig parameterizes monitor.Config. Only the fields relevant
// to Mode are read; zero-valued fields for other modes are ignored.
type StabilityConfig struct {
	Mode StabilityMode `toml:"mode"`

	Window int `toml:"window"`
	Margin int `toml:"margin"`

	Warmup uint64 `toml:"warmup"`
	Blocks uint64 `toml:"blocks"`

	DurationSecs uint64 `toml:"duration_secs"`
}

// ToMonitorConfig translates the TOML stability knobs into monitor.Config.
func (s StabilityConfig) ToMonitorConfig() (monitor.Config, error) {
	switch s.Mode {
	case StabilityRecentBlockTxnsNearly, "":
		return monitor.Config{Mode: monitor.ModeRecentBlockTxnsNearly, Window: s.Window, Margin: s.Margin}, nil
	case StabilityCustomBlocksElapsed:
		return monitor.Config{Mode: monitor.ModeCustomBlocksElapsed, Warmup: s.Warmup, Blocks: s.Blocks}, nil
	case StabilityTimedTask:
		return monitor.Config{Mode: monitor.ModeTimedTask, Duration: time.Duration(s.DurationSecs) * time.Second}, nil
	case StabilityNever:
		return monitor.Config{Mode: monitor.ModeNever}, nil
	default:
		return monitor.Config{}, fmt.Errorf("config: unknown stability mode %q", s.Mode)
	}
}

// BenchmarkConfig is one entry of the benchmarks array: a transaction
// shape, a fixed inter-send delay in microseconds, and an optional
// per-benchmark override of the top-level stability evaluation mode.
type BenchmarkConfig struct {
	TransactionType       TransactionType  `toml:"transaction_type"`
	SendDelayMicros       uint64           `toml:"send_delay"`
	MethodToEvalNetStable *StabilityConfig `toml:"method_to_eval_net_stable"`
}

// BisectConfig requests the optional best-send-delay search, bracketing
// send_delay between MinSendDelay and the interval implied by MinTPS (an
// upper bound of 10^6/min_tps microseconds).
type BisectConfig struct {
	TransactionType    TransactionType `toml:"transaction_type"`
	MinSendDelayMicros uint64          `toml:"min_send_delay"`
	MinTPS             uint64          `toml:"min_tps"`
}

// Config is the root of the TOML configuration file (spec.md §6). Node
// endpoints are deliberately absent: they arrive as the CLI's repeated
// --rpc-urls flag, not a TOML field, matching spec.md §6's CLI surface.
type Config struct {
	DataDir string `toml:"data_dir"`

	BencherPrivateKey string      `toml:"bencher_private_key"`
	Miner             MinerConfig `toml:"miner"`

	Benchmarks []BenchmarkConfig `toml:"benchmarks"`
	Bisect     *BisectConfig     `toml:"bisect"`

	ConsensusCellbaseMaturity        uint64 `toml:"consensus_cellbase_maturity"`
	ConfirmationBlocks               uint64 `toml:"confirmation_blocks"`
	EnsureMaturedCapacityGreaterThan uint64 `toml:"ensure_matured_capacity_greater_than"`

	MethodToEvalNetworkStable StabilityConfig `toml:"method_to_eval_network_stable"`

	SkipBestTPSCalculation bool `toml:"skip_best_tps_caculation"`
}

// LogFile returns the human-readable log path, <data_dir>/bench.log.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "bench.log")
}

// MetricsFile returns the one-JSON-object-per-line results path,
// <data_dir>/metrics.json.
func (c *Config) MetricsFile() string {
	return filepath.Join(c.DataDir, "metrics.json")
}
