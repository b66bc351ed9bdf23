// Package bench wires the UTXO tracker, transaction builder, dispatcher,
// and stability monitor into the two benchmark driver modes: mining
// blocks on a fixed cadence, and running one or more send-rate benchmarks
// against a live network.
package bench

import (
	"time"

	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/internal/dispatcher"
	"github.com/ckb-tps-bench/bench/internal/endpointset"
	"github.com/ckb-tps-bench/bench/internal/genesis"
)

// Context is the immutable, explicitly-passed state a benchmark run needs
// — genesis info, the miner and bencher accounts, and tuning constants —
// constructed once by the caller (cmd/ckb-tps-bench) rather than held as
// package-level globals. See SPEC_FULL.md §9's design note.
type Context struct {
	Endpoints *endpointset.Set
	Genesis   *genesis.Info

	Miner   *account.Account
	Bencher *account.Account

	MinerBlockTime time.Duration

	NetworkNodeCount  int
	BenchingNodeCount int

	DispatcherCfg dispatcher.Config
}

// Driver runs the Mine and Bench modes against a Context.
type Driver struct {
	ctx *Context
}

// NewDriver builds a Driver against ctx.
func NewDriver(ctx *Context) *Driver {
	return &Driver{ctx: ctx}
}
