// Command ckb-tps-bench drives a CKB-compatible network through the mine,
// bench, and metric modes: generate blocks on a fixed cadence, run one or
// more transaction-per-second benchmarks (optionally bisecting for the
// best send delay), or print one-shot throughput metrics over an existing
// chain.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ckb-tps-bench/bench/internal/log"
)

func main() {
	app := &cli.App{
		Name:  "ckb-tps-bench",
		Usage: "transaction-per-second benchmark harness for CKB-compatible networks",
		Commands: []*cli.Command{
			mineCommand(),
			benchCommand(),
			metricCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		log.Bench.Error().Err(err).Msg("ckb-tps-bench exited with an error")
		os.Exit(1)
	}
}

var rpcURLsFlag = &cli.StringSliceFlag{
	Name:     "rpc-urls",
	Usage:    "the ckb rpc endpoints",
	Required: true,
}

var specFlag = &cli.StringFlag{
	Name:     "spec",
	Aliases:  []string{"s"},
	Usage:    "the spec: staging, dev, release or path to spec file",
	Required: true,
}
