package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ckb-tps-bench/bench/internal/endpointset"
	"github.com/ckb-tps-bench/bench/internal/monitor"
)

func metricCommand() *cli.Command {
	return &cli.Command{
		Name:  "metric",
		Usage: "calculate tps metrics over the entire chain and print them once",
		Flags: []cli.Flag{
			rpcURLsFlag,
		},
		Action: runMetric,
	}
}

func runMetric(cctx *cli.Context) error {
	uris := cctx.StringSlice("rpc-urls")
	if len(uris) == 0 {
		return fmt.Errorf("--rpc-urls is required")
	}

	endpoints := endpointset.New(uris, 0)
	mon := monitor.New(endpoints, endpoints.Len(), endpoints.Len())

	metrics, err := mon.ComputeChainMetrics()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(metrics)
}
