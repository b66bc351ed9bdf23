package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ckb-tps-bench/bench/config"
	"github.com/ckb-tps-bench/bench/internal/bench"
	"github.com/ckb-tps-bench/bench/internal/log"
)

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "run the configured benchmark matrix and calculate TPS over a stabilized window",
		Description: "Example:\n" +
			"   ckb-tps-bench bench -s dev --rpc-urls http://127.0.0.1:8114",
		Flags: []cli.Flag{
			specFlag,
			rpcURLsFlag,
			&cli.BoolFlag{
				Name:  "skip-best-tps-caculation",
				Usage: "run bench with skip best tps caculation",
			},
		},
		Action: runBench,
	}
}

func runBench(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("spec"))
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data_dir: %w", err)
	}
	if err := log.Init("info", false, cfg.LogFile()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := strconv.FormatInt(time.Now().UnixNano(), 36)
	log.Bench = log.WithRun(runID)

	ctx, err := newContext(cctx, cfg)
	if err != nil {
		return err
	}

	specs := make([]bench.BenchmarkSpec, 0, len(cfg.Benchmarks))
	for _, b := range cfg.Benchmarks {
		eval := cfg.MethodToEvalNetworkStable
		if b.MethodToEvalNetStable != nil {
			eval = *b.MethodToEvalNetStable
		}
		monCfg, err := eval.ToMonitorConfig()
		if err != nil {
			return err
		}
		specs = append(specs, bench.BenchmarkSpec{
			TransactionType: toBenchTransactionType(b.TransactionType),
			SendDelay:       time.Duration(b.SendDelayMicros) * time.Microsecond,
			Eval:            monCfg,
		})
	}

	var bisect *bench.BisectSpec
	if cfg.Bisect != nil && !cctx.Bool("skip-best-tps-caculation") && !cfg.SkipBestTPSCalculation {
		monCfg, err := cfg.MethodToEvalNetworkStable.ToMonitorConfig()
		if err != nil {
			return err
		}
		bisect = &bench.BisectSpec{
			TransactionType: toBenchTransactionType(cfg.Bisect.TransactionType),
			MinSendDelay:    time.Duration(cfg.Bisect.MinSendDelayMicros) * time.Microsecond,
			MinTPS:          cfg.Bisect.MinTPS,
			Eval:            monCfg,
		}
	}

	results, err := bench.NewResultWriter(cfg.MetricsFile())
	if err != nil {
		return fmt.Errorf("open metrics file: %w", err)
	}
	defer results.Close()

	log.Bench.Info().Int("benchmarks", len(specs)).Bool("bisect", bisect != nil).Msg("starting bench")
	return bench.NewDriver(ctx).Bench(specs, bisect, results)
}

func toBenchTransactionType(t config.TransactionType) bench.TransactionType {
	parsed, err := bench.ParseTransactionType(string(t))
	if err != nil {
		return bench.In2Out2
	}
	return parsed
}
