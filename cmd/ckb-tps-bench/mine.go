package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ckb-tps-bench/bench/config"
	"github.com/ckb-tps-bench/bench/internal/bench"
	"github.com/ckb-tps-bench/bench/internal/log"
)

func mineCommand() *cli.Command {
	return &cli.Command{
		Name:  "mine",
		Usage: "start a miner and exit after generating the requested number of blocks",
		Description: "Example:\n" +
			"   ckb-tps-bench mine -s dev --rpc-urls http://127.0.0.1:8114 -b 100",
		Flags: []cli.Flag{
			specFlag,
			rpcURLsFlag,
			&cli.Uint64Flag{
				Name:     "blocks",
				Aliases:  []string{"b"},
				Usage:    "the number of blocks to generate",
				Required: true,
			},
		},
		Action: runMine,
	}
}

func runMine(cctx *cli.Context) error {
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

	ctx, err := newContext(cctx, cfg)
	if err != nil {
		return err
	}

	blocks := cctx.Uint64("blocks")
	log.Bench.Info().Uint64("blocks", blocks).Msg("mining")
	return bench.NewDriver(ctx).Mine(blocks)
}
