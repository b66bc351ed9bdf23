package main

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ckb-tps-bench/bench/config"
	"github.com/ckb-tps-bench/bench/internal/account"
	"github.com/ckb-tps-bench/bench/internal/bench"
	"github.com/ckb-tps-bench/bench/internal/dispatcher"
	"github.com/ckb-tps-bench/bench/internal/endpointset"
	"github.com/ckb-tps-bench/bench/internal/genesis"
	"github.com/ckb-tps-bench/bench/pkg/crypto"
)

// defaultDispatcherConfig hardcodes the rate controller's tuning knobs;
// spec.md §6 leaves these as deployment constants rather than config
// fields, matching internal/dispatcher's own doc comment.
var defaultDispatcherConfig = dispatcher.Config{
	AdjustMisbehaviorThreshold: 50,
	AdjustCycle:                10,
	AdjustStep:                 50 * time.Millisecond,
	QueueTarget:                10,
}

// decodeKey parses a hex-encoded (optionally "0x"-prefixed) 32-byte
// secp256k1 secret.
func decodeKey(hexKey string) (*crypto.PrivateKey, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	return crypto.PrivateKeyFromBytes(b)
}

// newContext wires a bench.Context from the loaded config and the CLI's
// --rpc-urls flag: connects to the first endpoint to fetch genesis info,
// then derives the miner and bencher accounts against it.
func newContext(cctx *cli.Context, cfg *config.Config) (*bench.Context, error) {
	uris := cctx.StringSlice("rpc-urls")
	if len(uris) == 0 {
		return nil, fmt.Errorf("--rpc-urls is required")
	}

	endpoints := endpointset.New(uris, cfg.ConfirmationBlocks)
	gi, err := genesis.Load(endpoints.Client(0))
	if err != nil {
		return nil, fmt.Errorf("load genesis info: %w", err)
	}

	minerKey, err := decodeKey(cfg.Miner.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("miner.private_key: %w", err)
	}
	bencherKey, err := decodeKey(cfg.BencherPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("bencher_private_key: %w", err)
	}

	miner := account.New(minerKey, gi, cfg.ConsensusCellbaseMaturity)
	bencher := account.New(bencherKey, gi, cfg.ConsensusCellbaseMaturity)

	return &bench.Context{
		Endpoints:         endpoints,
		Genesis:           gi,
		Miner:             miner,
		Bencher:           bencher,
		MinerBlockTime:    time.Duration(cfg.Miner.BlockTime) * time.Millisecond,
		NetworkNodeCount:  endpoints.Len(),
		BenchingNodeCount: endpoints.Len(),
		DispatcherCfg:     defaultDispatcherConfig,
	}, nil
}
