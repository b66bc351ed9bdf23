package config

import "fmt"

// Validate checks a decoded config for the mistakes that would otherwise
// surface as a confusing runtime panic deep inside the bench driver,
// satisfying spec.md §7's "config parse / missing account key: abort with
// exit code 1 at startup" policy.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if cfg.BencherPrivateKey == "" {
		return fmt.Errorf("bencher_private_key is required")
	}
	if cfg.Miner.PrivateKey == "" {
		return fmt.Errorf("miner.private_key is required")
	}
	if cfg.Miner.BlockTime == 0 {
		return fmt.Errorf("miner.block_time must be > 0")
	}
	if len(cfg.Benchmarks) == 0 && cfg.Bisect == nil {
		return fmt.Errorf("at least one of benchmarks or bisect must be configured")
	}
	if cfg.ConsensusCellbaseMaturity == 0 {
		return fmt.Errorf("consensus_cellbase_maturity must be > 0")
	}
	if cfg.EnsureMaturedCapacityGreaterThan == 0 {
		return fmt.Errorf("ensure_matured_capacity_greater_than must be > 0")
	}
	if cfg.Bisect != nil && cfg.Bisect.MinTPS == 0 {
		return fmt.Errorf("bisect.min_tps must be > 0")
	}
	for i, b := range cfg.Benchmarks {
		switch b.TransactionType {
		case In1Out1, In2Out2, In3Out3:
		default:
			return fmt.Errorf("benchmarks[%d].transaction_type must be In1Out1, In2Out2, or In3Out3", i)
		}
	}
	return nil
}
