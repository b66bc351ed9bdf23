package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ckb-tps-bench/bench/internal/monitor"
)

func TestLoadPreset_AllBuiltins(t *testing.T) {
	for _, name := range Presets {
		cfg, err := LoadPreset(name)
		if err != nil {
			t.Fatalf("LoadPreset(%s): %v", name, err)
		}
		if err := Validate(cfg); err != nil {
			t.Errorf("preset %s failed validation: %v", name, err)
		}
	}
}

func TestLoad_ByPresetName(t *testing.T) {
	cfg, err := Load("dev")
	if err != nil {
		t.Fatalf("Load(dev): %v", err)
	}
	if cfg.Miner.BlockTime != 200 {
		t.Errorf("Miner.BlockTime = %d, want 200", cfg.Miner.BlockTime)
	}
}

func TestLoad_ByFilePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	const doc = `
data_dir = "/tmp/x"
bencher_private_key = "0x01"
consensus_cellbase_maturity = 4
confirmation_blocks = 1
ensure_matured_capacity_greater_than = 1000

[miner]
private_key = "0x01"
block_time = 100

[[benchmarks]]
transaction_type = "In1Out1"
send_delay = 10
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%s): %v", path, err)
	}
	if len(cfg.Benchmarks) != 1 || cfg.Benchmarks[0].TransactionType != In1Out1 {
		t.Errorf("Benchmarks = %+v, want one In1Out1 entry", cfg.Benchmarks)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Error("expected an error for a missing file that also isn't a preset name")
	}
}

func TestStabilityConfig_ToMonitorConfig(t *testing.T) {
	cases := []struct {
		name string
		in   StabilityConfig
		want monitor.Mode
	}{
		{"default", StabilityConfig{}, monitor.ModeRecentBlockTxnsNearly},
		{"recent", StabilityConfig{Mode: StabilityRecentBlockTxnsNearly, Window: 10, Margin: 5}, monitor.ModeRecentBlockTxnsNearly},
		{"custom_blocks", StabilityConfig{Mode: StabilityCustomBlocksElapsed, Warmup: 1, Blocks: 2}, monitor.ModeCustomBlocksElapsed},
		{"timed", StabilityConfig{Mode: StabilityTimedTask, DurationSecs: 30}, monitor.ModeTimedTask},
		{"never", StabilityConfig{Mode: StabilityNever}, monitor.ModeNever},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.in.ToMonitorConfig()
			if err != nil {
				t.Fatalf("ToMonitorConfig: %v", err)
			}
			if got.Mode != tc.want {
				t.Errorf("Mode = %v, want %v", got.Mode, tc.want)
			}
		})
	}
}

func TestStabilityConfig_ToMonitorConfig_UnknownMode(t *testing.T) {
	if _, err := (StabilityConfig{Mode: "bogus"}).ToMonitorConfig(); err == nil {
		t.Error("expected an error for an unknown stability mode")
	}
}

func TestValidate_RejectsMissingFields(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if err := Validate(&Config{}); err == nil {
		t.Error("expected error for empty config")
	}
}
