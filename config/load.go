package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// unknownPresetError reports a --spec name that matched neither a preset
// nor an existing file.
type unknownPresetError struct{ name Preset }

func (e *unknownPresetError) Error() string {
	return fmt.Sprintf("config: unknown preset or missing file %q", e.name)
}

// Load resolves nameOrPath per the CLI's --spec flag: first as one of the
// built-in preset names, then as a path to a TOML file on disk.
func Load(nameOrPath string) (*Config, error) {
	for _, p := range Presets {
		if string(p) == nameOrPath {
			return LoadPreset(p)
		}
	}

	data, err := os.ReadFile(nameOrPath)
	if err != nil {
		return nil, fmt.Errorf("config: load %q: %w", nameOrPath, err)
	}
	return decode(data)
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("config: parse toml: %w", err)
	}
	return &cfg, nil
}
