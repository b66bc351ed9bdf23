package config

import "embed"

//go:embed presets/*.toml
var presetFS embed.FS

// Preset names a built-in configuration shipped in config/presets.
type Preset string

const (
	PresetStaging Preset = "staging"
	PresetDev     Preset = "dev"
	PresetRelease Preset = "release"
)

// Presets lists the built-in preset names, in the order operators most
// commonly reach for them.
var Presets = []Preset{PresetDev, PresetStaging, PresetRelease}

// LoadPreset decodes one of the built-in presets embedded at build time.
func LoadPreset(name Preset) (*Config, error) {
	data, err := presetFS.ReadFile("presets/" + string(name) + ".toml")
	if err != nil {
		return nil, &unknownPresetError{name: name}
	}
	return decode(data)
}
