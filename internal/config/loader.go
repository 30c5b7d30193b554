package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTides loads Tides of Time configuration.
// Search order: customPath -> ~/.tides/configs/tides.yaml -> ./configs/tides.yaml -> embedded default.
// Files are layered over the built-in defaults, so a partial file only
// overrides the keys it names.
func LoadTides(customPath string) (TidesConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultTidesConfig(), fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := parseTides(data)
		if err != nil {
			return DefaultTidesConfig(), fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("tides.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseTides(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "tides.yaml")); err == nil {
		if cfg, err := parseTides(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseTides(defaultTidesYAML)
	if err != nil {
		return DefaultTidesConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parseTides(data []byte) (TidesConfig, error) {
	cfg := DefaultTidesConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if _, err := cfg.Params(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tides", "configs", filename)
}

// ApplyTidesPreset modifies the config based on a difficulty preset.
// An empty preset leaves the config untouched. Presets only choose whether
// the tide ramps and how far toward the storm it starts; timers keep their
// configured limits.
func ApplyTidesPreset(cfg *TidesConfig, preset DifficultyPreset) {
	switch {
	case preset == "":
		return
	case IsFixedPreset(preset):
		cfg.Difficulty.Enabled = false
	default:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.InitialLevel = InitialLevelForPreset(preset)
	}
}

// ApplyZen turns a config into the steady variant.
func ApplyZen(cfg *TidesConfig) {
	cfg.Tide.RampEnabled = false
	cfg.Tide.ReshuffleChance = 0
	cfg.Difficulty.Enabled = false
}
