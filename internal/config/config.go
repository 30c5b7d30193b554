// Package config provides YAML-based game configuration loading and
// difficulty management for the tides game.
package config

import (
	"fmt"

	"github.com/vovakirdan/tides-of-time/internal/tide"
)

// TidesConfig contains all configuration for the Tides of Time game.
type TidesConfig struct {
	Tide       tide.Params      `yaml:"tide"`
	Controls   TidesControls    `yaml:"controls"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// TidesControls defines how terminal input is turned into control direction.
type TidesControls struct {
	// HoldTicks is how long a key press keeps its direction active.
	// Terminals do not report key release, so repeats from a held key
	// refresh this window and silence ends it.
	HoldTicks int `yaml:"hold_ticks"`
}

// DifficultyConfig selects whether the tide ramps and where it starts.
type DifficultyConfig struct {
	Enabled      bool    `yaml:"enabled"`       // ramp and reshuffles run during a round
	InitialLevel float64 `yaml:"initial_level"` // 0.0 = calm seas, 1.0 = storm
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name. The empty string selects no preset.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "", DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables the ramp.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// Params returns the simulation constants this config describes, with the
// initial difficulty level folded into the starting oscillation.
func (c TidesConfig) Params() (tide.Params, error) {
	p := c.Tide
	if !c.Difficulty.Enabled {
		p.RampEnabled = false
		p.ReshuffleChance = 0
	}

	level := clampF(c.Difficulty.InitialLevel, 0, 1)
	p.StartAmpMin += level * (p.AmpCap - p.StartAmpMin)
	p.StartSpeedMin += level * (p.SpeedCap - p.StartSpeedMin - p.StartSpeedSpread)

	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("config: %w", err)
	}
	return p, nil
}
