package config

import (
	"math"

	"github.com/vovakirdan/tides-of-time/internal/tide"
)

// DifficultyManager reports how far the tide has swelled toward its storm
// caps. The simulator ramps itself tick by tick; this level is the summary
// shown in the HUD as the current swell.
type DifficultyManager struct {
	cfg  DifficultyConfig
	base tide.Params // table before the initial level shifted the start
}

// NewDifficultyManager creates a new difficulty manager for a round driven by
// base, the constants table before any preset level is applied.
func NewDifficultyManager(cfg DifficultyConfig, base tide.Params) *DifficultyManager {
	return &DifficultyManager{cfg: cfg, base: base}
}

// IsEnabled returns whether the tide ramps this round.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled && d.base.RampEnabled
}

// Level returns the current swell (0.0 to 1.0): the mean progress of the
// oscillation amplitude and speed from their calm start toward their caps.
func (d *DifficultyManager) Level(st tide.State) float64 {
	amp := progress(st.OscAmplitude, d.base.StartAmpMin, d.base.AmpCap)
	speed := progress(st.OscSpeed, d.base.StartSpeedMin, d.base.SpeedCap)
	return (amp + speed) / 2
}

// Percent returns Level as a whole percentage.
func (d *DifficultyManager) Percent(st tide.State) int {
	return int(math.Round(d.Level(st) * 100))
}

func progress(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if hi <= lo {
		return 1
	}
	return clampF((v-lo)/(hi-lo), 0.0, 1.0)
}

// clampF restricts a float64 to [lo, hi].
func clampF(val, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, val))
}
