package config

import (
	_ "embed"

	"github.com/vovakirdan/tides-of-time/internal/tide"
)

//go:embed defaults/tides.yaml
var defaultTidesYAML []byte

// DefaultHoldTicks keeps a key press alive for half a second at 60 Hz,
// which bridges the gap before a terminal starts auto-repeating.
const DefaultHoldTicks = 30

// DefaultTidesConfig returns the default Tides of Time configuration.
func DefaultTidesConfig() TidesConfig {
	return TidesConfig{
		Tide: tide.DefaultParams(),
		Controls: TidesControls{
			HoldTicks: DefaultHoldTicks,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
		},
	}
}
