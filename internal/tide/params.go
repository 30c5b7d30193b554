// Package tide implements the tide balance simulation: a single value in
// [0,1] that oscillates around the center while the player pushes it with
// two momentary controls. The simulator owns all state and advances it one
// fixed tick at a time; renderers only read snapshots.
package tide

import (
	"errors"
	"fmt"
	"math"
)

// Params is the constants table that drives a simulation.
// Every threshold and rate used by Tick lives here so that variants of the
// game differ only in data.
type Params struct {
	// Starting oscillation, randomized once per round.
	StartSpeedMin    float64 `yaml:"start_speed_min"`
	StartSpeedSpread float64 `yaml:"start_speed_spread"`
	StartAmpMin      float64 `yaml:"start_amp_min"`
	StartAmpSpread   float64 `yaml:"start_amp_spread"`

	// Difficulty ramp, applied every tick while RampEnabled.
	RampEnabled bool    `yaml:"ramp_enabled"`
	AmpCap      float64 `yaml:"amp_cap"`
	AmpRamp     float64 `yaml:"amp_ramp"`
	SpeedCap    float64 `yaml:"speed_cap"`
	SpeedRamp   float64 `yaml:"speed_ramp"`

	// Occasional speed re-randomization.
	ReshuffleChance float64 `yaml:"reshuffle_chance"`
	ReshuffleBase   float64 `yaml:"reshuffle_base"`
	ReshuffleSpread float64 `yaml:"reshuffle_spread"`
	ReshuffleGrowth float64 `yaml:"reshuffle_growth"` // added per elapsed tick

	// Player force.
	ForceGain    float64 `yaml:"force_gain"`
	ForceDecay   float64 `yaml:"force_decay"`
	ForceEpsilon float64 `yaml:"force_epsilon"`
	ForceLimit   float64 `yaml:"force_limit"`

	// Bands.
	BalanceLow  float64 `yaml:"balance_low"`
	BalanceHigh float64 `yaml:"balance_high"`
	DangerLow   float64 `yaml:"danger_low"`
	DangerHigh  float64 `yaml:"danger_high"`

	// Timers, in ticks.
	EdgeTicksLimit      int `yaml:"edge_ticks_limit"`
	ImbalanceTicksLimit int `yaml:"imbalance_ticks_limit"`

	// TickRate converts balanced ticks to points: one point per second.
	TickRate int `yaml:"tick_rate"`
}

// DefaultParams returns the classic tuning of the game.
func DefaultParams() Params {
	return Params{
		StartSpeedMin:    0.018,
		StartSpeedSpread: 0.012,
		StartAmpMin:      0.46,
		StartAmpSpread:   0.08,

		RampEnabled: true,
		AmpCap:      0.499,
		AmpRamp:     0.00005,
		SpeedCap:    0.045,
		SpeedRamp:   0.000015,

		ReshuffleChance: 0.005,
		ReshuffleBase:   0.016,
		ReshuffleSpread: 0.014,
		ReshuffleGrowth: 0.00001,

		ForceGain:    0.018,
		ForceDecay:   0.94,
		ForceEpsilon: 0.002,
		ForceLimit:   0.4,

		BalanceLow:  0.33,
		BalanceHigh: 0.67,
		DangerLow:   0.08,
		DangerHigh:  0.92,

		EdgeTicksLimit:      120,
		ImbalanceTicksLimit: 180,

		TickRate: 60,
	}
}

// ZenParams returns the steady variant: no ramp and no speed surprises.
func ZenParams() Params {
	p := DefaultParams()
	p.RampEnabled = false
	p.ReshuffleChance = 0
	return p
}

// ErrInvalidParams is wrapped by every Validate failure.
var ErrInvalidParams = errors.New("tide: invalid params")

// Validate checks that the table describes a playable, self-consistent game.
func (p Params) Validate() error {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidParams, fmt.Sprintf(format, args...))
	}

	for _, f := range p.floatFields() {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fail("%s must be a finite number, got %v", f.name, f.v)
		}
	}

	switch {
	case !(0 <= p.DangerLow && p.DangerLow < p.BalanceLow):
		return fail("danger_low %.3f must be in [0, balance_low %.3f)", p.DangerLow, p.BalanceLow)
	case !(p.BalanceLow < 0.5 && 0.5 < p.BalanceHigh):
		return fail("balanced band [%.3f, %.3f] must contain 0.5", p.BalanceLow, p.BalanceHigh)
	case !(p.BalanceHigh < p.DangerHigh && p.DangerHigh <= 1):
		return fail("danger_high %.3f must be in (balance_high %.3f, 1]", p.DangerHigh, p.BalanceHigh)
	case p.ForceDecay <= 0 || p.ForceDecay > 1:
		return fail("force_decay %.3f must be in (0, 1]", p.ForceDecay)
	case p.ForceGain < 0 || p.ForceEpsilon < 0 || p.ForceLimit < 0:
		return fail("force_gain, force_epsilon and force_limit must not be negative")
	case p.AmpCap <= 0 || p.SpeedCap <= 0:
		return fail("amp_cap and speed_cap must be positive")
	case p.StartSpeedMin < 0 || p.StartSpeedSpread < 0 || p.StartAmpMin < 0 || p.StartAmpSpread < 0:
		return fail("start ranges must not be negative")
	case p.AmpRamp < 0 || p.SpeedRamp < 0 || p.ReshuffleGrowth < 0:
		return fail("ramp rates must not be negative")
	case p.ReshuffleChance < 0 || p.ReshuffleChance > 1:
		return fail("reshuffle_chance %.4f must be a probability", p.ReshuffleChance)
	case p.EdgeTicksLimit <= 0 || p.ImbalanceTicksLimit <= 0:
		return fail("tick limits must be positive")
	case p.TickRate <= 0:
		return fail("tick_rate must be positive")
	}
	return nil
}

type namedFloat struct {
	name string
	v    float64
}

func (p Params) floatFields() []namedFloat {
	return []namedFloat{
		{"start_speed_min", p.StartSpeedMin},
		{"start_speed_spread", p.StartSpeedSpread},
		{"start_amp_min", p.StartAmpMin},
		{"start_amp_spread", p.StartAmpSpread},
		{"amp_cap", p.AmpCap},
		{"amp_ramp", p.AmpRamp},
		{"speed_cap", p.SpeedCap},
		{"speed_ramp", p.SpeedRamp},
		{"reshuffle_chance", p.ReshuffleChance},
		{"reshuffle_base", p.ReshuffleBase},
		{"reshuffle_spread", p.ReshuffleSpread},
		{"reshuffle_growth", p.ReshuffleGrowth},
		{"force_gain", p.ForceGain},
		{"force_decay", p.ForceDecay},
		{"force_epsilon", p.ForceEpsilon},
		{"force_limit", p.ForceLimit},
		{"balance_low", p.BalanceLow},
		{"balance_high", p.BalanceHigh},
		{"danger_low", p.DangerLow},
		{"danger_high", p.DangerHigh},
	}
}

// AtTickRate returns the table retuned for a simulation running at rate
// ticks per second, so that timers, scoring and tide motion keep their
// pace in seconds. Band positions and force limits do not depend on time.
// A non-positive rate returns p unchanged.
func (p Params) AtTickRate(rate int) Params {
	if rate <= 0 || p.TickRate <= 0 || rate == p.TickRate {
		return p
	}
	k := float64(p.TickRate) / float64(rate) // old ticks per new tick

	p.StartSpeedMin *= k
	p.StartSpeedSpread *= k
	p.SpeedCap *= k
	p.ReshuffleBase *= k
	p.ReshuffleSpread *= k
	// Speed grows with elapsed ticks, so growth per tick scales twice.
	p.SpeedRamp *= k * k
	p.ReshuffleGrowth *= k * k
	p.AmpRamp *= k
	p.ForceGain *= k

	p.ForceDecay = math.Pow(p.ForceDecay, k)
	p.ReshuffleChance = 1 - math.Pow(1-p.ReshuffleChance, k)

	p.EdgeTicksLimit = ScaleTicks(p.EdgeTicksLimit, p.TickRate, rate)
	p.ImbalanceTicksLimit = ScaleTicks(p.ImbalanceTicksLimit, p.TickRate, rate)
	p.TickRate = rate
	return p
}

// ScaleTicks converts a tick count measured at one rate to another, keeping
// at least one tick. Non-positive rates leave ticks unchanged.
func ScaleTicks(ticks, from, to int) int {
	if from <= 0 || to <= 0 || from == to {
		return ticks
	}
	return max(1, int(math.Round(float64(ticks)*float64(to)/float64(from))))
}

// ScorePerTick is the score earned by one balanced, controlled tick.
func (p Params) ScorePerTick() float64 {
	return 1.0 / float64(p.TickRate)
}
