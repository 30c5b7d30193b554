// Package tides implements Tides of Time, a balance game.
// The tide level oscillates on its own; the player eases it down or sends a
// wave to push it up, and earns points for every second spent in the calm
// middle band while actively steering.
package tides

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tides-of-time/internal/config"
	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/registry"
	"github.com/vovakirdan/tides-of-time/internal/tide"
)

// Variant selects which constants table a game runs.
type Variant int

const (
	VariantClassic Variant = iota // ramping difficulty with speed reshuffles
	VariantZen                    // steady oscillation, no ramp
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// holdTicksOverride replaces controls.hold_ticks when positive.
var holdTicksOverride int

var logger = log.New(io.Discard)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// SetHoldTicks overrides how long a key press keeps its direction active.
// Zero restores the configured value.
func SetHoldTicks(ticks int) {
	holdTicksOverride = ticks
}

// SetLogger routes warnings from config loading and the simulator to l.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// Game adapts the tide simulator to the arcade platform.
type Game struct {
	variant Variant

	sim        *tide.Simulator
	snap       tide.Snapshot
	cfg        config.TidesConfig
	difficulty *config.DifficultyManager
	runtime    core.RuntimeConfig

	paused    bool
	highScore int

	// Control emulation. Terminals report key presses only, so a keyboard
	// direction expires holdLeft ticks after the last press. A pointer hold
	// is latched until an explicit release.
	holdTicks int
	held      tide.Direction
	holdLeft  int
	latched   bool

	smallWarned bool
}

// New creates a classic Tides of Time game.
func New() *Game {
	return &Game{variant: VariantClassic}
}

// NewZen creates the steady variant.
func NewZen() *Game {
	return &Game{variant: VariantZen}
}

func init() {
	registry.Register("tides", func() registry.Game {
		return New()
	})
	registry.Register("tides_zen", func() registry.Game {
		return NewZen()
	})
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.variant == VariantZen {
		return "tides_zen"
	}
	return "tides"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.variant == VariantZen {
		return "Tides of Time (Zen)"
	}
	return "Tides of Time"
}

// Reset loads configuration and starts a fresh round.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := config.LoadTides(configPath)
	if err != nil {
		logger.Warn("using default tides config", "err", err)
		cfg = config.DefaultTidesConfig()
	}
	if g.variant == VariantZen {
		config.ApplyZen(&cfg)
	}
	config.ApplyTidesPreset(&cfg, difficultyPreset)
	if holdTicksOverride > 0 {
		cfg.Controls.HoldTicks = holdTicksOverride
	}
	if cfg.Controls.HoldTicks <= 0 {
		cfg.Controls.HoldTicks = config.DefaultHoldTicks
	}
	g.cfg = cfg

	params, err := cfg.Params()
	base := cfg.Tide
	if err != nil {
		logger.Warn("invalid tide params, using defaults", "err", err)
		params = tide.DefaultParams()
		if g.variant == VariantZen {
			params = tide.ZenParams()
		}
		base = params
	}

	// Timers and hold windows are tuned in ticks at params.TickRate.
	g.holdTicks = cfg.Controls.HoldTicks
	if holdTicksOverride <= 0 {
		g.holdTicks = tide.ScaleTicks(g.holdTicks, params.TickRate, runtime.TickRate)
	}
	params = params.AtTickRate(runtime.TickRate)
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty, base.AtTickRate(runtime.TickRate))

	if g.sim != nil && g.sim.Params() == params {
		g.sim.Reseed(runtime.Seed)
		g.sim.Reset()
	} else {
		g.sim = tide.New(params, runtime.Seed, tide.WithLogger(logger))
	}
	g.snap = g.sim.Snapshot()
	g.paused = false
	g.releaseControls()
}

func (g *Game) releaseControls() {
	g.held = tide.DirIdle
	g.holdLeft = 0
	g.latched = false
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.sim == nil {
		return core.StepResult{}
	}
	if g.snap.GameOver() {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.applyInput(in)
	g.sim.SetControlDirection(g.held)
	g.snap = g.sim.Tick()

	if g.snap.GameOver() {
		g.releaseControls()
	}

	return core.StepResult{State: g.State()}
}

// applyInput turns this frame's actions into the held direction.
func (g *Game) applyInput(in core.InputFrame) {
	ease, send := in.Has(core.ActionEase), in.Has(core.ActionSend)
	release := in.Has(core.ActionRelease)

	switch {
	case ease && send:
		// Opposite pushes cancel out
		g.releaseControls()
	case (ease || send) && release:
		// Press and release inside one frame still pushes for one tick.
		g.press(ease, 1)
	case release:
		g.releaseControls()
	case ease || send:
		g.press(ease, g.holdTicks)
		g.latched = in.Has(core.ActionHold)
	case g.held != tide.DirIdle && !g.latched:
		g.holdLeft--
		if g.holdLeft <= 0 {
			g.releaseControls()
		}
	}
}

func (g *Game) press(ease bool, ticks int) {
	g.held = tide.DirSend
	if ease {
		g.held = tide.DirEase
	}
	g.holdLeft = ticks
	g.latched = false
}

// SetHighScore sets the stored best score shown in the HUD.
func (g *Game) SetHighScore(score int) {
	g.highScore = score
}

// HighScore returns the best of the stored high score and the current round.
func (g *Game) HighScore() int {
	if g.snap.RoundedScore > g.highScore {
		return g.snap.RoundedScore
	}
	return g.highScore
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		Score:    g.snap.RoundedScore,
		GameOver: g.snap.GameOver(),
		Paused:   g.paused,
		Ticks:    g.snap.Elapsed,
	}
	if st.GameOver {
		st.Reason = g.snap.Reason.String()
	}
	return st
}
