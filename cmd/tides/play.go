package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tides-of-time/internal/config"
	"github.com/vovakirdan/tides-of-time/internal/core"
	"github.com/vovakirdan/tides-of-time/internal/games/tides"
	"github.com/vovakirdan/tides-of-time/internal/platform/tui"
	"github.com/vovakirdan/tides-of-time/internal/registry"
	"github.com/vovakirdan/tides-of-time/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagHoldTicks  int
)

var playCmd = &cobra.Command{
	Use:   "play [game]",
	Short: "Play a variant",
	Long: `Start a round of the given variant (default: tides).

Controls:
  A/Left/H     - Ease the tide down
  D/Right/L    - Send a wave up
  Space/S/Down - Let go
  Mouse        - Press and hold the on-screen buttons
  P/Esc        - Pause
  R/Enter      - Restart (after game over)
  Ctrl+S       - Screenshot
  Q/Ctrl+C     - Quit

Terminals only report key presses, so a direction stays active for
--hold-ticks ticks after the last press. Keyboard repeat from a held
key keeps it going.

Difficulty options:
  easy   - Start calm, ramps to the storm
  normal - Start at 30% difficulty, ramps to the storm
  hard   - Start at 70% difficulty, ramps to the storm
  fixed  - No ramp and no reshuffles

Examples:
  tides play
  tides play tides_zen
  tides play --difficulty hard
  tides play --config ./my-tides.yaml --hold-ticks 20`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	for _, c := range []*cobra.Command{playCmd, menuCmd, serveCmd, simulateCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to custom tides config YAML")
		c.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	}
	playCmd.Flags().IntVar(&flagHoldTicks, "hold-ticks", 0, "Ticks a key press stays active (0 = config value)")
	menuCmd.Flags().IntVar(&flagHoldTicks, "hold-ticks", 0, "Ticks a key press stays active (0 = config value)")
}

// applyGameFlags validates and hands the game flags to the tides package.
func applyGameFlags() error {
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}
	if flagHoldTicks < 0 {
		return fmt.Errorf("--hold-ticks must not be negative, got %d", flagHoldTicks)
	}
	tides.SetConfigPath(flagConfig)
	tides.SetDifficultyPreset(flagDifficulty)
	tides.SetHoldTicks(flagHoldTicks)
	return nil
}

func runPlay(_ *cobra.Command, args []string) {
	gameID := "tides"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tides list' to see available variants.")
		os.Exit(1)
	}

	if err := applyGameFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	width, height := terminalSize()
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Continue without storage if the database is unavailable.
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "path", flagDBPath, "err", err)
		store = nil
	}

	restore := terminalLogger()
	runErr := tui.Run(game, store, cfg, tui.WithLogger(logger))
	restore()

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
