package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tides-of-time/internal/config"
	"github.com/vovakirdan/tides-of-time/internal/tide"
)

var (
	flagTicks     int
	flagDirection string
	flagEvery     int
	flagZen       bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the simulation headless and print a trace",
	Long: `Run the tide simulation without a terminal UI and print the state
every --every ticks. Useful for tuning a config file. Ticks run at --fps
per simulated second.

Directions:
  ease       - hold ease for the whole run
  idle       - never touch the controls
  send       - hold send for the whole run
  alternate  - switch between ease and send every second

Examples:
  tides simulate
  tides simulate --seed 42 --ticks 3600 --direction alternate
  tides simulate --zen --direction idle --every 10
  tides simulate --config ./my-tides.yaml --difficulty hard`,
	Args: cobra.NoArgs,
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagTicks, "ticks", 600, "Maximum number of ticks to run")
	simulateCmd.Flags().StringVar(&flagDirection, "direction", "idle", "Control pattern: ease, idle, send, alternate")
	simulateCmd.Flags().IntVar(&flagEvery, "every", 60, "Print a line every N ticks")
	simulateCmd.Flags().BoolVar(&flagZen, "zen", false, "Use the steady variant")
}

// directionAt returns the control direction for a pattern at tick t.
func directionAt(pattern string, t, rate int) (tide.Direction, error) {
	switch pattern {
	case "ease":
		return tide.DirEase, nil
	case "idle":
		return tide.DirIdle, nil
	case "send":
		return tide.DirSend, nil
	case "alternate":
		if (t/rate)%2 == 0 {
			return tide.DirEase, nil
		}
		return tide.DirSend, nil
	default:
		return tide.DirIdle, fmt.Errorf("unknown direction %q (want ease, idle, send or alternate)", pattern)
	}
}

// simulationParams builds the constants table the same way a game round does.
func simulationParams() (tide.Params, error) {
	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return tide.Params{}, err
	}
	cfg, err := config.LoadTides(flagConfig)
	if err != nil {
		return tide.Params{}, err
	}
	if flagZen {
		config.ApplyZen(&cfg)
	}
	config.ApplyTidesPreset(&cfg, preset)
	p, err := cfg.Params()
	if err != nil {
		return p, err
	}
	return p.AtTickRate(flagFPS), nil
}

func runSimulate(_ *cobra.Command, _ []string) {
	if flagTicks <= 0 || flagEvery <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --ticks and --every must be positive")
		os.Exit(1)
	}
	if _, err := directionAt(flagDirection, 0, 1); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	params, err := simulationParams()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sim := tide.New(params, seed, tide.WithLogger(logger))
	logger.Debug("simulation started", "seed", seed, "ticks", flagTicks, "direction", flagDirection)

	fmt.Printf("seed %d, direction %s\n\n", seed, flagDirection)
	fmt.Printf("  %6s  %7s  %7s  %7s  %5s  %5s  %s\n", "tick", "balance", "harmony", "score", "edge", "imbal", "zone")

	var snap tide.Snapshot
	for t := 0; t < flagTicks; t++ {
		dir, _ := directionAt(flagDirection, t, params.TickRate)
		sim.SetControlDirection(dir)
		snap = sim.Tick()

		if snap.GameOver() || (t+1)%flagEvery == 0 {
			printTraceLine(snap)
		}
		if snap.GameOver() {
			break
		}
	}

	fmt.Println()
	if snap.GameOver() {
		fmt.Printf("Game over after %d ticks: %s. Score %d.\n", snap.Elapsed, snap.Reason, snap.RoundedScore)
		return
	}
	fmt.Printf("Still afloat after %d ticks. Score %d.\n", snap.Elapsed, snap.RoundedScore)
}

func printTraceLine(s tide.Snapshot) {
	zone := "balanced"
	switch {
	case s.InDanger:
		zone = "danger"
	case !s.InBalance:
		zone = "drifting"
	}
	fmt.Printf("  %6d  %7.3f  %6d%%  %7.2f  %5d  %5d  %s\n",
		s.Elapsed, s.Balance, s.HarmonyPercent, s.Score, s.EdgeTicks, s.ImbalanceTicks, zone)
}
