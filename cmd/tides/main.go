// tides is a terminal balance game: keep the oscillating tide inside the calm
// band by easing it down or sending a wave up.
//
// Usage:
//
//	tides list              - List available variants
//	tides play [game]       - Play a variant (default: tides)
//	tides menu              - Start the title menu
//	tides serve             - Start SSH server for remote play
//	tides scores [game]     - Show high scores
//	tides simulate          - Run the simulation headless and print a trace
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60); timing stays in seconds
//	--seed <value>       - Set RNG seed for reproducible tides
//	--db <path>          - Set database path (default: ~/.tides/scores.db)
//	--log-level <level>  - debug, info, warn or error
//
// Defaults for --db, --log-level and serve's --ssh can also come from
// TIDES_DB, TIDES_LOG_LEVEL and TIDES_SSH_ADDR, read from the environment or
// a .env file in the working directory.
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tides-of-time/internal/games/tides"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "tides",
	})
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tides",
	Short: "Tides of Time - keep the tide in balance",
	Long: `Tides of Time is a terminal balance game. The tide swings on its own;
ease it down or send a wave to keep it inside the calm middle band.
Every second in balance while you steer earns a point. Linger at the edge
or drift out of balance too long and the round is over.

Available commands:
  list      - Show all variants
  play      - Play a variant directly
  menu      - Title menu with high scores
  serve     - Start SSH server for remote play
  scores    - View high scores
  simulate  - Headless run for tuning constants

Examples:
  tides play
  tides play tides_zen --difficulty fixed
  tides menu
  tides serve --ssh :2222
  tides simulate --ticks 1200 --direction alternate`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second); the tide keeps its pace in seconds")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.tides/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}

// setup loads .env, fills unset flags from the environment and configures logging.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("ignoring unreadable .env", "err", err)
	}

	envDefault(cmd, "db", "TIDES_DB", &flagDBPath)
	envDefault(cmd, "log-level", "TIDES_LOG_LEVEL", &flagLogLevel)

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	logger.SetLevel(level)

	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	tides.SetLogger(logger)
	return nil
}

// envDefault copies an environment variable into a flag the user did not set.
func envDefault(cmd *cobra.Command, flag, env string, dst *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// terminalLogger redirects logging away from a full-screen UI. While stderr
// is the same terminal the game draws on, logs go to ~/.tides/tides.log.
// The returned func closes the log file.
func terminalLogger() func() {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return func() {}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	dir := filepath.Join(home, ".tides")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "tides.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		logger.SetOutput(io.Discard)
		return func() {}
	}

	logger.SetOutput(f)
	return func() {
		logger.SetOutput(os.Stderr)
		f.Close()
	}
}

// terminalSize returns the size of stdout, or 80x24 when it is not a terminal.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}
