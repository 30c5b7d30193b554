package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tides-of-time/internal/registry"
	"github.com/vovakirdan/tides-of-time/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [game]",
	Short: "Show high scores for a variant",
	Long: `Display the best rounds for a variant (default: tides).

Examples:
  tides scores
  tides scores tides_zen --limit 20
  tides scores --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rounds to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the history and best score for the variant")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := "tides"
	if len(args) > 0 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'tides list' to see available variants.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		logger.Info("scores cleared", "game", gameID)
		fmt.Printf("Cleared scores for %s.\n", title)
		return
	}

	scores, err := store.TopScores(gameID, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'tides play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-6s  %-12s  %-13s  %-7s  %s\n", "Rank", "Score", "Player", "Ended by", "Time", "Date")
	fmt.Printf("  %-4s  %-6s  %-12s  %-13s  %-7s  %s\n", "----", "-----", "------", "--------", "----", "----")
	for i, e := range scores {
		player := e.Player
		if player == "" {
			player = "local"
		}
		fmt.Printf("  %-4d  %-6d  %-12s  %-13s  %-7s  %s\n",
			i+1, e.Score, player, e.Reason, ticksToDuration(e.Ticks), e.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if best, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	if stats, err := store.GameStats(gameID); err == nil {
		fmt.Printf("Rounds: %d   Average: %.1f   Time on the water: %s\n",
			stats.GamesCount, stats.AvgScore, ticksToDuration(int(stats.TotalTicks)))
	}
}

// ticksToDuration formats a tick count at the configured rate as m:ss.
func ticksToDuration(ticks int) string {
	secs := ticks / flagFPS
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
