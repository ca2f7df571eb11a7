package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	enginePath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "kibitz",
	Short: "Analyze chess games with a pool of UCI engines",
	Long: `Kibitz runs a pool of UCI engine processes and evaluates chess
positions, whole games, or monthly game archives.

Examples:
  # Analyze a single position
  kibitz analyze "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

  # Analyze every position of every game in a PGN file
  kibitz analyze --pgn games.pgn --save 2024-01

  # Download a monthly archive
  kibitz fetch magnuscarlsen --year 2024 --month 1 --out games.pgn

  # Summarize a game collection by opening
  kibitz report --pgn games.pgn`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&enginePath, "engine", "e", "stockfish", "UCI engine binary to launch")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newLogger builds the CLI logger: human-readable and chatty when
// verbose, silent otherwise.
func newLogger() (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}
