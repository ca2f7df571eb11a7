package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/kibitz"
	"github.com/discochess/kibitz/internal/codec/zstdcodec"
	"github.com/discochess/kibitz/internal/pgn"
	"github.com/discochess/kibitz/internal/report"
	"github.com/discochess/kibitz/internal/store/diskstore"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [FEN]",
	Short: "Analyze a position or every position in a PGN file",
	Long: `Analyze evaluates chess positions with the engine pool and prints the
top candidate lines for each.

With a FEN argument, a single position is analyzed. With --pgn, every
position of every game in the file is analyzed; --save persists the
per-game results under the data directory.

Examples:
  # Single position, 3 candidate lines
  kibitz analyze "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

  # Whole file, persisted as compressed reports
  kibitz analyze --pgn january.pgn --save 2024-01 --data-dir ./data`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

var (
	analyzePGN      string
	analyzeSaveID   string
	analyzeDataDir  string
	analyzePoolSize int
	analyzeMultiPV  int
	analyzeMoveTime time.Duration
	analyzeThreads  int
	analyzeHashMB   int
	analyzeMaxGames int
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzePGN, "pgn", "", "PGN file to analyze instead of a single FEN")
	analyzeCmd.Flags().StringVar(&analyzeSaveID, "save", "", "persist per-game reports under this ID prefix")
	analyzeCmd.Flags().StringVar(&analyzeDataDir, "data-dir", "./data", "directory for persisted reports")
	analyzeCmd.Flags().IntVar(&analyzePoolSize, "pool-size", kibitz.DefaultPoolSize, "number of engine processes")
	analyzeCmd.Flags().IntVar(&analyzeMultiPV, "multipv", kibitz.DefaultMultiPV, "candidate lines per position")
	analyzeCmd.Flags().DurationVar(&analyzeMoveTime, "movetime", kibitz.DefaultSearchTime, "search budget per position")
	analyzeCmd.Flags().IntVar(&analyzeThreads, "threads", 1, "engine threads per process")
	analyzeCmd.Flags().IntVar(&analyzeHashMB, "hash", 128, "engine hash size in MB per process")
	analyzeCmd.Flags().IntVar(&analyzeMaxGames, "games", 0, "max games to analyze from the PGN file (0 = all)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzePGN == "" && len(args) == 0 {
		return fmt.Errorf("either a FEN argument or --pgn is required")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	pool, err := kibitz.New(
		kibitz.WithEnginePath(enginePath),
		kibitz.WithPoolSize(analyzePoolSize),
		kibitz.WithMultiPV(analyzeMultiPV),
		kibitz.WithSearchTime(analyzeMoveTime),
		kibitz.WithThreads(analyzeThreads),
		kibitz.WithHashMB(analyzeHashMB),
		kibitz.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("creating engine pool: %w", err)
	}
	defer pool.Close()

	ctx := cmd.Context()

	if analyzePGN == "" {
		return analyzePosition(ctx, pool, args[0])
	}
	return analyzeFile(ctx, pool)
}

func analyzePosition(ctx context.Context, pool *kibitz.Pool, fen string) error {
	lines, err := pool.Analyze(ctx, fen)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	printLines(lines)
	return nil
}

func analyzeFile(ctx context.Context, pool *kibitz.Pool) error {
	f, err := os.Open(analyzePGN)
	if err != nil {
		return fmt.Errorf("opening PGN: %w", err)
	}
	defer f.Close()

	games, err := pgn.Split(f)
	if err != nil {
		return fmt.Errorf("parsing PGN: %w", err)
	}
	if analyzeMaxGames > 0 && len(games) > analyzeMaxGames {
		games = games[:analyzeMaxGames]
	}

	var st *diskstore.Store
	if analyzeSaveID != "" {
		if err := os.MkdirAll(analyzeDataDir, 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
		st, err = diskstore.New(analyzeDataDir, zstdcodec.New())
		if err != nil {
			return fmt.Errorf("opening data directory: %w", err)
		}
		defer st.Close()
	}

	for i, game := range games {
		fmt.Printf("\n=== Game %d: %s vs %s (%s) ===\n",
			i+1, game.Headers["White"], game.Headers["Black"], game.Result)

		positions, err := game.Positions()
		if err != nil {
			fmt.Printf("  skipped: %v\n", err)
			continue
		}

		rows := make([]report.Row, 0, len(positions))
		for _, pos := range positions {
			lines, err := pool.Analyze(ctx, pos.FEN)
			if err != nil {
				return fmt.Errorf("game %d ply %d: %w", i+1, pos.Ply, err)
			}

			row := report.Row{Ply: pos.Ply, Move: pos.Move, FEN: pos.FEN}
			for _, l := range lines {
				row.Lines = append(row.Lines, report.Candidate{
					Rank:  l.Rank,
					Move:  l.Move,
					Score: l.Score,
				})
			}
			rows = append(rows, row)

			if best := lines[0]; !best.IsPlaceholder() {
				fmt.Printf("  %3d. %-7s best %-7s %s\n", pos.Ply, pos.Move, best.Move, best.Score)
			}
		}

		if st != nil {
			id := fmt.Sprintf("%s-game-%04d", analyzeSaveID, i+1)
			var buf bytes.Buffer
			if err := report.EncodeRows(&buf, rows); err != nil {
				return fmt.Errorf("encoding report: %w", err)
			}
			if err := st.WriteReport(ctx, id, buf.Bytes()); err != nil {
				return fmt.Errorf("saving report %s: %w", id, err)
			}
			fmt.Printf("  saved report %s\n", id)
		}
	}

	return nil
}

func printLines(lines []kibitz.Line) {
	for _, l := range lines {
		if l.IsPlaceholder() {
			fmt.Printf("%d. (no line)\n", l.Rank)
			continue
		}
		fmt.Printf("%d. %-7s %s\n", l.Rank, l.Move, l.Score)
	}
}
