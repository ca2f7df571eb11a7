package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/discochess/kibitz/internal/pgn"
	"github.com/discochess/kibitz/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize a PGN game collection by opening and ECO code",
	Long: `Report parses a PGN collection and tallies games, results, and win
rates per opening and per ECO code.

Examples:
  # Print the summary
  kibitz report --pgn january.pgn

  # Export to CSV and Markdown
  kibitz report --pgn january.pgn --csv openings.csv --markdown report.md`,
	RunE: runReport,
}

var (
	reportPGN      string
	reportCSV      string
	reportMarkdown string
	reportTop      int
)

func init() {
	reportCmd.Flags().StringVar(&reportPGN, "pgn", "", "PGN file to summarize (required)")
	reportCmd.Flags().StringVar(&reportCSV, "csv", "", "write the opening summary to this CSV file")
	reportCmd.Flags().StringVar(&reportMarkdown, "markdown", "", "write the full report to this Markdown file")
	reportCmd.Flags().IntVar(&reportTop, "top", 10, "rows to show per table")
	reportCmd.MarkFlagRequired("pgn")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(reportPGN)
	if err != nil {
		return fmt.Errorf("opening PGN: %w", err)
	}
	defer f.Close()

	games, err := pgn.Split(f)
	if err != nil {
		return fmt.Errorf("parsing PGN: %w", err)
	}
	if len(games) == 0 {
		return fmt.Errorf("no games found in %s", reportPGN)
	}

	summaries := make([]report.GameSummary, 0, len(games))
	for _, g := range games {
		summaries = append(summaries, report.GameSummary{
			ECO:     g.ECO,
			Opening: g.Opening,
			Result:  g.Result,
			Moves:   g.MoveCount(),
		})
	}

	byOpening := report.ByOpening(summaries)
	byECO := report.ByECO(summaries)

	fmt.Printf("Games: %d\n\n", len(summaries))
	printAggregates("Top openings", byOpening, reportTop)
	printAggregates("Top ECO codes", byECO, reportTop)

	if reportCSV != "" {
		out, err := os.Create(reportCSV)
		if err != nil {
			return fmt.Errorf("creating CSV file: %w", err)
		}
		defer out.Close()
		if err := report.WriteCSV(out, "Opening", byOpening); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		fmt.Printf("Wrote %s\n", reportCSV)
	}

	if reportMarkdown != "" {
		out, err := os.Create(reportMarkdown)
		if err != nil {
			return fmt.Errorf("creating Markdown file: %w", err)
		}
		defer out.Close()
		md := report.NewMarkdownReport(out)
		md.WriteHeader(fmt.Sprintf("Game Report: %s", reportPGN))
		md.WriteAggregates("Openings", "Opening", byOpening, reportTop)
		md.WriteAggregates("ECO Codes", "ECO", byECO, reportTop)
		fmt.Printf("Wrote %s\n", reportMarkdown)
	}

	return nil
}

func printAggregates(title string, aggs []report.Aggregate, limit int) {
	fmt.Println(title + ":")
	for i, a := range aggs {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Printf("  %-40s %4d games  %.1f%% white wins\n", a.Key, a.Games, a.WhiteWinRate()*100)
	}
	fmt.Println()
}
