package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/discochess/kibitz/internal/archive"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch USERNAME",
	Short: "Download a player's monthly game archive",
	Long: `Fetch downloads one monthly PGN archive from the public games API.
Interrupted downloads resume from where they left off.

Examples:
  kibitz fetch magnuscarlsen --year 2024 --month 1 --out january.pgn`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var (
	fetchYear  int
	fetchMonth int
	fetchOut   string
)

func init() {
	now := time.Now()
	fetchCmd.Flags().IntVar(&fetchYear, "year", now.Year(), "archive year")
	fetchCmd.Flags().IntVar(&fetchMonth, "month", int(now.Month()), "archive month (1-12)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "", "destination file (default USERNAME-YEAR-MONTH.pgn)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	username := args[0]
	if fetchMonth < 1 || fetchMonth > 12 {
		return fmt.Errorf("month must be 1-12, got %d", fetchMonth)
	}
	month := time.Month(fetchMonth)

	dest := fetchOut
	if dest == "" {
		dest = fmt.Sprintf("%s-%d-%02d.pgn", username, fetchYear, fetchMonth)
	}

	d := archive.NewDownloader()
	fmt.Printf("Downloading %s\n", archive.MonthURL(username, fetchYear, month))

	err := d.FetchMonth(cmd.Context(), username, fetchYear, month, dest, func(p archive.Progress) {
		if p.BytesTotal > 0 {
			fmt.Printf("\r%s / %s", archive.FormatBytes(p.BytesDownloaded), archive.FormatBytes(p.BytesTotal))
		} else {
			fmt.Printf("\r%s", archive.FormatBytes(p.BytesDownloaded))
		}
	})
	fmt.Println()
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	fmt.Printf("Saved %s\n", dest)
	return nil
}
