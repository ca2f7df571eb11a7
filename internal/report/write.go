package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// WriteCSV writes aggregates as CSV with a header row.
func WriteCSV(w io.Writer, keyName string, aggs []Aggregate) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{keyName, "Games", "WhiteWins", "BlackWins", "Draws", "WhiteWinRate"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, a := range aggs {
		record := []string{
			a.Key,
			strconv.Itoa(a.Games),
			strconv.Itoa(a.WhiteWins),
			strconv.Itoa(a.BlackWins),
			strconv.Itoa(a.Draws),
			strconv.FormatFloat(a.WhiteWinRate(), 'f', 3, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarkdownReport generates game-collection reports in Markdown format.
type MarkdownReport struct {
	w io.Writer
}

// NewMarkdownReport creates a new Markdown report writer.
func NewMarkdownReport(w io.Writer) *MarkdownReport {
	return &MarkdownReport{w: w}
}

// WriteHeader writes the report header.
func (r *MarkdownReport) WriteHeader(title string) {
	fmt.Fprintf(r.w, "# %s\n\n", title)
	fmt.Fprintf(r.w, "Generated: %s\n\n", time.Now().Format(time.RFC3339))
}

// WriteAggregates writes one grouping table, capped at limit rows
// (0 means all).
func (r *MarkdownReport) WriteAggregates(title, keyName string, aggs []Aggregate, limit int) {
	fmt.Fprintf(r.w, "## %s\n\n", title)
	fmt.Fprintf(r.w, "| %s | Games | 1-0 | 0-1 | Draws | White Win Rate |\n", keyName)
	fmt.Fprintln(r.w, "|---|---|---|---|---|---|")

	for i, a := range aggs {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(r.w, "| %s | %d | %d | %d | %d | %.1f%% |\n",
			a.Key, a.Games, a.WhiteWins, a.BlackWins, a.Draws, a.WhiteWinRate()*100)
	}
	fmt.Fprintln(r.w)
}

// WriteEvalStats writes the evaluation distribution section.
func (r *MarkdownReport) WriteEvalStats(stats EvalStats) {
	fmt.Fprintln(r.w, "## Evaluations")
	fmt.Fprintln(r.w)
	if stats.Count == 0 {
		fmt.Fprintln(r.w, "No evaluations recorded.")
		fmt.Fprintln(r.w)
		return
	}
	fmt.Fprintf(r.w, "- **Positions:** %d\n", stats.Count)
	fmt.Fprintf(r.w, "- **Mean:** %+.2f\n", stats.Mean)
	fmt.Fprintf(r.w, "- **Median:** %+.2f\n", stats.Median)
	fmt.Fprintf(r.w, "- **Std Dev:** %.2f\n", stats.StdDev)
	fmt.Fprintf(r.w, "- **Range:** [%+.2f, %+.2f]\n", stats.Min, stats.Max)
	fmt.Fprintln(r.w)
}
