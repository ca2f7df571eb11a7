// Package report persists per-position analysis results and aggregates
// game collections into opening and evaluation summaries.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Candidate is one engine line attached to a report row.
type Candidate struct {
	Rank  int    `json:"rank"`
	Move  string `json:"move,omitempty"`
	Score string `json:"score,omitempty"`
}

// Row is the analysis record of one position in a game.
type Row struct {
	Ply   int         `json:"ply"`
	Move  string      `json:"move"`
	FEN   string      `json:"fen"`
	Lines []Candidate `json:"lines"`
}

// EncodeRows writes rows as JSON lines, one row per line.
func EncodeRows(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	for i := range rows {
		if err := enc.Encode(&rows[i]); err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
	}
	return nil
}

// DecodeRows reads JSON-lines rows written by EncodeRows.
func DecodeRows(r io.Reader) ([]Row, error) {
	var rows []Row
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("decoding row %d: %w", len(rows), err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return rows, nil
}

// GameSummary is the per-game record used for aggregation.
type GameSummary struct {
	ECO     string
	Opening string
	Result  string
	Moves   int
}

// Aggregate is the tally for one grouping key.
type Aggregate struct {
	Key       string
	Games     int
	WhiteWins int
	BlackWins int
	Draws     int
}

// WhiteWinRate returns the share of games in the group won by white.
func (a Aggregate) WhiteWinRate() float64 {
	if a.Games == 0 {
		return 0
	}
	return float64(a.WhiteWins) / float64(a.Games)
}

// ByOpening groups game summaries by opening name, most played first.
func ByOpening(summaries []GameSummary) []Aggregate {
	return aggregate(summaries, func(g GameSummary) string { return g.Opening })
}

// ByECO groups game summaries by ECO code, most played first.
func ByECO(summaries []GameSummary) []Aggregate {
	return aggregate(summaries, func(g GameSummary) string { return g.ECO })
}

func aggregate(summaries []GameSummary, keyOf func(GameSummary) string) []Aggregate {
	byKey := make(map[string]*Aggregate)
	for _, g := range summaries {
		key := keyOf(g)
		agg, ok := byKey[key]
		if !ok {
			agg = &Aggregate{Key: key}
			byKey[key] = agg
		}
		agg.Games++
		switch g.Result {
		case "1-0":
			agg.WhiteWins++
		case "0-1":
			agg.BlackWins++
		case "1/2-1/2":
			agg.Draws++
		}
	}

	out := make([]Aggregate, 0, len(byKey))
	for _, agg := range byKey {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ScoreValue converts a centipawn score label such as "+0.31" or
// "-4.50" to its pawn value. Mate markers and placeholders report
// false.
func ScoreValue(score string) (float64, bool) {
	if score == "" || strings.HasPrefix(score, "#") {
		return 0, false
	}
	v, err := strconv.ParseFloat(score, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
