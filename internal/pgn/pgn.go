// Package pgn provides utilities for splitting PGN streams into games
// and extracting per-move positions for analysis.
package pgn

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/notnil/chess"
)

// headerRe matches one PGN tag pair, e.g. [ECO "B20"].
var headerRe = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]`)

// Game is one game extracted from a PGN stream.
type Game struct {
	// ECO is the opening classification code, "Unknown" when absent.
	ECO string

	// Opening is the human-readable opening name. When the Opening tag
	// is absent it is recovered from the ECOUrl tag, else "Unknown".
	Opening string

	// Result is the game result tag, "*" when absent.
	Result string

	// Headers holds all tag pairs of the game.
	Headers map[string]string

	// Text is the raw PGN of the game including its headers.
	Text string
}

// Position is one position reached during a game, paired with the move
// that produced it.
type Position struct {
	// Ply is the 1-based half-move index.
	Ply int

	// Move is the move played, in standard algebraic notation.
	Move string

	// FEN describes the position after the move.
	FEN string
}

// Split reads a PGN stream and returns its games in order. Games that
// fail header parsing are still returned with default tags; the raw
// text is preserved either way.
func Split(r io.Reader) ([]Game, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines.
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	var games []Game
	var gameText strings.Builder
	inGame := false

	flush := func() {
		if gameText.Len() == 0 {
			return
		}
		games = append(games, parseGame(gameText.String()))
		gameText.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()

		// Detect game boundaries.
		if strings.HasPrefix(line, "[Event ") {
			if inGame {
				flush()
			}
			inGame = true
		}

		if inGame {
			gameText.WriteString(line)
			gameText.WriteString("\n")
		}
	}

	// Process last game.
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading PGN: %w", err)
	}

	return games, nil
}

// parseGame extracts the tag pairs of one game and fills the derived
// fields.
func parseGame(text string) Game {
	g := Game{
		Headers: make(map[string]string),
		Text:    text,
	}

	for _, line := range strings.Split(text, "\n") {
		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		g.Headers[m[1]] = m[2]
	}

	g.ECO = headerOr(g.Headers, "ECO", "Unknown")
	g.Result = headerOr(g.Headers, "Result", "*")
	g.Opening = openingName(g.Headers)

	return g
}

func headerOr(headers map[string]string, key, fallback string) string {
	if v := headers[key]; v != "" {
		return v
	}
	return fallback
}

// openingName prefers the explicit Opening tag and falls back to the
// last path segment of the ECOUrl tag, with dashes turned into spaces.
func openingName(headers map[string]string) string {
	if name := headers["Opening"]; name != "" {
		return name
	}

	url := headers["ECOUrl"]
	_, after, found := strings.Cut(url, "/openings/")
	if !found {
		return "Unknown"
	}
	segment, _, _ := strings.Cut(after, "?")
	segment = strings.TrimSuffix(segment, "/")
	if segment == "" {
		return "Unknown"
	}
	return strings.ReplaceAll(segment, "-", " ")
}

// Positions replays the game's main line and returns one entry per
// half-move: the move in algebraic notation and the position it leads
// to.
func (g Game) Positions() ([]Position, error) {
	pgnFunc, err := chess.PGN(strings.NewReader(g.Text))
	if err != nil {
		return nil, fmt.Errorf("parsing game: %w", err)
	}
	parsed := chess.NewGame(pgnFunc)

	moves := parsed.Moves()
	// Positions() includes the starting position at index 0, so
	// position i+1 follows move i.
	all := parsed.Positions()
	if len(all) != len(moves)+1 {
		return nil, fmt.Errorf("inconsistent game: %d positions for %d moves", len(all), len(moves))
	}

	positions := make([]Position, len(moves))
	for i, move := range moves {
		san := chess.AlgebraicNotation{}.Encode(all[i], move)
		positions[i] = Position{
			Ply:  i + 1,
			Move: san,
			FEN:  all[i+1].String(),
		}
	}
	return positions, nil
}

// MoveCount returns the number of half-moves in the game's main line,
// or 0 when the movetext cannot be parsed.
func (g Game) MoveCount() int {
	positions, err := g.Positions()
	if err != nil {
		return 0
	}
	return len(positions)
}
