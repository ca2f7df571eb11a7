package pgn

import (
	"strings"
	"testing"
)

const samplePGN = `[Event "Live Chess"]
[Site "Chess.com"]
[White "alice"]
[Black "bob"]
[Result "1-0"]
[ECO "C50"]
[ECOUrl "https://www.chess.com/openings/Italian-Game-Giuoco-Pianissimo?x=1"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 Bc5 1-0

[Event "Live Chess"]
[Site "Chess.com"]
[White "bob"]
[Black "alice"]
[Result "0-1"]
[ECO "B20"]
[Opening "Sicilian Defense"]

1. e4 c5 0-1
`

func TestSplit(t *testing.T) {
	games, err := Split(strings.NewReader(samplePGN))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}

	first := games[0]
	if first.ECO != "C50" {
		t.Errorf("game 1 ECO = %q, want C50", first.ECO)
	}
	if first.Result != "1-0" {
		t.Errorf("game 1 Result = %q, want 1-0", first.Result)
	}
	// No Opening tag: recovered from ECOUrl.
	if first.Opening != "Italian Game Giuoco Pianissimo" {
		t.Errorf("game 1 Opening = %q, want %q", first.Opening, "Italian Game Giuoco Pianissimo")
	}

	second := games[1]
	if second.Opening != "Sicilian Defense" {
		t.Errorf("game 2 Opening = %q, want %q", second.Opening, "Sicilian Defense")
	}
	if second.ECO != "B20" {
		t.Errorf("game 2 ECO = %q, want B20", second.ECO)
	}
}

func TestSplit_MissingHeaders(t *testing.T) {
	games, err := Split(strings.NewReader("[Event \"Casual\"]\n\n1. d4 d5 *\n"))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("got %d games, want 1", len(games))
	}
	g := games[0]
	if g.ECO != "Unknown" {
		t.Errorf("ECO = %q, want Unknown", g.ECO)
	}
	if g.Opening != "Unknown" {
		t.Errorf("Opening = %q, want Unknown", g.Opening)
	}
	if g.Result != "*" {
		t.Errorf("Result = %q, want *", g.Result)
	}
}

func TestSplit_Empty(t *testing.T) {
	games, err := Split(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(games) != 0 {
		t.Errorf("got %d games, want 0", len(games))
	}
}

func TestGame_Positions(t *testing.T) {
	games, err := Split(strings.NewReader(samplePGN))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	positions, err := games[0].Positions()
	if err != nil {
		t.Fatalf("Positions() error = %v", err)
	}
	if len(positions) != 6 {
		t.Fatalf("got %d positions, want 6", len(positions))
	}

	wantMoves := []string{"e4", "e5", "Nf3", "Nc6", "Bc4", "Bc5"}
	for i, p := range positions {
		if p.Ply != i+1 {
			t.Errorf("position %d: ply = %d, want %d", i, p.Ply, i+1)
		}
		if p.Move != wantMoves[i] {
			t.Errorf("position %d: move = %q, want %q", i, p.Move, wantMoves[i])
		}
		if p.FEN == "" {
			t.Errorf("position %d: empty FEN", i)
		}
	}

	// After 1. e4 it is black to move.
	if !strings.Contains(positions[0].FEN, " b ") {
		t.Errorf("position 1 FEN side to move: %q", positions[0].FEN)
	}
}

func TestGame_MoveCount(t *testing.T) {
	games, err := Split(strings.NewReader(samplePGN))
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if got := games[0].MoveCount(); got != 6 {
		t.Errorf("game 1 MoveCount() = %d, want 6", got)
	}
	if got := games[1].MoveCount(); got != 2 {
		t.Errorf("game 2 MoveCount() = %d, want 2", got)
	}
}

func TestOpeningName_ECOUrlVariants(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			"explicit opening wins",
			map[string]string{"Opening": "French Defense", "ECOUrl": "https://www.chess.com/openings/Caro-Kann"},
			"French Defense",
		},
		{
			"url with query",
			map[string]string{"ECOUrl": "https://www.chess.com/openings/Queens-Gambit-Declined?ref=x"},
			"Queens Gambit Declined",
		},
		{
			"url without openings segment",
			map[string]string{"ECOUrl": "https://example.com/foo"},
			"Unknown",
		},
		{
			"no headers",
			map[string]string{},
			"Unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := openingName(tt.headers); got != tt.want {
				t.Errorf("openingName() = %q, want %q", got, tt.want)
			}
		})
	}
}
