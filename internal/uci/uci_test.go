package uci

import (
	"testing"
	"time"
)

func TestParseInfo_Accepted(t *testing.T) {
	line := "info depth 20 seldepth 28 multipv 2 score cp -37 nodes 812345 nps 650000 pv e7e5 g1f3 b8c6"

	info, ok := ParseInfo(line)
	if !ok {
		t.Fatalf("ParseInfo(%q) ok = false, want true", line)
	}
	if info.Rank != 2 {
		t.Errorf("Rank = %d, want 2", info.Rank)
	}
	if info.Move != "e7e5" {
		t.Errorf("Move = %q, want %q", info.Move, "e7e5")
	}
	if info.IsMate {
		t.Error("IsMate = true, want false")
	}
	if info.CP != -37 {
		t.Errorf("CP = %d, want -37", info.CP)
	}
	if info.Raw != line {
		t.Errorf("Raw = %q, want original line", info.Raw)
	}
}

func TestParseInfo_Mate(t *testing.T) {
	info, ok := ParseInfo("info depth 12 multipv 1 score mate -3 pv h7h8q")
	if !ok {
		t.Fatal("ParseInfo ok = false, want true")
	}
	if !info.IsMate || info.Mate != -3 {
		t.Errorf("Mate = %d (IsMate %v), want -3 (true)", info.Mate, info.IsMate)
	}
	if info.Move != "h7h8q" {
		t.Errorf("Move = %q, want promotion move h7h8q", info.Move)
	}
}

func TestParseInfo_Discarded(t *testing.T) {
	lines := []string{
		"",
		"bestmove e2e4 ponder e7e5",
		"info depth 5 currmove e2e4 currmovenumber 1",            // no rank, pv, score
		"info multipv 1 score cp 10",                             // no pv
		"info multipv 1 pv e2e4 e7e5",                            // no score
		"info score cp 10 pv e2e4",                               // no rank
		"info multipv 1 score cp 10 pv castles",                  // malformed move
		"info multipv 1 score cp ten pv e2e4",                    // non-numeric score
		"info string NNUE evaluation using nn-5af11540bbfe.nnue", // noise
	}
	for _, line := range lines {
		if _, ok := ParseInfo(line); ok {
			t.Errorf("ParseInfo(%q) ok = true, want false", line)
		}
	}
}

func TestParseInfo_Idempotent(t *testing.T) {
	line := "info depth 18 multipv 3 score cp 101 pv d2d4 d7d5 c2c4"

	first, ok1 := ParseInfo(line)
	second, ok2 := ParseInfo(line)
	if !ok1 || !ok2 {
		t.Fatal("ParseInfo ok = false, want true both times")
	}
	if first != second {
		t.Errorf("ParseInfo not idempotent: %+v != %+v", first, second)
	}
}

func TestInfo_Score(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"small positive cp", Info{CP: 23}, "+0.23"},
		{"large negative cp", Info{CP: -450}, "-4.50"},
		{"zero", Info{CP: 0}, "+0.00"},
		{"whole pawns", Info{CP: 300}, "+3.00"},
		{"mate for", Info{Mate: 5, IsMate: true}, "#5"},
		{"mate against", Info{Mate: -3, IsMate: true}, "#-3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Score(); got != tt.want {
				t.Errorf("Score() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsBestMove(t *testing.T) {
	if !IsBestMove("bestmove e2e4 ponder e7e5") {
		t.Error("IsBestMove(bestmove ...) = false, want true")
	}
	if IsBestMove("info depth 1 multipv 1 score cp 0 pv e2e4") {
		t.Error("IsBestMove(info ...) = true, want false")
	}
}

func TestCommands(t *testing.T) {
	if got := CmdSetOption("MultiPV", "3"); got != "setoption name MultiPV value 3" {
		t.Errorf("CmdSetOption = %q", got)
	}
	if got := CmdPosition("8/8/8/8/8/8/8/8 w - - 0 1"); got != "position fen 8/8/8/8/8/8/8/8 w - - 0 1" {
		t.Errorf("CmdPosition = %q", got)
	}
	if got := CmdGoMoveTime(1500 * time.Millisecond); got != "go movetime 1500" {
		t.Errorf("CmdGoMoveTime = %q", got)
	}
}
