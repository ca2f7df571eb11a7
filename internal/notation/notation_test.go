package notation

import "testing"

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func TestToSAN(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
		want string
	}{
		{"pawn push", startFEN, "e2e4", "e4"},
		{"knight development", startFEN, "g1f3", "Nf3"},
		{
			"capture",
			"rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq - 0 2",
			"e4d5",
			"exd5",
		},
		{
			"promotion",
			"8/4P3/8/8/8/8/2k5/K7 w - - 0 1",
			"e7e8q",
			"e8=Q",
		},
		{
			"kingside castle",
			"r1bqkbnr/pppp1ppp/2n5/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4",
			"e1g1",
			"O-O",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSAN(tt.fen, tt.move); got != tt.want {
				t.Errorf("ToSAN(%q, %q) = %q, want %q", tt.fen, tt.move, got, tt.want)
			}
		})
	}
}

func TestToSAN_FallsBackToCoordinateForm(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		move string
	}{
		{"illegal move", startFEN, "e2e5"},
		{"wrong side to move", startFEN, "e7e5"},
		{"garbage move", startFEN, "zz99"},
		{"garbage fen", "not a position", "e2e4"},
		{"empty fen", "", "e2e4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToSAN(tt.fen, tt.move); got != tt.move {
				t.Errorf("ToSAN(%q, %q) = %q, want raw move back", tt.fen, tt.move, got)
			}
		})
	}
}
