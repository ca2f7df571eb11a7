package kibitz

// Line is one ranked candidate move from a single position analysis.
type Line struct {
	// Rank is the 1-based multi-variation rank. A result always contains
	// ranks 1..K where K is the configured variation count; ranks the
	// engine never reported are present as empty placeholders so the
	// result length is exactly K.
	Rank int

	// Move is the candidate move in standard algebraic notation, or the
	// raw coordinate form when translation was impossible. Empty for
	// placeholder lines.
	Move string

	// Score is the evaluation label: a signed pawn value such as "+0.23"
	// or a mate marker such as "#-3". Empty for placeholder lines.
	Score string

	// Raw is the engine output line the evaluation was parsed from,
	// kept for diagnostics. Empty for placeholder lines.
	Raw string
}

// IsPlaceholder reports whether the line is an empty rank filler for a
// variation the engine did not produce.
func (l Line) IsPlaceholder() bool {
	return l.Move == ""
}
