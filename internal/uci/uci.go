// Package uci implements the line-oriented text protocol spoken to
// external analysis engine processes: command construction on the way
// out, and line-at-a-time parsing of engine output on the way in.
//
// Parsing is deliberately forgiving. Engines emit a large amount of
// auxiliary progress output (currmove, hashfull, string lines, ...);
// anything that does not carry a complete ranked evaluation is simply
// not information yet and is discarded without error.
package uci

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Handshake and termination commands.
const (
	CmdUCI     = "uci"
	CmdIsReady = "isready"
	CmdQuit    = "quit"
)

// Acknowledgement tokens the engine replies with.
const (
	TokenUCIOK   = "uciok"
	TokenReadyOK = "readyok"
)

// coordMoveRe matches a well-formed coordinate move: source square,
// destination square, optional promotion piece.
var coordMoveRe = regexp.MustCompile(`^[a-h][1-8][a-h][1-8][qrbn]?$`)

// CmdSetOption builds a "setoption" command.
func CmdSetOption(name, value string) string {
	return fmt.Sprintf("setoption name %s value %s", name, value)
}

// CmdPosition builds a "position" command for a FEN-encoded position.
func CmdPosition(fen string) string {
	return "position fen " + fen
}

// CmdGoMoveTime builds a "go" command with a fixed time budget.
func CmdGoMoveTime(d time.Duration) string {
	return fmt.Sprintf("go movetime %d", d.Milliseconds())
}

// Info is one parsed ranked evaluation from an engine "info" line.
type Info struct {
	// Rank is the 1-based multi-variation rank the line belongs to.
	Rank int

	// Move is the first move of the principal variation, in coordinate form.
	Move string

	// CP is the centipawn score. Meaningless when Mate is set.
	CP int

	// Mate is the mate-in-N distance; sign indicates mate for or against
	// the side to move.
	Mate int

	// IsMate reports whether the score is a mate distance rather than
	// centipawns.
	IsMate bool

	// Raw is the original engine line, kept for diagnostics.
	Raw string
}

// ParseInfo parses one engine output line into an Info.
//
// A line is accepted only when it carries all three of: a multipv rank,
// a pv whose first entry is a well-formed coordinate move, and a
// centipawn or mate score. Everything else returns ok == false; callers
// treat that as "no information", never as an error. ParseInfo is a pure
// function: the same line always yields the same result.
func ParseInfo(line string) (Info, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != "info" {
		return Info{}, false
	}

	info := Info{Raw: line}
	var haveRank, haveMove, haveScore bool

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "multipv":
			if i+1 < len(fields) {
				if n, err := strconv.Atoi(fields[i+1]); err == nil && n >= 1 {
					info.Rank = n
					haveRank = true
				}
			}
		case "score":
			if i+2 >= len(fields) {
				continue
			}
			n, err := strconv.Atoi(fields[i+2])
			if err != nil {
				continue
			}
			switch fields[i+1] {
			case "cp":
				info.CP = n
				haveScore = true
			case "mate":
				info.Mate = n
				info.IsMate = true
				haveScore = true
			}
		case "pv":
			if i+1 < len(fields) && coordMoveRe.MatchString(fields[i+1]) {
				info.Move = fields[i+1]
				haveMove = true
			}
		}
	}

	if !haveRank || !haveMove || !haveScore {
		return Info{}, false
	}
	return info, true
}

// IsBestMove reports whether the line is the terminal-of-search token.
func IsBestMove(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "bestmove")
}

// Score returns the human-readable evaluation label.
// Centipawns render as a signed pawn value fixed to two decimals
// ("+0.23", "-4.50"); mate distances render as "#N" with the sign
// preserved ("#5", "#-3").
func (i Info) Score() string {
	if i.IsMate {
		return "#" + strconv.Itoa(i.Mate)
	}
	cp := i.CP
	sign := "+"
	if cp < 0 {
		sign = "-"
		cp = -cp
	}
	whole := cp / 100
	frac := cp % 100
	if frac < 10 {
		return sign + strconv.Itoa(whole) + ".0" + strconv.Itoa(frac)
	}
	return sign + strconv.Itoa(whole) + "." + strconv.Itoa(frac)
}
