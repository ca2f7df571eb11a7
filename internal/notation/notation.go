// Package notation translates coordinate (UCI) moves into standard
// algebraic notation.
package notation

import (
	"github.com/notnil/chess"
)

// ToSAN converts a coordinate move into standard algebraic notation for
// the position described by fen.
//
// The move is decoded under full legality validation against the
// reconstructed position. If the FEN cannot be parsed or the move is not
// legal in that position (stale FEN, desynchronized state, corrupted
// input), the coordinate form is returned unchanged: a readability
// failure must never invalidate an otherwise valid evaluation.
func ToSAN(fen, move string) string {
	fenOpt, err := chess.FEN(fen)
	if err != nil {
		return move
	}
	pos := chess.NewGame(fenOpt).Position()

	decoded, err := chess.UCINotation{}.Decode(pos, move)
	if err != nil {
		return move
	}
	if !isLegal(pos, decoded) {
		return move
	}

	san := chess.AlgebraicNotation{}.Encode(pos, decoded)
	if san == "" {
		return move
	}
	return san
}

func isLegal(pos *chess.Position, move *chess.Move) bool {
	for _, valid := range pos.ValidMoves() {
		if valid.String() == move.String() {
			return true
		}
	}
	return false
}
