package nn

import "github.com/talonchess/talon/pkg/board"

// sfPieceIndex mirrors the pack's half-king-relative feature convention:
// piece type and color collapse to a single index in [0,10) (king itself
// is never a feature, since every perspective always has exactly one and
// it's already encoded via the relative king square).
func sfPieceIndex(pt board.PieceType, c board.Color, perspective board.Color) int {
	relative := 0
	if c != perspective {
		relative = 5
	}
	return relative + int(pt) - 1 // Pawn=1..Queen=5 -> 0..4 (or 5..9 for the opponent)
}

// FeatureIndex computes the sparse input-layer index for one (piece,
// square) pair as seen from perspective, relative to that perspective's
// king square. 64 king positions * 64 piece squares * 10 piece/color
// combinations (pawn..queen, own/opponent) is the feature space; king
// placements are implicit in the perspective's accumulator, not a feature.
func FeatureIndex(perspective board.Color, kingSq, sq board.Square, pt board.PieceType, c board.Color) int {
	if perspective == board.Black {
		kingSq = kingSq.Flip()
		sq = sq.Flip()
	}
	pieceIdx := sfPieceIndex(pt, c, perspective)
	return (int(kingSq)*64+int(sq))*10 + pieceIdx
}

// ActiveFeatures appends every active feature index for pos as seen from
// perspective to dst, resetting dst first.
func ActiveFeatures(pos *board.Position, perspective board.Color, dst []int) []int {
	dst = dst[:0]
	ksq := pos.King(perspective)

	for c := board.ZeroColor; c < board.NumColors; c++ {
		for pt := board.Pawn; pt < board.King; pt++ {
			bb := pos.PieceBoard(c, pt)
			for bb != 0 {
				sq, rest := bb.Pop()
				bb = rest
				dst = append(dst, FeatureIndex(perspective, ksq, sq, pt, c))
			}
		}
	}
	return dst
}
