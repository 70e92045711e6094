package nn

import "github.com/talonchess/talon/pkg/board"

// maxDirtyPieces bounds the number of (piece, square) changes a single move
// can cause: a capturing promotion removes the pawn, adds the promoted
// piece, and removes the captured piece, the largest case. A king move
// (including castling) is tracked separately via kingMoved instead, since
// it invalidates every relative feature for that perspective at once.
const maxDirtyPieces = 3

type dirtyPiece struct {
	pt    board.PieceType
	color board.Color
	from  board.Square // board.NoSquare if the piece was just placed
	to    board.Square // board.NoSquare if the piece was removed
}

// dirtyState is the feature-level description of one move, computed while
// the position is still in its pre-move state (computeDirty) and applied
// once it is in its post-move state (Accumulator.ApplyMove).
type dirtyState struct {
	pieces    [maxDirtyPieces]dirtyPiece
	n         int
	kingMoved [board.NumColors]bool
}

// computeDirty inspects m against pos, which must still be in the state it
// had before m is made. The mover's own king moving (plain or castling)
// only sets kingMoved: the king itself is never a feature, and a moved
// king invalidates every relative feature for that perspective, handled by
// a full Accumulator.refreshSide instead of a piece-by-piece delta.
func computeDirty(pos *board.Position, m board.Move) dirtyState {
	var d dirtyState

	us := pos.Turn()
	them := us.Opponent()
	from, to, flag := m.From(), m.To(), m.Flag()
	movingPT, _, _ := pos.PieceAt(from)

	if movingPT == board.King {
		d.kingMoved[us] = true
	}

	switch {
	case flag == board.FlagEnPassant:
		capSq := board.NewSquare(to.File(), from.Rank())
		d.pieces[d.n] = dirtyPiece{pt: board.Pawn, color: them, from: capSq, to: board.NoSquare}
		d.n++
	case flag.IsCapture():
		capPT, _, _ := pos.PieceAt(to)
		d.pieces[d.n] = dirtyPiece{pt: capPT, color: them, from: to, to: board.NoSquare}
		d.n++
	}

	switch {
	case flag.IsPromotion():
		d.pieces[d.n] = dirtyPiece{pt: board.Pawn, color: us, from: from, to: board.NoSquare}
		d.n++
		d.pieces[d.n] = dirtyPiece{pt: flag.PromotionPiece(), color: us, from: board.NoSquare, to: to}
		d.n++
	case !d.kingMoved[us]:
		d.pieces[d.n] = dirtyPiece{pt: movingPT, color: us, from: from, to: to}
		d.n++
	}

	if flag.IsCastle() {
		rank := from.Rank()
		var rookFrom, rookTo board.Square
		if flag == board.FlagKingCastle {
			rookFrom, rookTo = board.NewSquare(board.FileH, rank), board.NewSquare(board.FileF, rank)
		} else {
			rookFrom, rookTo = board.NewSquare(board.FileA, rank), board.NewSquare(board.FileD, rank)
		}
		d.pieces[d.n] = dirtyPiece{pt: board.Rook, color: us, from: rookFrom, to: rookTo}
		d.n++
	}

	return d
}
