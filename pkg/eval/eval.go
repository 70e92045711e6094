// Package eval contains static position evaluation: material, piece-square
// tables, mobility, king safety, pawn structure, and an optional neural
// network evaluator, combined under a tapered game-phase blend.
package eval

import (
	"context"

	"github.com/talonchess/talon/pkg/board"
)

// Evaluator is a static position evaluator, always returning the score
// from the perspective of the side to move.
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) Score
}

// Incremental is implemented by Evaluators that carry internal state across
// Position.Make/Unmake (an NNUE-style accumulator) instead of recomputing
// everything on every Evaluate call. The search calls Reset once per root
// position and PrepareMove/CommitMove/RevertMove around every move it makes
// and unmakes while walking the tree below that root.
type Incremental interface {
	Evaluator

	// Reset establishes pos as the new baseline, discarding any pending
	// PrepareMove/CommitMove/RevertMove state. Called once per search root.
	Reset(pos *board.Position)

	// PrepareMove records whatever about m the Evaluator needs to update
	// its state incrementally, while pos is still in its pre-move state.
	// Must be called immediately before pos.Make(m) (via board.Game.PushMove).
	PrepareMove(pos *board.Position, m board.Move)

	// CommitMove applies the change prepared by PrepareMove, with pos
	// already in its post-move state. Pushes the pre-move state so a
	// matching RevertMove can restore it.
	CommitMove(pos *board.Position)

	// RevertMove restores the state saved by the most recent CommitMove not
	// yet reverted (LIFO, matching board.Game.PopMove).
	RevertMove()
}

// Material evaluates the nominal material balance for the side to move,
// ignoring everything else. It is cheap enough to use as a baseline.
type Material struct{}

func (Material) Evaluate(_ context.Context, pos *board.Position) Score {
	turn := pos.Turn()
	them := turn.Opponent()

	var s Score
	for p := board.Pawn; p <= board.King; p++ {
		diff := pos.PieceBoard(turn, p).Count() - pos.PieceBoard(them, p).Count()
		s += Score(diff) * NominalValue(p)
	}
	return s
}

// NominalValue is the absolute nominal value in pawns of a piece type. The
// king is given an arbitrary large value so SEE-style exchange ordering
// never treats losing it as an acceptable trade.
func NominalValue(p board.PieceType) Score {
	switch p {
	case board.Pawn:
		return 1
	case board.Knight, board.Bishop:
		return 3
	case board.Rook:
		return 5
	case board.Queen:
		return 9
	case board.King:
		return 100
	default:
		return 0
	}
}

// Sum combines several Evaluators by adding their scores, e.g. a primary
// evaluator plus a small amount of Random noise.
type Sum []Evaluator

func (s Sum) Evaluate(ctx context.Context, pos *board.Position) Score {
	var total Score
	for _, e := range s {
		total += e.Evaluate(ctx, pos)
	}
	return total
}

// NominalValueGain is the nominal material gain m achieves against pos
// (the position before m is made), used for fast move ordering
// (MVV-LVA-style) without a full evaluation.
func NominalValueGain(pos *board.Position, m board.Move) Score {
	var gain Score
	if m.IsCapture() {
		captured := board.Pawn
		if m.Flag() != board.FlagEnPassant {
			if pt, _, ok := pos.PieceAt(m.To()); ok {
				captured = pt
			}
		}
		gain += NominalValue(captured)
	}
	if m.IsPromotion() {
		gain += NominalValue(m.Promotion()) - NominalValue(board.Pawn)
	}
	return gain
}
