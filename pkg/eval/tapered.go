package eval

import (
	"context"

	"github.com/talonchess/talon/pkg/board"
)

// phaseWeight is the contribution of one instance of a piece type to the
// game phase; the total for a full board is 24 (4 knights+4 bishops = 8,
// 4 rooks = 8, 2 queens = 8), tapering from 256 (pure middlegame weight)
// down to 0 (pure endgame weight) as material comes off.
var phaseWeight = map[board.PieceType]int{
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
}

const maxPhase = 24

// Tapered is the engine's primary hand-crafted evaluator: material plus
// piece-square tables blended between middlegame and endgame weights by
// remaining material, plus mobility, king safety, bishop-pair, and pawn
// structure terms. It is the "classical" counterpart to the optional
// neural-network evaluator in pkg/eval/nn.
type Tapered struct {
	Pawns *PawnCache
}

func NewTapered() *Tapered {
	return &Tapered{Pawns: NewPawnCache()}
}

func (t *Tapered) Evaluate(_ context.Context, pos *board.Position) Score {
	phase := 0
	for pt, w := range phaseWeight {
		for c := board.ZeroColor; c < board.NumColors; c++ {
			phase += pos.PieceBoard(c, pt).Count() * w
		}
	}
	if phase > maxPhase {
		phase = maxPhase
	}
	mgWeight := phase * 256 / maxPhase

	var s Score
	occ := pos.Occupied()

	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)

		for pt := board.Pawn; pt <= board.King; pt++ {
			bb := pos.PieceBoard(c, pt)
			for bb != 0 {
				sq, rest := bb.Pop()
				bb = rest
				s += sign * (NominalValue(pt)*100 + Score(psqtValue(pt, c, sq, mgWeight))) / 100
			}
		}

		if pos.PieceBoard(c, board.Bishop).Count() >= 2 {
			s += sign * 0.3
		}

		s += sign * mobilityScore(pos, c, occ, mgWeight)
		s += sign * kingSafetyScore(pos, c, occ, mgWeight)
	}

	s += pawnStructureScore(pos, t.Pawns)

	if pos.Turn() == board.Black {
		s = -s
	}
	return s
}

// mobilityScore counts pseudo-legal destination squares for c's knights,
// bishops, rooks, and queens, weighted more heavily in the middlegame
// where piece activity matters most.
func mobilityScore(pos *board.Position, c board.Color, occ board.Bitboard, mgWeight int) Score {
	own := pos.OccupiedBy(c)
	var mobility int
	for pt := board.Knight; pt <= board.Queen; pt++ {
		bb := pos.PieceBoard(c, pt)
		for bb != 0 {
			sq, rest := bb.Pop()
			bb = rest
			mobility += (board.AttackBoard(pt, c, sq, occ) &^ own).Count()
		}
	}
	weight := 0.01 + Score(mgWeight)/256*0.01
	return Score(mobility) * weight
}

// kingSafetyScore penalizes each empty square adjacent to c's king and
// each of c's pieces pinned to it, weighted down in the endgame where the king should centralize
// and activate instead of sheltering.
func kingSafetyScore(pos *board.Position, c board.Color, occ board.Bitboard, mgWeight int) Score {
	king := pos.King(c)
	shield := board.KingAttackBoard(king)
	open := shield &^ occ
	weight := Score(mgWeight) / 256

	pins := FindPins(pos, c, board.King)
	return -Score(open.Count())*0.05*weight - Score(len(pins))*0.1*weight
}
