package eval

import "github.com/talonchess/talon/pkg/board"

// Pin represents one pinned piece: Pinned cannot move off the
// Attacker-Target line without exposing Target to Attacker.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns every pin against a piece of the given type and color.
func FindPins(pos *board.Position, side board.Color, piece board.PieceType) []Pin {
	var ret []Pin
	occ := pos.Occupied()
	opp := side.Opponent()

	for bb := pos.PieceBoard(side, piece); bb != 0; {
		target, rest := bb.Pop()
		bb = rest

		rookRay := board.RookAttackBoard(target, occ)
		for pins := rookRay & pos.OccupiedBy(side); pins != 0; {
			pinned, rest2 := pins.Pop()
			pins = rest2

			withoutPinned := occ.Clear(pinned)
			behind := board.RookAttackBoard(target, withoutPinned) &^ rookRay
			attackers := behind & (pos.PieceBoard(opp, board.Rook) | pos.PieceBoard(opp, board.Queen))
			if attackers != 0 {
				ret = append(ret, Pin{Attacker: attackers.LSB(), Pinned: pinned, Target: target})
			}
		}

		bishopRay := board.BishopAttackBoard(target, occ)
		for pins := bishopRay & pos.OccupiedBy(side); pins != 0; {
			pinned, rest2 := pins.Pop()
			pins = rest2

			withoutPinned := occ.Clear(pinned)
			behind := board.BishopAttackBoard(target, withoutPinned) &^ bishopRay
			attackers := behind & (pos.PieceBoard(opp, board.Bishop) | pos.PieceBoard(opp, board.Queen))
			if attackers != 0 {
				ret = append(ret, Pin{Attacker: attackers.LSB(), Pinned: pinned, Target: target})
			}
		}
	}

	return ret
}
