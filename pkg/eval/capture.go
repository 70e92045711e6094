package eval

import (
	"sort"

	"github.com/talonchess/talon/pkg/board"
)

// FindCapture returns every piece of side that directly attacks sq,
// computed via the same magic-bitboard attack tables move generation
// uses, run in reverse from the target square.
func FindCapture(pos *board.Position, side board.Color, sq board.Square) []board.Placement {
	var ret []board.Placement
	occ := pos.Occupied()

	for bb := board.KnightAttackBoard(sq) & pos.PieceBoard(side, board.Knight); bb != 0; {
		from, rest := bb.Pop()
		bb = rest
		ret = append(ret, board.Placement{Piece: board.Knight, Color: side, Square: from})
	}
	for bb := board.KingAttackBoard(sq) & pos.PieceBoard(side, board.King); bb != 0; {
		from, rest := bb.Pop()
		bb = rest
		ret = append(ret, board.Placement{Piece: board.King, Color: side, Square: from})
	}
	rookLike := board.RookAttackBoard(sq, occ) & (pos.PieceBoard(side, board.Rook) | pos.PieceBoard(side, board.Queen))
	for bb := rookLike; bb != 0; {
		from, rest := bb.Pop()
		bb = rest
		pt := board.Rook
		if pos.PieceBoard(side, board.Queen).IsSet(from) {
			pt = board.Queen
		}
		ret = append(ret, board.Placement{Piece: pt, Color: side, Square: from})
	}
	bishopLike := board.BishopAttackBoard(sq, occ) & (pos.PieceBoard(side, board.Bishop) | pos.PieceBoard(side, board.Queen))
	for bb := bishopLike; bb != 0; {
		from, rest := bb.Pop()
		bb = rest
		pt := board.Bishop
		if pos.PieceBoard(side, board.Queen).IsSet(from) {
			pt = board.Queen
		}
		if containsPlacement(ret, from) {
			continue
		}
		ret = append(ret, board.Placement{Piece: pt, Color: side, Square: from})
	}
	// Pawn attacks are directional: a pawn of `side` attacks sq if sq lies
	// in the capture set cast from the pawn's own square, so we probe from
	// sq using the opposite color's capture direction.
	for bb := board.PawnAttackBoard(side.Opponent(), sq) & pos.PieceBoard(side, board.Pawn); bb != 0; {
		from, rest := bb.Pop()
		bb = rest
		ret = append(ret, board.Placement{Piece: board.Pawn, Color: side, Square: from})
	}

	return ret
}

func containsPlacement(list []board.Placement, sq board.Square) bool {
	for _, p := range list {
		if p.Square == sq {
			return true
		}
	}
	return false
}

// SortByNominalValue orders pieces by ascending nominal material value, the
// usual "attack with your least valuable piece first" exchange ordering.
func SortByNominalValue(pieces []board.Placement) []board.Placement {
	sort.SliceStable(pieces, func(i, j int) bool {
		return NominalValue(pieces[i].Piece) < NominalValue(pieces[j].Piece)
	})
	return pieces
}
