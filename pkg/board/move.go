package board

import "fmt"

// Move is a packed 16-bit encoding: bits 0-5 origin square, bits 6-11
// destination square, bits 12-15 a flag describing the move's special
// behavior (capture, promotion piece, castle, en-passant, double pawn
// push). Packing the move into a single machine word keeps move lists and
// the transposition table's best-move slot cheap to copy and compare.
type Move uint16

const (
	moveFromShift = 0
	moveToShift   = 6
	moveFlagShift = 12

	moveFromMask = 0x3F
	moveToMask   = 0x3F
	moveFlagMask = 0xF
)

// MoveFlag occupies the top 4 bits of a Move.
type MoveFlag uint8

const (
	FlagQuiet MoveFlag = iota
	FlagDoublePawnPush
	FlagKingCastle
	FlagQueenCastle
	FlagCapture
	FlagEnPassant
	_
	_
	FlagPromoKnight
	FlagPromoBishop
	FlagPromoRook
	FlagPromoQueen
	FlagPromoCaptureKnight
	FlagPromoCaptureBishop
	FlagPromoCaptureRook
	FlagPromoCaptureQueen
)

// NoMove is the zero value, indistinguishable in isolation from a1-a1;
// callers must never construct or compare against it as a legal move.
const NoMove Move = 0

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(uint16(from)<<moveFromShift | uint16(to)<<moveToShift | uint16(flag)<<moveFlagShift)
}

func (m Move) From() Square {
	return Square((m >> moveFromShift) & moveFromMask)
}

func (m Move) To() Square {
	return Square((m >> moveToShift) & moveToMask)
}

func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> moveFlagShift) & moveFlagMask)
}

func (f MoveFlag) IsCapture() bool {
	return f == FlagCapture || f == FlagEnPassant || f >= FlagPromoCaptureKnight
}

func (f MoveFlag) IsPromotion() bool {
	return f >= FlagPromoKnight
}

func (f MoveFlag) IsCastle() bool {
	return f == FlagKingCastle || f == FlagQueenCastle
}

// PromotionPiece returns the piece type a promotion flag produces. Only
// valid when IsPromotion() is true.
func (f MoveFlag) PromotionPiece() PieceType {
	switch f {
	case FlagPromoKnight, FlagPromoCaptureKnight:
		return Knight
	case FlagPromoBishop, FlagPromoCaptureBishop:
		return Bishop
	case FlagPromoRook, FlagPromoCaptureRook:
		return Rook
	case FlagPromoQueen, FlagPromoCaptureQueen:
		return Queen
	default:
		return NoPiece
	}
}

func (m Move) IsCapture() bool {
	return m.Flag().IsCapture()
}

func (m Move) IsPromotion() bool {
	return m.Flag().IsPromotion()
}

func (m Move) IsCastle() bool {
	return m.Flag().IsCastle()
}

func (m Move) Promotion() PieceType {
	return m.Flag().PromotionPiece()
}

// String renders the move in long algebraic notation, e.g. "e2e4",
// "e7e8q". This is the UCI wire format for a move.
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	s := m.From().String() + m.To().String()
	if p := m.Promotion(); p != NoPiece {
		s += p.String()
	}
	return s
}

// ParseMove parses a long-algebraic move string against the legal moves of
// pos, since the flag bits (capture, en-passant, castle, which promotion)
// cannot be recovered from the squares alone.
func ParseMove(pos *Position, str string) (Move, error) {
	if len(str) < 4 || len(str) > 5 {
		return NoMove, fmt.Errorf("invalid move: %v", str)
	}
	from, err := ParseSquareStr(str[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %v: %w", str, err)
	}
	to, err := ParseSquareStr(str[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("invalid move %v: %w", str, err)
	}
	var promo PieceType
	if len(str) == 5 {
		p, ok := ParsePieceType(rune(str[4]))
		if !ok {
			return NoMove, fmt.Errorf("invalid promotion in move %v", str)
		}
		promo = p
	}

	var list MoveList
	pos.GenerateLegalMoves(&list)
	for i := 0; i < list.Len(); i++ {
		mv := list.At(i)
		if mv.From() != from || mv.To() != to {
			continue
		}
		if mv.IsPromotion() && mv.Promotion() != promo {
			continue
		}
		return mv, nil
	}
	return NoMove, fmt.Errorf("illegal move: %v", str)
}
