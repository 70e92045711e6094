package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN for the standard chess starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// DecodeFEN parses Forsyth-Edwards Notation into a Position.
func DecodeFEN(s string) (*Position, error) {
	fields := strings.Fields(s)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen: expected at least 4 fields, got %d: %q", len(fields), s)
	}

	p := emptyPosition()

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen: expected 8 ranks, got %d: %q", len(ranks), fields[0])
	}
	for i, row := range ranks {
		r := Rank(7 - i)
		f := FileA
		for _, ch := range row {
			switch {
			case ch >= '1' && ch <= '8':
				f += File(ch - '0')
			default:
				pt, ok := ParsePieceType(ch)
				if !ok {
					return nil, fmt.Errorf("fen: invalid piece %q in %q", ch, s)
				}
				c := White
				if ch >= 'a' && ch <= 'z' {
					c = Black
				}
				if !f.IsValid() {
					return nil, fmt.Errorf("fen: rank overflow in %q", row)
				}
				p.addPiece(c, pt, NewSquare(f, r))
				f++
			}
		}
	}

	switch fields[1] {
	case "w":
		p.turn = White
	case "b":
		p.turn = Black
		p.hash ^= zobristTurn()
	default:
		return nil, fmt.Errorf("fen: invalid side to move %q", fields[1])
	}

	if fields[2] != "-" {
		for _, ch := range fields[2] {
			switch ch {
			case 'K':
				p.castling |= WhiteKingSide
			case 'Q':
				p.castling |= WhiteQueenSide
			case 'k':
				p.castling |= BlackKingSide
			case 'q':
				p.castling |= BlackQueenSide
			default:
				return nil, fmt.Errorf("fen: invalid castling right %q", ch)
			}
		}
	}
	p.hash ^= zobristCastling(p.castling)

	p.enPassant = NoSquare
	if fields[3] != "-" {
		sq, err := ParseSquareStr(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid en-passant square: %w", err)
		}
		p.enPassant = sq
		p.hash ^= zobristEnPassant(sq.File())
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid halfmove clock: %w", err)
		}
		p.halfmove = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("fen: invalid fullmove number: %w", err)
		}
		p.fullmove = n
	} else {
		p.fullmove = 1
	}

	return p, nil
}

// EncodeFEN renders the position as Forsyth-Edwards Notation.
func (p *Position) EncodeFEN() string {
	var sb strings.Builder

	for r := Rank8; ; r-- {
		empty := 0
		for f := FileA; f < NumFiles; f++ {
			sq := NewSquare(f, r)
			pt, c, ok := p.PieceAt(sq)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			ch := pt.String()
			if c == White {
				ch = strings.ToUpper(ch)
			}
			sb.WriteString(ch)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r == Rank1 {
			break
		}
		sb.WriteString("/")
	}

	sb.WriteString(" ")
	sb.WriteString(p.turn.String())

	sb.WriteString(" ")
	sb.WriteString(p.castling.String())

	sb.WriteString(" ")
	sb.WriteString(p.enPassant.String())

	sb.WriteString(fmt.Sprintf(" %d %d", p.halfmove, p.fullmove))

	return sb.String()
}
