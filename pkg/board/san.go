package board

import (
	"fmt"
	"strings"
)

// EncodeSAN renders m, legal in pos, in Standard Algebraic Notation,
// disambiguating by file, then rank, then both, only as far as needed to
// distinguish m from other legal moves of the same piece to the same
// square; pos must be the position m is played from, not the result of
// playing it. The check/mate suffix is computed by making the move.
func EncodeSAN(pos *Position, m Move) string {
	if m.Flag() == FlagKingCastle {
		return appendCheckSuffix(pos, m, "O-O")
	}
	if m.Flag() == FlagQueenCastle {
		return appendCheckSuffix(pos, m, "O-O-O")
	}

	pt, _, _ := pos.PieceAt(m.From())

	var sb strings.Builder
	if pt != Pawn {
		sb.WriteString(strings.ToUpper(pt.String()))
		sb.WriteString(disambiguation(pos, m, pt))
	} else if m.IsCapture() {
		sb.WriteString(m.From().File().String())
	}

	if m.IsCapture() {
		sb.WriteString("x")
	}
	sb.WriteString(m.To().String())

	if m.IsPromotion() {
		sb.WriteString("=")
		sb.WriteString(strings.ToUpper(m.Promotion().String()))
	}

	return appendCheckSuffix(pos, m, sb.String())
}

// disambiguation returns the SAN disambiguation fragment (empty, file,
// rank, or both) needed to distinguish m among every other legal move of
// a same-type piece landing on the same destination square.
func disambiguation(pos *Position, m Move, pt PieceType) string {
	var list MoveList
	pos.GenerateLegalMoves(&list)

	sameFile, sameRank, ambiguous := false, false, false
	for i := 0; i < list.Len(); i++ {
		other := list.At(i)
		if other == m || other.To() != m.To() {
			continue
		}
		op, _, _ := pos.PieceAt(other.From())
		if op != pt {
			continue
		}
		ambiguous = true
		if other.From().File() == m.From().File() {
			sameFile = true
		}
		if other.From().Rank() == m.From().Rank() {
			sameRank = true
		}
	}
	switch {
	case !ambiguous:
		return ""
	case !sameFile:
		return m.From().File().String()
	case !sameRank:
		return m.From().Rank().String()
	default:
		return m.From().String()
	}
}

// appendCheckSuffix makes m against pos to determine whether it delivers
// check or checkmate, appending "+" or "#" to san accordingly, then
// unmakes it so pos is left unchanged.
func appendCheckSuffix(pos *Position, m Move, san string) string {
	u := pos.Make(m)
	inCheck := pos.IsChecked(pos.Turn())
	mate := inCheck && !pos.HasLegalMove()
	pos.Unmake(m, u)

	switch {
	case mate:
		return san + "#"
	case inCheck:
		return san + "+"
	default:
		return san
	}
}

// ParseSAN parses a SAN move string, legal in pos, into a Move. It accepts
// disambiguation, captures, promotions, castling, and an optional trailing
// check/mate suffix (ignored, since it's derivable rather than load-bearing).
func ParseSAN(pos *Position, san string) (Move, error) {
	s := strings.TrimRight(san, "+#!?")
	if s == "" {
		return NoMove, fmt.Errorf("san: empty move")
	}

	us := pos.Turn()
	if s == "O-O" || s == "0-0" {
		return findCastle(pos, us, FlagKingCastle)
	}
	if s == "O-O-O" || s == "0-0-0" {
		return findCastle(pos, us, FlagQueenCastle)
	}

	pt := Pawn
	rest := s
	if r := rune(s[0]); r >= 'A' && r <= 'Z' {
		parsed, ok := ParsePieceType(r)
		if !ok {
			return NoMove, fmt.Errorf("san: invalid piece letter %q in %q", r, san)
		}
		pt = parsed
		rest = s[1:]
	}

	var promo PieceType
	if i := strings.IndexByte(rest, '='); i >= 0 {
		p, ok := ParsePieceType(rune(rest[i+1]))
		if !ok {
			return NoMove, fmt.Errorf("san: invalid promotion in %q", san)
		}
		promo = p
		rest = rest[:i]
	}

	rest = strings.ReplaceAll(rest, "x", "")
	if len(rest) < 2 {
		return NoMove, fmt.Errorf("san: malformed move %q", san)
	}

	to, err := ParseSquareStr(rest[len(rest)-2:])
	if err != nil {
		return NoMove, fmt.Errorf("san: invalid destination in %q: %w", san, err)
	}
	disambig := rest[:len(rest)-2]

	var fromFile File
	haveFile := false
	var fromRank Rank
	haveRank := false
	for _, r := range disambig {
		if f, ok := ParseFile(r); ok {
			fromFile, haveFile = f, true
			continue
		}
		if rk, ok := ParseRank(r); ok {
			fromRank, haveRank = rk, true
			continue
		}
		return NoMove, fmt.Errorf("san: invalid disambiguation %q in %q", disambig, san)
	}

	var list MoveList
	pos.GenerateLegalMoves(&list)

	var match Move
	found := 0
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.To() != to {
			continue
		}
		mpt, _, _ := pos.PieceAt(m.From())
		if mpt != pt {
			continue
		}
		if haveFile && m.From().File() != fromFile {
			continue
		}
		if haveRank && m.From().Rank() != fromRank {
			continue
		}
		if m.IsPromotion() && m.Promotion() != promo {
			continue
		}
		if !m.IsPromotion() && promo != NoPiece {
			continue
		}
		match = m
		found++
	}
	if found == 0 {
		return NoMove, fmt.Errorf("san: no legal move matches %q", san)
	}
	if found > 1 {
		return NoMove, fmt.Errorf("san: ambiguous move %q", san)
	}
	return match, nil
}

func findCastle(pos *Position, us Color, flag MoveFlag) (Move, error) {
	var list MoveList
	pos.GenerateLegalMoves(&list)
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		if m.Flag() == flag {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("san: castle not legal for %v", us)
}
