package eval

import "github.com/talonchess/talon/pkg/board"

const pawnHashSize = 1 << 14 // entries; 16K slots keeps the table small and cache-resident.

type pawnHashEntry struct {
	key   uint64
	score Score
}

// PawnCache memoizes pawn-structure evaluation keyed by the pawn-only
// subset of a position's Zobrist hash, since pawn structure changes far
// less often than the rest of the position and is comparatively expensive
// (file/rank scans for doubled, isolated, and passed pawns).
type PawnCache struct {
	entries []pawnHashEntry
}

func NewPawnCache() *PawnCache {
	return &PawnCache{entries: make([]pawnHashEntry, pawnHashSize)}
}

func (c *PawnCache) probe(key uint64) (Score, bool) {
	e := &c.entries[key%pawnHashSize]
	if e.key == key && key != 0 {
		return e.score, true
	}
	return 0, false
}

func (c *PawnCache) store(key uint64, s Score) {
	c.entries[key%pawnHashSize] = pawnHashEntry{key: key, score: s}
}

// pawnKey derives a hash over only the pawn bitboards, cheap enough to
// recompute per node rather than threading an incremental pawn hash
// through Make/Unmake.
func pawnKey(pos *board.Position) uint64 {
	var h uint64
	for c := board.ZeroColor; c < board.NumColors; c++ {
		bb := pos.PieceBoard(c, board.Pawn)
		for bb != 0 {
			s, rest := bb.Pop()
			bb = rest
			h ^= (uint64(c) + 1) * (0x9E3779B97F4A7C15 + uint64(s)*0x100000001B3)
		}
	}
	return h
}

// pawnStructureScore evaluates doubled pawns, isolated pawns, and passed
// pawns from White's perspective, cached in cache.
func pawnStructureScore(pos *board.Position, cache *PawnCache) Score {
	key := pawnKey(pos)
	if cache != nil {
		if s, ok := cache.probe(key); ok {
			return s
		}
	}

	var s Score
	for c := board.ZeroColor; c < board.NumColors; c++ {
		sign := Unit(c)
		own := pos.PieceBoard(c, board.Pawn)
		opp := pos.PieceBoard(c.Opponent(), board.Pawn)

		for f := board.FileA; f < board.NumFiles; f++ {
			onFile := own & board.FileBoard(f)
			n := onFile.Count()
			if n > 1 {
				s -= sign * Score(n-1) * 0.5 // doubled
			}
			if n > 0 {
				isolated := true
				if f > board.FileA && own&board.FileBoard(f-1) != 0 {
					isolated = false
				}
				if f < board.FileH && own&board.FileBoard(f+1) != 0 {
					isolated = false
				}
				if isolated {
					s -= sign * 0.2
				}
			}
		}

		for bb := own; bb != 0; {
			sq, rest := bb.Pop()
			bb = rest
			if isPassedPawn(sq, c, opp) {
				rank := sq.Rank()
				advance := rank.V()
				if c == board.Black {
					advance = 7 - advance
				}
				s += sign * Score(advance*advance) * 0.02
			}
			if isBackwardPawn(sq, c, own, opp) {
				s -= sign * 0.15
			}
		}
	}

	if cache != nil {
		cache.store(key, s)
	}
	return s
}

// isPassedPawn reports whether the pawn on sq of color c has no opposing
// pawn on its own or an adjacent file ahead of it.
func isPassedPawn(sq board.Square, c board.Color, oppPawns board.Bitboard) bool {
	f, r := sq.File(), sq.Rank()
	var mask board.Bitboard
	lo, hi := f, f
	if f > board.FileA {
		lo = f - 1
	}
	if f < board.FileH {
		hi = f + 1
	}
	for ff := lo; ff <= hi; ff++ {
		mask |= board.FileBoard(ff)
	}

	var ahead board.Bitboard
	if c == board.White {
		for rr := r + 1; rr < board.NumRanks; rr++ {
			ahead |= board.RankBoard(rr)
		}
	} else {
		for rr := int(r) - 1; rr >= 0; rr-- {
			ahead |= board.RankBoard(board.Rank(rr))
		}
	}

	return oppPawns&mask&ahead == 0
}

// isBackwardPawn reports whether the pawn on sq of color c cannot safely
// advance (its stop square is covered by an enemy pawn) and has no pawn of
// its own on an adjacent file level with or behind it to eventually back
// it up.
func isBackwardPawn(sq board.Square, c board.Color, ownPawns, oppPawns board.Bitboard) bool {
	f, r := sq.File(), sq.Rank()

	var stop board.Square
	var behind board.Bitboard
	if c == board.White {
		if r == board.NumRanks-1 {
			return false
		}
		stop = board.NewSquare(f, r+1)
		for rr := board.ZeroRank; rr <= r; rr++ {
			behind |= board.RankBoard(rr)
		}
	} else {
		if r == board.Rank1 {
			return false
		}
		stop = board.NewSquare(f, r-1)
		for rr := r; rr < board.NumRanks; rr++ {
			behind |= board.RankBoard(rr)
		}
	}

	if board.PawnAttackBoard(c, stop)&oppPawns == 0 {
		return false
	}

	var adjFiles board.Bitboard
	if f > board.FileA {
		adjFiles |= board.FileBoard(f - 1)
	}
	if f < board.FileH {
		adjFiles |= board.FileBoard(f + 1)
	}

	return ownPawns&adjFiles&behind == 0
}
