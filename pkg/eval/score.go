package eval

import (
	"fmt"

	"github.com/talonchess/talon/pkg/board"
)

// Score is a signed position or move score in pawns, positive favoring
// the side it is scored for (the side to move, for Evaluators and the
// search). Mate scores are encoded near the extremes of the range so that
// "closer to the horizon" mates sort as more extreme than distant ones:
// MateScore(ply) for a mate the side to move delivers in ply plies.
type Score float32

const (
	NegInf         = MinScore - 1
	MinScore Score = -1000000
	MaxScore Score = 1000000
	Inf            = MaxScore + 1

	mateScore    Score = 900000
	mateInMaxPly       = 1000
)

func (s Score) String() string {
	if s.IsMate() {
		return fmt.Sprintf("mate %d", s.MateIn())
	}
	return fmt.Sprintf("%.2f", s)
}

// MateScore returns the score for delivering mate in ply plies (ply=1
// means the side to move mates with its next move).
func MateScore(ply int) Score {
	return mateScore - Score(ply)
}

// MatedScore returns the score for being mated in ply plies.
func MatedScore(ply int) Score {
	return -mateScore + Score(ply)
}

// IsMate reports whether s encodes a forced mate in either direction.
func (s Score) IsMate() bool {
	return s > mateScore-mateInMaxPly || s < -mateScore+mateInMaxPly
}

// MateBound is the score beyond which a value encodes a forced mate in
// either direction (s >= MateBound or s <= -MateBound). The transposition
// table uses it to decide when a stored score needs mate-distance
// adjustment: a mate score is only valid relative to the ply it was found
// at, so it must be re-based by the current ply on every store and probe.
const MateBound = mateScore - mateInMaxPly

// MateIn returns the signed number of moves (not plies) to mate: positive
// if the side to move delivers it, negative if it is delivered against
// them. Only meaningful when IsMate() is true.
func (s Score) MateIn() int {
	if s > 0 {
		return int(mateScore-s+1) / 2
	}
	return -int(mateScore+s+1) / 2
}

// Unit returns the signed unit for the color: 1 for White, -1 for Black.
// Multiplying a side-relative score by Unit(c) converts it to White's
// perspective.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Crop clamps a Score into [MinScore, MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}

func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
