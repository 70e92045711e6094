package eval

import (
	"context"
	"math/rand"

	"github.com/talonchess/talon/pkg/board"
)

// Random adds a small amount of noise to evaluations, in millipawns, to
// keep otherwise-tied play-outs from being perfectly deterministic. limit
// bounds the noise to [-limit/2, limit/2]; limit <= 0 disables it.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{limit: limit, rand: rand.New(rand.NewSource(seed))}
}

func (n Random) Evaluate(_ context.Context, _ *board.Position) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit)-n.limit/2) / 1000
}
