package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/pkg/board"
)

// randomWeights builds a network wide enough to index every feature
// FeatureIndex can produce (64 king squares * 64 piece squares * 10
// piece/color combinations), filled with deterministic pseudo-random
// int16s so a parity check can't accidentally pass on all-zero weights.
func randomWeights() *Weights {
	const hidden = 4
	input := 64 * 64 * 10

	rng := rand.New(rand.NewSource(1))
	iw := make([]int16, input*hidden)
	for i := range iw {
		iw[i] = int16(rng.Intn(200) - 100)
	}
	ib := make([]int16, hidden)
	for i := range ib {
		ib[i] = int16(rng.Intn(200) - 100)
	}
	ow := make([]int8, hidden)
	for i := range ow {
		ow[i] = int8(rng.Intn(40) - 20)
	}

	return &Weights{
		Dims:          Dims{Input: int32(input), Hidden: hidden, Output: 1},
		InputWeights:  iw,
		InputBias:     ib,
		OutputWeights: ow,
		OutputBias:    7,
	}
}

func assertAccumulatorMatchesRefresh(t *testing.T, e *Evaluator, pos *board.Position) {
	t.Helper()
	want := NewAccumulator(e.weights)
	want.Refresh(e.weights, pos)
	assert.Equal(t, want.values[board.White], e.acc.values[board.White], "white perspective diverged from a from-scratch refresh")
	assert.Equal(t, want.values[board.Black], e.acc.values[board.Black], "black perspective diverged from a from-scratch refresh")
}

// TestEvaluatorIncrementalMatchesRefresh plays a line covering a capture,
// a king-side castle, and a two-square pawn push past en passant, checking
// after every PrepareMove/CommitMove that the incrementally updated
// accumulator is exactly what a from-scratch Refresh would produce
// (spec's promised incremental/refresh equivalence), then unwinds the
// whole line via RevertMove and checks the accumulator lands back at the
// start position's refreshed value too.
func TestEvaluatorIncrementalMatchesRefresh(t *testing.T) {
	w := randomWeights()
	e := &Evaluator{weights: w, acc: NewAccumulator(w)}

	game, err := board.NewGameFromFEN(board.StartFEN)
	require.NoError(t, err)

	e.Reset(game.Position())
	assertAccumulatorMatchesRefresh(t, e, game.Position())

	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1b5", "a7a6", "b5c6", "d7c6", "e1g1"}
	for _, s := range moves {
		pos := game.Position()
		m, err := board.ParseMove(pos, s)
		require.NoError(t, err)

		e.PrepareMove(pos, m)
		game.PushMove(m)
		e.CommitMove(pos)

		assertAccumulatorMatchesRefresh(t, e, game.Position())
	}

	for range moves {
		e.RevertMove()
		game.PopMove()
	}
	assertAccumulatorMatchesRefresh(t, e, game.Position())
}

// TestEvaluatorIncrementalMatchesRefreshEnPassant isolates the en-passant
// capture case, which removes a piece from a square the move itself
// neither starts nor ends on.
func TestEvaluatorIncrementalMatchesRefreshEnPassant(t *testing.T) {
	w := randomWeights()
	e := &Evaluator{weights: w, acc: NewAccumulator(w)}

	game, err := board.NewGameFromFEN("rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	require.NoError(t, err)

	e.Reset(game.Position())

	pos := game.Position()
	m, err := board.ParseMove(pos, "e5f6")
	require.NoError(t, err)

	e.PrepareMove(pos, m)
	game.PushMove(m)
	e.CommitMove(pos)

	assertAccumulatorMatchesRefresh(t, e, game.Position())

	e.RevertMove()
	game.PopMove()
	assertAccumulatorMatchesRefresh(t, e, game.Position())
}

// TestEvaluatorIncrementalMatchesRefreshPromotion isolates a capturing
// promotion, the densest single move in terms of feature changes (pawn
// removed, promoted piece added, captured piece removed).
func TestEvaluatorIncrementalMatchesRefreshPromotion(t *testing.T) {
	w := randomWeights()
	e := &Evaluator{weights: w, acc: NewAccumulator(w)}

	game, err := board.NewGameFromFEN("r3k3/1P6/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	e.Reset(game.Position())

	pos := game.Position()
	m, err := board.ParseMove(pos, "b7a8q")
	require.NoError(t, err)

	e.PrepareMove(pos, m)
	game.PushMove(m)
	e.CommitMove(pos)

	assertAccumulatorMatchesRefresh(t, e, game.Position())

	e.RevertMove()
	game.PopMove()
	assertAccumulatorMatchesRefresh(t, e, game.Position())
}
