package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
)

// TestContemptScoresRepetitionDraw exercises negamax's draw-by-repetition
// branch directly (white-box, same package) rather than through Search,
// since at the root of a full search a side with any non-repeating legal
// move will always prefer it over a forced draw regardless of contempt,
// masking the effect. Calling negamax at ply 1 on a position that has
// already repeated isolates the branch under test.
func TestContemptScoresRepetitionDraw(t *testing.T) {
	g, err := board.NewGameFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	// e1d1 repeated after a round trip (e8d8, d1e1, d8e8) recreates the
	// exact position reached after the first e1d1: a genuine repetition,
	// not the position this game started from.
	shuffle := []string{"e1d1", "e8d8", "d1e1", "d8e8", "e1d1"}
	for _, s := range shuffle {
		m, err := board.ParseMove(g.Position(), s)
		require.NoError(t, err)
		g.PushMove(m)
	}
	require.GreaterOrEqual(t, g.RepetitionCount(), 2)

	score := func(contempt eval.Score) eval.Score {
		r := &run{
			game:    g,
			tt:      NoTranspositionTable{},
			killers: NewKillers(),
			history: NewHistory(),
			eval:    eval.Material{},
		}
		r.contempt = contempt
		return r.negamax(1, 1, eval.NegInf, eval.Inf, true)
	}

	assert.Equal(t, eval.Score(0), score(0))
	assert.Equal(t, eval.Score(-1), score(1))
}
