package eval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/pkg/board"
)

func TestMaterialIsZeroAtStart(t *testing.T) {
	pos := board.NewPosition()
	s := Material{}.Evaluate(context.Background(), pos)
	assert.Equal(t, Score(0), s)
}

func TestMaterialFavorsExtraQueen(t *testing.T) {
	pos, err := board.DecodeFEN("4k3/8/8/8/8/8/8/3QK3 w - - 0 1")
	require.NoError(t, err)
	s := Material{}.Evaluate(context.Background(), pos)
	assert.Equal(t, Score(9), s)
}

func TestMateScoreRoundTrip(t *testing.T) {
	// MateScore and MatedScore take plies; MateIn reports full moves.
	s := MateScore(5)
	assert.True(t, s.IsMate())
	assert.Equal(t, 3, s.MateIn())

	matedS := MatedScore(4)
	assert.True(t, matedS.IsMate())
	assert.Equal(t, -2, matedS.MateIn())
}

func TestKingSafetyPenalizesPinnedDefender(t *testing.T) {
	// White's knight on d2 is pinned to the king on e1 by the bishop on b4;
	// an otherwise identical position without the pin should score higher
	// for White.
	pinned, err := board.DecodeFEN("4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1")
	require.NoError(t, err)
	unpinned, err := board.DecodeFEN("4k3/8/8/8/1b6/8/4N3/4K3 w - - 0 1")
	require.NoError(t, err)

	pinnedScore := kingSafetyScore(pinned, board.White, pinned.Occupied(), 256)
	unpinnedScore := kingSafetyScore(unpinned, board.White, unpinned.Occupied(), 256)
	assert.Less(t, float64(pinnedScore), float64(unpinnedScore))
}

func TestTaperedEvaluationIsSymmetricForMirroredPosition(t *testing.T) {
	white, err := board.DecodeFEN("4k3/8/8/8/8/8/8/R3K3 w Q - 0 1")
	require.NoError(t, err)
	black, err := board.DecodeFEN("r3k3/8/8/8/8/8/8/4K3 b q - 0 1")
	require.NoError(t, err)

	te := NewTapered()
	ws := te.Evaluate(context.Background(), white)
	te2 := NewTapered()
	bs := te2.Evaluate(context.Background(), black)

	assert.InDelta(t, float64(ws), float64(bs), 0.5)
}
