package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepetitionCountIgnoresFirstOccurrence(t *testing.T) {
	g := NewGame()
	m, err := ParseMove(g.Position(), "g1f3")
	require.NoError(t, err)
	g.PushMove(m)

	// A single reversible move reaching a position for the first time ever
	// must count as one occurrence, not two.
	assert.Equal(t, 1, g.RepetitionCount())
}

func TestRepetitionCountDetectsActualRepeat(t *testing.T) {
	g, err := NewGameFromFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	shuffle := []string{"e1d1", "e8d8", "d1e1", "d8e8", "e1d1"}
	for _, s := range shuffle {
		m, err := ParseMove(g.Position(), s)
		require.NoError(t, err)
		g.PushMove(m)
	}

	// The final e1d1 recreates the exact position reached after the first
	// e1d1: white king on d1, black king on e8. That is a genuine second
	// occurrence.
	assert.Equal(t, 2, g.RepetitionCount())
}
