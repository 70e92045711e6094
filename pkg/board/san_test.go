package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSANRoundTripFromStart(t *testing.T) {
	g := NewGame()
	lines := []string{"e4", "e5", "Nf3", "Nc6", "Bb5", "a6", "Ba4", "Nf6", "O-O"}
	for _, san := range lines {
		m, err := ParseSAN(g.Position(), san)
		require.NoError(t, err, san)
		assert.Equal(t, san, EncodeSAN(g.Position(), m))
		g.PushMove(m)
	}
}

func TestSANDisambiguatesByFile(t *testing.T) {
	pos, err := DecodeFEN("4k3/8/8/8/8/8/4K3/R6R w - - 0 1")
	require.NoError(t, err)

	m, err := ParseSAN(pos, "Rad1")
	require.NoError(t, err)
	assert.Equal(t, A1, m.From())
	assert.Equal(t, "Rad1", EncodeSAN(pos, m))
}

func TestSANCheckmateSuffix(t *testing.T) {
	pos, err := DecodeFEN("6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	require.NoError(t, err)

	m, err := ParseMove(pos, "a1a8")
	require.NoError(t, err)
	assert.Equal(t, "Ra8#", EncodeSAN(pos, m))
}

func TestSANPromotion(t *testing.T) {
	pos, err := DecodeFEN("8/P6k/8/8/8/8/7K/8 w - - 0 1")
	require.NoError(t, err)

	m, err := ParseSAN(pos, "a8=Q")
	require.NoError(t, err)
	assert.True(t, m.IsPromotion())
	assert.Equal(t, Queen, m.Promotion())
	assert.Equal(t, "a8=Q", EncodeSAN(pos, m))
}
