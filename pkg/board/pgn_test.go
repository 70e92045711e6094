package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGame = `[Event "Casual Game"]
[Site "?"]
[White "Alice"]
[Black "Bob"]
[Result "1-0"]

1. e4 e5 2. Nf3 {developing} Nc6 3. Bb5 a6 (3... Nf6 4. O-O) 4. Ba4 Nf6 5. O-O 1-0
`

func TestParsePGNReplaysMoves(t *testing.T) {
	g, err := ParsePGN(sampleGame)
	require.NoError(t, err)

	assert.Equal(t, "Alice", g.Tags["White"])
	assert.Equal(t, "1-0", g.Result)
	require.Len(t, g.Moves, 9)
	assert.Equal(t, "e2e4", g.Moves[0].String())
	assert.Equal(t, FlagKingCastle, g.Moves[8].Flag())
}

func TestEncodePGNRoundTrips(t *testing.T) {
	g, err := ParsePGN(sampleGame)
	require.NoError(t, err)

	out, err := EncodePGN(map[string]string{"White": "Alice", "Black": "Bob", "Result": "1-0"}, "", g.Moves, "1-0")
	require.NoError(t, err)

	again, err := ParsePGN(out)
	require.NoError(t, err)
	assert.Equal(t, g.Moves, again.Moves)
}
