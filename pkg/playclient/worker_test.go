package playclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/engine"
)

func TestApplyStateReplaysOnlyNewMovesForSameGame(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "test")

	gs := applyState(ctx, e, Event{Type: EventGameStarted, PlayingAs: "white"}, gameState{})
	assert.Equal(t, board.White, gs.us)
	assert.Equal(t, 0, e.Game().Len())

	gs = applyState(ctx, e, Event{Type: EventGameState, Moves: []string{"e2e4"}}, gs)
	require.Equal(t, 1, e.Game().Len())
	assert.Equal(t, "e2e4", e.Game().Moves()[0].String())

	// A second update appending one more move should only replay that move,
	// not rebuild the game (and with it, the engine's transposition table).
	gs = applyState(ctx, e, Event{Type: EventGameState, Moves: []string{"e2e4", "e7e5"}}, gs)
	require.Equal(t, 2, e.Game().Len())
	assert.Equal(t, "e7e5", e.Game().Moves()[1].String())
}

func TestApplyStateResetsOnNewPosition(t *testing.T) {
	ctx := context.Background()
	e := engine.New(ctx, "test", "test")

	gs := applyState(ctx, e, Event{Type: EventGameStarted, Moves: []string{"e2e4", "e7e5"}}, gameState{})
	require.Equal(t, 2, e.Game().Len())

	// A brand new game (different FEN, fewer moves) must trigger a full
	// reset rather than trying to diff against the prior game's moves.
	fen := "rnbqkbnr/pppppppp/8/8/8/4P3/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	gs = applyState(ctx, e, Event{Type: EventGameStarted, FEN: fen, Moves: nil}, gs)
	assert.Equal(t, 0, e.Game().Len())
	assert.Equal(t, fen, e.Position())
}
