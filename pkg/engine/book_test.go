package engine_test

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/engine"
)

func printMoves(moves []board.Move) string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	sort.Strings(strs)
	return strings.Join(strs, " ")
}

func TestBook(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{
		{"e2e4", "d7d5", "d2d4"},
		{"e2e4", "d7d6"},
		{"d2d4", "d7d6"},
	})
	require.NoError(t, err)

	tests := []struct {
		pos   string
		moves string
	}{
		{board.StartFEN, "d2d4 e2e4"},
		{"rnbqkbnr/pppppppp/8/8/3P4/8/PPP1PPPP/RNBQKBNR b KQkq d3 0 1", "d7d6"},
	}

	for _, tt := range tests {
		list, err := book.Find(ctx, tt.pos)
		assert.NoError(t, err)
		assert.Equal(t, tt.moves, printMoves(list))
	}
}

func TestNoBook(t *testing.T) {
	list, err := engine.NoBook.Find(context.Background(), board.StartFEN)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBookFromYAML(t *testing.T) {
	data := []byte(`
lines:
  - [e2e4, c7c5]
  - [e2e4, e7e5]
`)
	book, err := engine.NewBookFromYAML(data)
	require.NoError(t, err)

	list, err := book.Find(context.Background(), board.StartFEN)
	require.NoError(t, err)
	assert.Equal(t, "e2e4", printMoves(list))
}
