package eval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talonchess/talon/pkg/board"
)

func TestBackwardPawnPenalized(t *testing.T) {
	// White's d2 pawn has no neighbor on c or e level with or behind it and
	// its stop square d3 is covered by black's pawn on e4, so it is
	// backward. Black's e4 pawn is backed up by d5, so only White is
	// penalized.
	pos, err := board.DecodeFEN("4k3/8/8/3p4/4p3/8/3P4/4K3 w - - 0 1")
	require.NoError(t, err)
	s := pawnStructureScore(pos, nil)
	assert.Less(t, float64(s), 0.0)
}

func TestPawnWithRearNeighborIsNotBackward(t *testing.T) {
	// The c2 pawn behind d3 can still advance to back it up, so d3 isn't
	// backward even though its stop square is covered.
	pos, err := board.DecodeFEN("4k3/8/8/4p3/8/3P4/2P5/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, isBackwardPawn(board.D3, board.White, pos.PieceBoard(board.White, board.Pawn), pos.PieceBoard(board.Black, board.Pawn)))
}

func TestPawnWithOpenStopSquareIsNotBackward(t *testing.T) {
	pos, err := board.DecodeFEN("4k3/8/8/8/8/8/3P4/4K3 w - - 0 1")
	require.NoError(t, err)
	assert.False(t, isBackwardPawn(board.D2, board.White, pos.PieceBoard(board.White, board.Pawn), pos.PieceBoard(board.Black, board.Pawn)))
}
