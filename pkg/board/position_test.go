package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeFENRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"rnbqkbnr/pppp1ppp/8/4p3/4P3/8/PPPP1PPP/RNBQKBNR w KQkq e6 0 2",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"8/8/8/8/8/8/8/4K2k w - - 0 1",
	}
	for _, fen := range fens {
		pos, err := DecodeFEN(fen)
		require.NoError(t, err)
		assert.Equal(t, fen, pos.EncodeFEN())
	}
}

func TestMakeUnmakeRestoresHash(t *testing.T) {
	pos := NewPosition()
	var list MoveList
	pos.GenerateLegalMoves(&list)
	require.True(t, list.Len() > 0)

	before := pos.Hash()
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		u := pos.Make(m)
		pos.Unmake(m, u)
		assert.Equal(t, before, pos.Hash(), "hash not restored for move %v", m)
	}
}

func TestStartingPositionMoveCount(t *testing.T) {
	pos := NewPosition()
	var list MoveList
	pos.GenerateLegalMoves(&list)
	assert.Equal(t, 20, list.Len())
}

func TestCastlingRightsClearedOnRookCapture(t *testing.T) {
	// A black rook capturing the white rook on a1 should strip White's
	// queen-side castling right, and restore it on Unmake.
	pos2, err := DecodeFEN("r3k3/8/8/8/8/8/8/R3K3 b Qq - 0 1")
	require.NoError(t, err)
	mv := NewMove(A8, A1, FlagCapture)
	u := pos2.Make(mv)
	assert.False(t, pos2.Castling().IsAllowed(WhiteQueenSide))
	pos2.Unmake(mv, u)
	assert.True(t, pos2.Castling().IsAllowed(WhiteQueenSide))
}

// The six FENs and node counts below are the canonical perft positions
// widely used to validate move generators (starting position plus the
// five "Kiwipete"-lineage positions exercising castling, en passant,
// promotion, pins, and discovered checks together). Depths beyond what a
// short test run can afford are gated behind testing.Short(), the same
// way frankkopp-FrankyGo's movegen_test.go skips its expensive perft
// cases in short mode.

func TestPerftDepth3Start(t *testing.T) {
	pos := NewPosition()
	assert.Equal(t, 8902, perft(pos, 3))
}

func TestPerftDepth5Start(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	pos := NewPosition()
	assert.Equal(t, 4865609, perft(pos, 5))
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := DecodeFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 97862, perft(pos, 3))
}

func TestPerftDepth5Kiwipete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	pos, err := DecodeFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 193690690, perft(pos, 5))
}

func TestPerftDepth5Position3(t *testing.T) {
	pos, err := DecodeFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 674624, perft(pos, 5))
}

func TestPerftDepth5Position4(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	pos, err := DecodeFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, 15833292, perft(pos, 5))
}

func TestPerftDepth5Position5(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	pos, err := DecodeFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	require.NoError(t, err)
	assert.Equal(t, 89941194, perft(pos, 5))
}

func TestPerftDepth5Position6(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}
	pos, err := DecodeFEN("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	require.NoError(t, err)
	assert.Equal(t, 164075551, perft(pos, 5))
}

func perft(pos *Position, depth int) int {
	if depth == 0 {
		return 1
	}
	var list MoveList
	pos.GenerateLegalMoves(&list)
	if depth == 1 {
		return list.Len()
	}
	nodes := 0
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)
		u := pos.Make(m)
		nodes += perft(pos, depth-1)
		pos.Unmake(m, u)
	}
	return nodes
}

func TestFoolsMateIsCheckmate(t *testing.T) {
	g := NewGame()
	moves := []string{"f2f3", "e7e5", "g2g4", "d8h4"}
	for _, ms := range moves {
		m, err := ParseMove(g.Position(), ms)
		require.NoError(t, err, ms)
		g.PushMove(m)
	}
	res := g.AdjudicateNoLegalMoves()
	assert.True(t, res.IsDecided())
	assert.Equal(t, BlackWins, res.Outcome)
	assert.Equal(t, Checkmate, res.Reason)
}
