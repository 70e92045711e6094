package board

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movesAsStrings(list *MoveList) []string {
	out := make([]string, list.Len())
	for i := 0; i < list.Len(); i++ {
		out[i] = list.At(i).String()
	}
	sort.Strings(out)
	return out
}

// assertFastPathMatches cross-checks GenerateLegalMovesFast against the
// pseudo-legal-generate-then-verify GenerateLegalMoves for pos itself and
// recursively for every position reachable within depth plies, so pins and
// checks that only appear a few moves into a line get exercised too.
func assertFastPathMatches(t *testing.T, pos *Position, depth int) {
	t.Helper()

	var want, got MoveList
	pos.GenerateLegalMoves(&want)
	pos.GenerateLegalMovesFast(&got)

	assert.Equal(t, movesAsStrings(&want), movesAsStrings(&got), "fast path move set diverged for %s", pos.EncodeFEN())

	if depth == 0 {
		return
	}
	for i := 0; i < want.Len(); i++ {
		m := want.At(i)
		u := pos.Make(m)
		assertFastPathMatches(t, pos, depth-1)
		pos.Unmake(m, u)
	}
}

func TestGenerateLegalMovesFastMatchesSlowPathStart(t *testing.T) {
	assertFastPathMatches(t, NewPosition(), 3)
}

func TestGenerateLegalMovesFastMatchesSlowPathKiwipete(t *testing.T) {
	pos, err := DecodeFEN("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 2)
}

func TestGenerateLegalMovesFastMatchesSlowPathPosition3(t *testing.T) {
	pos, err := DecodeFEN("8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 3)
}

func TestGenerateLegalMovesFastMatchesSlowPathPosition4(t *testing.T) {
	pos, err := DecodeFEN("r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 2)
}

func TestGenerateLegalMovesFastMatchesSlowPathPosition5(t *testing.T) {
	pos, err := DecodeFEN("rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 3)
}

func TestGenerateLegalMovesFastMatchesSlowPathPosition6(t *testing.T) {
	pos, err := DecodeFEN("r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 2)
}

func TestGenerateLegalMovesFastSingleCheckFromSlider(t *testing.T) {
	// Black rook on h4 checks the white king along the 4th rank; only
	// blocking with the knight, capturing the rook, or moving the king
	// resolves it.
	pos, err := DecodeFEN("4k3/8/8/8/4K2r/8/4P1N1/8 w - - 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 1)
}

func TestGenerateLegalMovesFastDoubleCheck(t *testing.T) {
	// White king in check from both the rook on e8's file and the knight on
	// d3 (discovered by a prior knight move): only king moves are legal.
	pos, err := DecodeFEN("4r3/8/8/8/8/3n4/8/4K3 w - - 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 0)
}

func TestGenerateLegalMovesFastPinnedPiece(t *testing.T) {
	// White knight on d2 is pinned to the king on e1 by the bishop on b4;
	// it has no legal moves, but everything else on the board still does.
	pos, err := DecodeFEN("4k3/8/8/8/1b6/8/3N4/4K3 w - - 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 1)
}

func TestGenerateLegalMovesFastEnPassantDiscoveredCheck(t *testing.T) {
	// Capturing en passant would remove both the c4 and d4 pawns from the
	// 4th rank, exposing the black king on a4 to the white rook on h4 — the
	// capture must be excluded even though neither pawn is individually
	// pinned beforehand.
	pos, err := DecodeFEN("8/8/8/8/k1pP3R/8/8/4K3 b - d3 0 1")
	require.NoError(t, err)
	assertFastPathMatches(t, pos, 0)
}
