package board

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMagicAttacksExhaustiveMaskSubsets cross-checks every rook and bishop
// magic lookup against an on-the-fly ray walk for every occupancy subset of
// that square's own relevant-occupancy mask — the exact set buildMagicTable
// enumerates when it populates the table. This is the correctness contract
// magic bitboards rely on: if a magic multiplier collides for that mask
// (two distinct subsets hash to the same table slot), the table silently
// keeps whichever subset init() happened to process last, and only a
// lookup against the other, overwritten subset would expose it. Walking
// every subset, not a random sample, is the only way to rule that out.
func TestMagicAttacksExhaustiveMaskSubsets(t *testing.T) {
	for s := ZeroSquare; s < NumSquares; s++ {
		rmask := relevantRookMask(s)
		for i := 0; i < 1<<uint(rmask.Count()); i++ {
			occ := indexToOccupancy(i, rmask)
			want := rookAttacksOnTheFly(s, occ)
			got := RookAttackBoard(s, occ)
			assert.Equalf(t, want, got, "rook attacks from %v diverge for mask subset %#016x", s, uint64(occ))
		}

		bmask := relevantBishopMask(s)
		for i := 0; i < 1<<uint(bmask.Count()); i++ {
			occ := indexToOccupancy(i, bmask)
			want := bishopAttacksOnTheFly(s, occ)
			got := BishopAttackBoard(s, occ)
			assert.Equalf(t, want, got, "bishop attacks from %v diverge for mask subset %#016x", s, uint64(occ))
		}
	}
}

// TestMagicAttacksMatchOnTheFlyRandomBoards repeats the check against fully
// random 64-bit occupancies, the shape a real Position.Occupied() call
// actually passes in (bits set outside the relevant mask too, which the
// magic index ignores but a regression in that masking would not).
func TestMagicAttacksMatchOnTheFlyRandomBoards(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for s := ZeroSquare; s < NumSquares; s++ {
		for i := 0; i < 500; i++ {
			occ := Bitboard(rng.Uint64())

			want := rookAttacksOnTheFly(s, occ)
			got := RookAttackBoard(s, occ)
			assert.Equalf(t, want, got, "rook attacks from %v diverge for occupancy %#016x", s, uint64(occ))

			want = bishopAttacksOnTheFly(s, occ)
			got = BishopAttackBoard(s, occ)
			assert.Equalf(t, want, got, "bishop attacks from %v diverge for occupancy %#016x", s, uint64(occ))
		}
	}
}
