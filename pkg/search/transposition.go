package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/seekerror/logw"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
)

// Bound classifies how a stored score relates to the true value of the
// position: Exact is the true minimax value, LowerBound means the true
// value is at least the stored score (a beta cutoff occurred), UpperBound
// means the true value is at most the stored score (no move raised alpha).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash. Caveat:
// evaluation heuristics that depend on game history (e.g. repetition)
// aren't safe to cache this way; callers relying on those should route
// through WriteLimited with a minimum depth. Implementations must be
// thread-safe.
type TranspositionTable interface {
	// Read probes the table at hash. ply is the current search ply,
	// needed to re-base a stored mate score back into a value valid at
	// this node (see scoreFromTT).
	Read(hash uint64, ply int) (Bound, int, eval.Score, board.Move, bool)
	// Write stores an entry. ply re-bases a mate score into a
	// ply-independent value before it is stored (see scoreToTT).
	Write(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

	Size() uint64
	Used() float64
}

// scoreToTT re-bases a mate score found at ply plies from the current
// search root into a ply-independent value safe to store and reuse from
// any node: the spec's "mate-distance-normalized" storage contract.
func scoreToTT(s eval.Score, ply int) eval.Score {
	switch {
	case s >= eval.MateBound:
		return s + eval.Score(ply)
	case s <= -eval.MateBound:
		return s - eval.Score(ply)
	default:
		return s
	}
}

// scoreFromTT is scoreToTT's inverse, applied on probe to re-base a stored
// mate score back to the probing node's ply.
func scoreFromTT(s eval.Score, ply int) eval.Score {
	switch {
	case s >= eval.MateBound:
		return s - eval.Score(ply)
	case s <= -eval.MateBound:
		return s + eval.Score(ply)
	default:
		return s
	}
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// --- default: 4-slot aging bucket table ---

const slotsPerBucket = 4

type slot struct {
	hash  uint64
	score eval.Score
	from  board.Square
	to    board.Square
	promo board.PieceType
	bound Bound
	depth uint16
	gen   uint16
}

// bucketTable is the default TranspositionTable: each hash bucket holds
// slotsPerBucket candidate entries, and a write replaces the weakest of
// the four (oldest generation, then shallowest depth) rather than always
// overwriting index 0. This spreads collisions across a small associative
// set instead of the single-slot table's all-or-nothing replacement, at
// the cost of a per-bucket scan on every probe and a mutex instead of a
// single atomic pointer swap.
type bucketTable struct {
	mu      chan struct{} // 1-buffered channel used as a cheap non-reentrant mutex
	buckets [][slotsPerBucket]slot
	mask    uint64
	gen     uint16
	used    int
}

func NewTable(ctx context.Context, size uint64) TranspositionTable {
	entrySize := uint64(32)
	n := uint64(1) << uint(63-bits.LeadingZeros64(size/(entrySize*slotsPerBucket)+1))
	if n == 0 {
		n = 1
	}

	logw.Infof(ctx, "Allocating %vMB transposition table with %v buckets", size>>20, n)

	t := &bucketTable{
		mu:      make(chan struct{}, 1),
		buckets: make([][slotsPerBucket]slot, n),
		mask:    n - 1,
	}
	t.mu <- struct{}{}
	return t
}

func (t *bucketTable) lock()   { <-t.mu }
func (t *bucketTable) unlock() { t.mu <- struct{}{} }

// NewGeneration marks the start of a new search: older entries become
// progressively cheaper to evict, so a long-running game doesn't let
// stale deep entries from move 10 crowd out fresher shallow ones at move
// 60.
func (t *bucketTable) NewGeneration() {
	t.lock()
	t.gen++
	t.unlock()
}

func (t *bucketTable) Read(hash uint64, ply int) (Bound, int, eval.Score, board.Move, bool) {
	idx := hash & t.mask
	t.lock()
	defer t.unlock()

	bucket := &t.buckets[idx]
	for i := range bucket {
		s := &bucket[i]
		if s.hash == hash && s.depth > 0 {
			m := board.NoMove
			if s.from != s.to {
				m = moveFromSlot(s)
			}
			return s.bound, int(s.depth), scoreFromTT(s.score, ply), m, true
		}
	}
	return 0, 0, 0, board.NoMove, false
}

func moveFromSlot(s *slot) board.Move {
	flag := board.FlagQuiet
	if s.promo != board.NoPiece {
		switch s.promo {
		case board.Queen:
			flag = board.FlagPromoQueen
		case board.Rook:
			flag = board.FlagPromoRook
		case board.Bishop:
			flag = board.FlagPromoBishop
		case board.Knight:
			flag = board.FlagPromoKnight
		}
	}
	return board.NewMove(s.from, s.to, flag)
}

func (t *bucketTable) Write(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	idx := hash & t.mask
	t.lock()
	defer t.unlock()

	bucket := &t.buckets[idx]
	worst := 0
	worstVal := int(^uint(0) >> 1)
	for i := range bucket {
		s := &bucket[i]
		if s.depth == 0 {
			worst = i
			break
		}
		if s.hash == hash {
			worst = i
			break
		}
		v := int(s.gen)*1000 + int(s.depth)
		if v < worstVal {
			worstVal = v
			worst = i
		}
	}

	s := &bucket[worst]
	wasEmpty := s.depth == 0
	s.hash = hash
	s.bound = bound
	s.depth = uint16(depth)
	s.gen = t.gen
	s.score = scoreToTT(score, ply)
	if move != board.NoMove {
		s.from, s.to, s.promo = move.From(), move.To(), move.Promotion()
	}
	if wasEmpty {
		t.used++
	}
	return true
}

func (t *bucketTable) Size() uint64 {
	return uint64(len(t.buckets)) * slotsPerBucket * 32
}

func (t *bucketTable) Used() float64 {
	t.lock()
	defer t.unlock()
	return float64(t.used) / float64(len(t.buckets)*slotsPerBucket)
}

func (t *bucketTable) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// --- alternate: lock-free single-slot table ---

// singleSlotMetadata packs the non-hash, non-score fields of a node into
// 64 bits: 1 byte bound, 2 bytes ply, 2 bytes depth, the move's squares
// and promotion.
type singleSlotMetadata struct {
	bound      Bound
	from, to   board.Square
	promotion  board.PieceType
	ply, depth uint16
}

type singleSlotNode struct {
	hash  uint64
	score eval.Score
	md    singleSlotMetadata
}

// SingleSlotTable is a lock-free, single-slot-per-bucket transposition
// table using atomic pointer swaps instead of a mutex: every write either
// replaces the bucket's one entry outright or is dropped, with no
// associativity. It trades the bucket table's higher hit rate for a
// simpler, allocation-per-write, wait-free probe/store path; kept as an
// alternate implementation for comparison and for profiling builds that
// want to isolate TT contention from bucket-scan cost.
type SingleSlotTable struct {
	table []*singleSlotNode
	mask  uint64
	used  uint64
}

func NewSingleSlotTable(ctx context.Context, size uint64) TranspositionTable {
	n := uint64(1) << uint(63-5-bits.LeadingZeros64(size+1))
	if n == 0 {
		n = 1
	}

	logw.Infof(ctx, "Allocating %vMB single-slot transposition table with %v entries", size>>20, n)

	return &SingleSlotTable{
		table: make([]*singleSlotNode, n),
		mask:  n - 1,
	}
}

func (t *SingleSlotTable) Read(hash uint64, ply int) (Bound, int, eval.Score, board.Move, bool) {
	key := hash & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	ptr := (*singleSlotNode)(atomic.LoadPointer(addr))
	if ptr != nil && hash == ptr.hash {
		m := board.NoMove
		if ptr.md.from != ptr.md.to {
			m = moveFromSlot(&slot{from: ptr.md.from, to: ptr.md.to, promo: ptr.md.promotion})
		}
		return ptr.md.bound, int(ptr.md.depth), scoreFromTT(ptr.score, ply), m, true
	}
	return 0, 0, 0, board.NoMove, false
}

func (t *SingleSlotTable) Write(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	key := hash & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	fresh := &singleSlotNode{
		hash:  hash,
		score: scoreToTT(score, ply),
		md: singleSlotMetadata{
			bound: bound,
			from:  move.From(), to: move.To(), promotion: move.Promotion(),
			ply: uint16(ply), depth: uint16(depth),
		},
	}

	ptr := (*singleSlotNode)(atomic.LoadPointer(addr))
	for {
		if singleSlotVal(ptr) > singleSlotVal(fresh) {
			return false
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				atomic.AddUint64(&t.used, 1)
			}
			return true
		}
		ptr = (*singleSlotNode)(atomic.LoadPointer(addr))
	}
}

func singleSlotVal(n *singleSlotNode) uint16 {
	if n == nil {
		return 0
	}
	return n.md.ply + (n.md.depth << 1)
}

func (t *SingleSlotTable) Size() uint64 {
	return uint64(len(t.table)) << 5
}

func (t *SingleSlotTable) Used() float64 {
	return float64(atomic.LoadUint64(&t.used)) / float64(len(t.table))
}

// --- wrappers ---

type WriteFilter func(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool

// WriteLimited wraps a TranspositionTable, dropping writes Filter rejects.
type WriteLimited struct {
	Filter WriteFilter
	TT     TranspositionTable
}

func (w WriteLimited) Read(hash uint64, ply int) (Bound, int, eval.Score, board.Move, bool) {
	return w.TT.Read(hash, ply)
}

func (w WriteLimited) Write(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	if w.Filter(hash, bound, ply, depth, score, move) {
		return false
	}
	return w.TT.Write(hash, bound, ply, depth, score, move)
}

func (w WriteLimited) Size() uint64 { return w.TT.Size() }
func (w WriteLimited) Used() float64 { return w.TT.Used() }

func NewMinDepthTranspositionTable(min int) TranspositionTableFactory {
	return func(ctx context.Context, size uint64) TranspositionTable {
		return WriteLimited{
			Filter: func(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
				return depth < min
			},
			TT: NewTable(ctx, size),
		}
	}
}

// NoTranspositionTable is a no-op table, useful for testing search in
// isolation from caching effects.
type NoTranspositionTable struct{}

func (n NoTranspositionTable) Read(hash uint64, ply int) (Bound, int, eval.Score, board.Move, bool) {
	return 0, 0, 0, board.NoMove, false
}

func (n NoTranspositionTable) Write(hash uint64, bound Bound, ply, depth int, score eval.Score, move board.Move) bool {
	return false
}

func (n NoTranspositionTable) Size() uint64  { return 0 }
func (n NoTranspositionTable) Used() float64 { return 0 }
