package search

import (
	"container/heap"
	"fmt"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
)

// Priority is a move's ordering priority: higher searches first.
type Priority int32

// MoveList is a move priority queue for search-time move ordering, built
// fresh from a board.MoveList once per node and drained highest-priority
// first via Next.
type MoveList struct {
	h moveHeap
}

// NewMoveList builds a priority queue over moves, scored by fn.
func NewMoveList(moves []board.Move, fn func(move board.Move) Priority) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, val: fn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops and returns the highest-priority remaining move.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.Size() == 0 {
		return board.NoMove, false
	}
	ret := heap.Pop(&ml.h).(elm)
	return ret.m, true
}

func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   board.Move
	val Priority
}

type moveHeap []elm

func (h moveHeap) Len() int            { return len(h) }
func (h moveHeap) Less(i, j int) bool  { return h[i].val > h[j].val }
func (h moveHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *moveHeap) Push(x interface{}) { panic("search: fixed-size move heap") }

func (h *moveHeap) Pop() interface{} {
	n := len(*h)
	ret := (*h)[n-1]
	*h = (*h)[0 : n-1]
	return ret
}

// MVVLVA returns the "most valuable victim, least valuable attacker"
// priority for m against pos, the standard capture-ordering heuristic:
// big captures by small pieces search first.
func MVVLVA(pos *board.Position, m board.Move) Priority {
	if !m.IsCapture() && !m.IsPromotion() {
		return 0
	}
	gain := eval.NominalValueGain(pos, m)
	if gain <= 0 {
		return 0
	}
	attacker, _, _ := pos.PieceAt(m.From())
	return Priority(100*gain) - Priority(eval.NominalValue(attacker))
}

// Ordered combines the TT move, MVV-LVA captures, killer moves, and the
// history heuristic into one priority function for a single node.
func Ordered(pos *board.Position, ttMove board.Move, k *Killers, ply int, h *History) func(board.Move) Priority {
	return func(m board.Move) Priority {
		switch {
		case m == ttMove:
			return 1 << 20
		case m.IsCapture() || m.IsPromotion():
			return 1<<16 + MVVLVA(pos, m)
		case k.Contains(ply, m):
			return 1 << 15
		default:
			return Priority(h.Get(pos.Turn(), m))
		}
	}
}
