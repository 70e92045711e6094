package search

import "github.com/talonchess/talon/pkg/board"

const maxKillerPly = 128

// Killers remembers, per ply, up to two quiet moves that recently caused
// a beta cutoff. A killer from one node is frequently good in a sibling
// node at the same ply since the position differs by only one move, so
// trying it early there tends to cut off the search without a capture.
type Killers struct {
	moves [maxKillerPly][2]board.Move
}

func NewKillers() *Killers {
	return &Killers{}
}

func (k *Killers) Contains(ply int, m board.Move) bool {
	if ply >= maxKillerPly {
		return false
	}
	return k.moves[ply][0] == m || k.moves[ply][1] == m
}

// Record stores m as the newest killer at ply, evicting the older one.
// Only quiet moves are worth recording; captures are already ordered by
// MVV-LVA.
func (k *Killers) Record(ply int, m board.Move) {
	if ply >= maxKillerPly || m.IsCapture() {
		return
	}
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// History scores quiet moves by how often they have caused a beta cutoff
// across the whole search, indexed by side to move and the packed
// from/to squares (promotion/flag bits ignored: the heuristic only cares
// about "this piece heading to this square has been good").
type History struct {
	scores [board.NumColors][64][64]int32
}

func NewHistory() *History {
	return &History{}
}

func (h *History) Get(c board.Color, m board.Move) int32 {
	return h.scores[c][m.From()][m.To()]
}

// Record bumps m's history score by depth^2, the usual weighting that
// favors cutoffs found deeper in the tree (more search effort behind
// them) without letting any single shallow cutoff dominate.
func (h *History) Record(c board.Color, m board.Move, depth int) {
	if m.IsCapture() {
		return
	}
	h.scores[c][m.From()][m.To()] += int32(depth * depth)
}

// Age halves every score, called between searches so history from a
// previous, possibly unrelated position doesn't dominate forever.
func (h *History) Age() {
	for c := range h.scores {
		for f := range h.scores[c] {
			for t := range h.scores[c][f] {
				h.scores[c][f][t] /= 2
			}
		}
	}
}
