package nn

import "github.com/talonchess/talon/pkg/board"

// Accumulator holds the hidden-layer pre-activation sums for both
// perspectives (White's and Black's), kept in sync with the board
// incrementally: Make/Unmake add or remove the handful of features that
// changed instead of recomputing the full sparse-to-dense projection from
// scratch, which is what makes NNUE-style nets cheap enough to call on
// every search node.
type Accumulator struct {
	values [board.NumColors][]int32
}

func NewAccumulator(w *Weights) *Accumulator {
	a := &Accumulator{}
	a.values[board.White] = make([]int32, w.Dims.Hidden)
	a.values[board.Black] = make([]int32, w.Dims.Hidden)
	return a
}

// Refresh recomputes both perspectives from scratch against pos. Called
// once when a search root is established (e.g. after a position command)
// and whenever an incremental update would be more expensive than a
// rebuild (king moves invalidate every relative feature for that side).
func (a *Accumulator) Refresh(w *Weights, pos *board.Position) {
	a.refreshSide(w, pos, board.White)
	a.refreshSide(w, pos, board.Black)
}

// refreshSide recomputes a single perspective from scratch, the fallback
// path ApplyMove takes for the perspective whose own king just moved: the
// king square anchors every relative feature index for that side, so a
// king move invalidates all of them at once.
func (a *Accumulator) refreshSide(w *Weights, pos *board.Position, perspective board.Color) {
	var buf []int
	copy(a.values[perspective], toInt32(w.InputBias))
	buf = ActiveFeatures(pos, perspective, buf)
	for _, idx := range buf {
		addRow(a.values[perspective], w, idx)
	}
}

// ApplyMove incrementally updates both perspectives for the dirty pieces
// recorded by computeDirty, using pos already in its post-move state to
// read each perspective's (possibly moved) king square.
func (a *Accumulator) ApplyMove(w *Weights, pos *board.Position, d dirtyState) {
	for _, perspective := range [2]board.Color{board.White, board.Black} {
		if d.kingMoved[perspective] {
			a.refreshSide(w, pos, perspective)
			continue
		}
		ksq := pos.King(perspective)
		for i := 0; i < d.n; i++ {
			dp := d.pieces[i]
			if dp.from != board.NoSquare {
				a.ApplyRemove(w, perspective, FeatureIndex(perspective, ksq, dp.from, dp.pt, dp.color))
			}
			if dp.to != board.NoSquare {
				a.ApplyAdd(w, perspective, FeatureIndex(perspective, ksq, dp.to, dp.pt, dp.color))
			}
		}
	}
}

func toInt32(src []int16) []int32 {
	dst := make([]int32, len(src))
	for i, v := range src {
		dst[i] = int32(v)
	}
	return dst
}

func addRow(dst []int32, w *Weights, feature int) {
	h := int(w.Dims.Hidden)
	row := w.InputWeights[feature*h : feature*h+h]
	for i, v := range row {
		dst[i] += int32(v)
	}
}

func subRow(dst []int32, w *Weights, feature int) {
	h := int(w.Dims.Hidden)
	row := w.InputWeights[feature*h : feature*h+h]
	for i, v := range row {
		dst[i] -= int32(v)
	}
}

// ApplyAdd incrementally adds one feature's contribution for perspective,
// used when a piece appears on the board from that perspective's view.
func (a *Accumulator) ApplyAdd(w *Weights, perspective board.Color, feature int) {
	addRow(a.values[perspective], w, feature)
}

// ApplyRemove is ApplyAdd's inverse, used when a piece disappears.
func (a *Accumulator) ApplyRemove(w *Weights, perspective board.Color, feature int) {
	subRow(a.values[perspective], w, feature)
}

// CopyFrom overwrites a's values with src's, reusing a's existing backing
// arrays. Used by Evaluator's per-ply snapshot stack, which is sized once
// and reused for the rest of the search rather than allocated per move.
func (a *Accumulator) CopyFrom(src *Accumulator) {
	copy(a.values[board.White], src.values[board.White])
	copy(a.values[board.Black], src.values[board.Black])
}

// Clone returns an independent copy with its own backing arrays, used to
// grow Evaluator's snapshot stack to a new maximum ply.
func (a *Accumulator) Clone() *Accumulator {
	cp := &Accumulator{}
	cp.values[board.White] = append([]int32(nil), a.values[board.White]...)
	cp.values[board.Black] = append([]int32(nil), a.values[board.Black]...)
	return cp
}
