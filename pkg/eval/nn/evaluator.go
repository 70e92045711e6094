package nn

import (
	"context"
	"os"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
)

// Evaluator adapts a loaded network into an eval.Evaluator. It keeps one
// live Accumulator plus a per-ply snapshot stack: Reset establishes a new
// search root from scratch, and PrepareMove/CommitMove/RevertMove mirror
// board.Game's PushMove/PopMove to keep the accumulator incrementally in
// sync while the search walks the tree below that root. It implements
// eval.Incremental.
type Evaluator struct {
	weights *Weights
	acc     *Accumulator

	stack []*Accumulator // stack[i] holds the state before ply i's move
	depth int

	pending     dirtyState
	havePending bool
}

// LoadFromFile loads a network from path and returns a ready Evaluator.
func LoadFromFile(path string) (*Evaluator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	w, err := Load(f)
	if err != nil {
		return nil, err
	}
	return &Evaluator{weights: w, acc: NewAccumulator(w)}, nil
}

const (
	activationClampMin int32 = 0
	activationClampMax int32 = 127
	outputScale              = 64
)

func clippedReLU(v int32) int32 {
	if v < activationClampMin {
		return activationClampMin
	}
	if v > activationClampMax {
		return activationClampMax
	}
	return v
}

// Evaluate scores pos from the current accumulator, which the search keeps
// current via Reset/PrepareMove/CommitMove/RevertMove. It trusts that
// state rather than recomputing it, so calling Evaluate without ever
// having called Reset yields a score against an all-zero accumulator.
func (e *Evaluator) Evaluate(_ context.Context, pos *board.Position) eval.Score {
	us := pos.Turn()
	acc := e.acc.values[us]

	var sum int32
	for i, v := range acc {
		sum += clippedReLU(v) * int32(e.weights.OutputWeights[i])
	}
	sum += e.weights.OutputBias

	return eval.Score(sum) / outputScale
}

// Reset recomputes the accumulator from scratch against pos and discards
// any in-flight snapshot stack, establishing pos as a new search root.
func (e *Evaluator) Reset(pos *board.Position) {
	e.acc.Refresh(e.weights, pos)
	e.depth = 0
	e.havePending = false
}

// PrepareMove records the feature-level effect of m while pos is still in
// its pre-move state. Must be followed by pos.Make(m) and then CommitMove.
func (e *Evaluator) PrepareMove(pos *board.Position, m board.Move) {
	e.pending = computeDirty(pos, m)
	e.havePending = true
}

// CommitMove pushes the accumulator as it stood before the prepared move
// and then applies that move's feature delta against pos, now in its
// post-move state.
func (e *Evaluator) CommitMove(pos *board.Position) {
	if e.depth == len(e.stack) {
		e.stack = append(e.stack, e.acc.Clone())
	}
	e.stack[e.depth].CopyFrom(e.acc)
	e.depth++

	if !e.havePending {
		// A commit without a matching PrepareMove (shouldn't happen via the
		// search's PushMove wrapper) falls back to a full rebuild rather
		// than silently evaluating against a stale accumulator.
		e.acc.Refresh(e.weights, pos)
		return
	}
	e.acc.ApplyMove(e.weights, pos, e.pending)
	e.havePending = false
}

// RevertMove restores the accumulator saved by the most recent CommitMove
// not yet reverted, mirroring board.Game.PopMove's LIFO discipline.
func (e *Evaluator) RevertMove() {
	e.depth--
	e.acc.CopyFrom(e.stack[e.depth])
}
