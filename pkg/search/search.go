// Package search implements the engine's move search: iterative-deepening
// principal variation search with a transposition table, null-move
// pruning, late-move reductions, and quiescence search at the horizon.
package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
)

// ErrHalted is returned by a depth search cut short by cancellation before
// it could complete; the caller falls back to the previous depth's PV.
var ErrHalted = errors.New("search: halted")

// PV is the principal variation found at some completed search depth.
type PV struct {
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	parts := make([]string, len(p.Moves))
	for i, m := range p.Moves {
		parts[i] = m.String()
	}
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", len(p.Moves), p.Score, p.Nodes, p.Time, strings.Join(parts, " "))
}

// Options hold the dynamic, per-search limits a caller may set.
type Options struct {
	DepthLimit int // 0 == no limit
}

// Launcher starts a new search from a position.
type Launcher interface {
	// Launch starts an iteratively deepening search against an exclusively
	// owned Game and streams a PV per completed depth; the channel closes
	// when the search is exhausted. The search can be stopped at any time
	// via the returned Handle.
	Launch(ctx context.Context, g *board.Game, opt Options) (Handle, <-chan PV)
}

// Handle lets the owner stop a running search and retrieve its best
// result so far.
type Handle interface {
	// Halt stops the search, if running, and returns its best PV. Idempotent.
	Halt() PV
}
