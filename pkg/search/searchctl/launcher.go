// Package searchctl drives the fixed-depth searcher in pkg/search with
// iterative deepening, aspiration windows, and time control, the layer the
// engine actually talks to.
package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/search"
)

// Options hold the dynamic, per-search limits a caller may set; both are
// optional, and a depth limit and a time control may be combined.
type Options struct {
	// DepthLimit, if set, stops iterative deepening once this ply depth
	// completes. Zero/absent means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, bounds the search by wall-clock time.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		parts = append(parts, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// Launcher starts a managed, iteratively deepening search.
type Launcher interface {
	// Launch starts a new search against an exclusively owned Game and
	// streams a PV per completed depth; the channel closes when the search
	// is exhausted. The search can be stopped at any time via the returned
	// Handle.
	Launch(ctx context.Context, g *board.Game, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the owner stop a running search and retrieve its best result
// so far.
type Handle interface {
	// Halt stops the search, if running, and returns its best PV so far.
	// Idempotent.
	Halt() search.PV
}
