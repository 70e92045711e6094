package searchctl

import (
	"context"
	"sync"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
	"github.com/talonchess/talon/pkg/search"
)

// aspirationWindow is the half-width, in pawns, of the narrowed alpha-beta
// window tried around the previous depth's score before falling back to a
// full-width re-search.
const aspirationWindow eval.Score = 0.5

// Iterative drives search.AlphaBeta one depth at a time with aspiration
// windows (a miss re-searches that depth at full width), stopping at a depth or time limit. It owns the
// transposition table and move-ordering heuristics across the whole game,
// the way the teacher's harness kept state alive between searches rather
// than reallocating per move.
type Iterative struct {
	Eval     eval.Evaluator
	TT       search.TranspositionTable
	Contempt eval.Score

	killers *search.Killers
	history *search.History
}

func (it *Iterative) Launch(ctx context.Context, g *board.Game, opt Options) (Handle, <-chan search.PV) {
	if it.killers == nil {
		it.killers = search.NewKillers()
	}
	if it.history == nil {
		it.history = search.NewHistory()
	} else {
		it.history.Age()
	}
	if ng, ok := it.TT.(interface{ NewGeneration() }); ok {
		ng.NewGeneration()
	}

	out := make(chan search.PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, it, g, opt, out)

	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv search.PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, it *Iterative, g *board.Game, opt Options, out chan search.PV) {
	defer h.init.Close()
	defer close(out)

	ab := search.AlphaBeta{Eval: it.Eval, Contempt: it.Contempt}
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, g.Position().Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	alpha, beta := eval.NegInf, eval.Inf
	depth := 1
	start := time.Now()

	for !h.quit.IsClosed() {
		iterStart := time.Now()

		nodes, score, moves, err := ab.Search(g, it.TT, it.killers, it.history, depth, alpha, beta, wctx.Done())
		if err != nil {
			if err == search.ErrHalted {
				return
			}
			logw.Errorf(ctx, "Search failed at depth=%v: %v", depth, err)
			return
		}

		if score <= alpha || score >= beta {
			// Aspiration window missed the true score: widen to full width
			// and re-search the same depth rather than advancing blind.
			alpha, beta = eval.NegInf, eval.Inf
			continue
		}

		pv := search.PV{
			Moves: moves,
			Score: score,
			Nodes: nodes,
			Time:  time.Since(iterStart),
		}

		logw.Debugf(ctx, "Searched depth=%v: %v", depth, pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) == limit {
			return
		}
		if score.IsMate() && abs(score.MateIn()) <= depth {
			return // forced mate found within the full search horizon
		}
		if useSoft && soft < time.Since(start) {
			return
		}

		alpha, beta = score-aspirationWindow, score+aspirationWindow
		depth++
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func (h *handle) Halt() search.PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
