package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
	"github.com/talonchess/talon/pkg/search"
	"github.com/talonchess/talon/pkg/search/searchctl"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine creation and runtime options.
type Options struct {
	// Depth is the default search depth limit. Zero means no limit.
	// Overridden by per-search options if provided.
	Depth uint
	// Hash is the transposition table size in MB. Zero disables the table.
	Hash uint
	// Noise adds some millipawn randomness to the leaf evaluations, to
	// avoid perfectly deterministic play-outs against itself.
	Noise uint
	// Contempt, in centipawns, biases the search away from draws (positive)
	// or towards them (negative). Zero plays draws at their true value.
	Contempt int
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v, contempt=%v}", o.Depth, o.Hash, o.Noise, o.Contempt)
}

// Engine encapsulates game-playing logic, search, and evaluation: the
// single point the UCI surface and the play-service client drive to pick
// and play moves.
type Engine struct {
	name, author string

	eval    eval.Evaluator
	factory search.TranspositionTableFactory
	opts    Options

	g        *board.Game
	tt       search.TranspositionTable
	noise    eval.Random
	launcher *searchctl.Iterative
	active   searchctl.Handle
	mu       sync.Mutex
}

// Option is an engine creation option.
type Option func(*Engine)

// WithTable configures the engine to use the given transposition table
// factory in place of the default bucketed table.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets the default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithEvaluator overrides the default hand-crafted evaluator, e.g. with a
// loaded neural-network evaluator.
func WithEvaluator(ev eval.Evaluator) Option {
	return func(e *Engine) {
		e.eval = ev
	}
}

// New creates an Engine starting from the standard position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:     name,
		author:   author,
		eval:     eval.NewTapered(),
		factory:  search.NewTable,
		launcher: &searchctl.Iterative{},
	}
	for _, fn := range opts {
		fn(e)
	}

	_ = e.Reset(ctx, board.StartFEN)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Depth = depth
}

func (e *Engine) SetHash(size uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Hash = size
}

func (e *Engine) SetNoise(millipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Noise = millipawns
}

func (e *Engine) SetContempt(centipawns int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.opts.Contempt = centipawns
}

// Game returns a fork of the current game, safe for the caller to explore
// (e.g. to render it or to hand to a play-service analysis request)
// without racing the engine's own search.
func (e *Engine) Game() *board.Game {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.g.Fork()
}

// Position returns the current position in FEN format.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.g.Position().EncodeFEN()
}

// Reset resets the engine to a new game starting from position's FEN.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise/10)

	_, _ = e.haltSearchIfActive(ctx)

	g, err := board.NewGameFromFEN(position)
	if err != nil {
		return err
	}
	e.g = g

	e.tt = search.NoTranspositionTable{}
	if e.opts.Hash > 0 {
		e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	}
	e.noise = eval.Random{}
	if e.opts.Noise > 0 {
		e.noise = eval.NewRandom(int(e.opts.Noise), int64(e.opts.Noise))
	}
	e.launcher = &searchctl.Iterative{} // fresh killers/history for the new game

	logw.Infof(ctx, "New position: %v", e.g.Position().EncodeFEN())
	return nil
}

// Move plays move, usually one the opponent just made, against the
// engine's current position.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	_, _ = e.haltSearchIfActive(ctx)

	m, err := board.ParseMove(e.g.Position(), move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}
	e.g.PushMove(m)

	logw.Infof(ctx, "Move %v: %v", m, e.g.Position().EncodeFEN())
	return nil
}

// TakeBack undoes the latest move.
func (e *Engine) TakeBack(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, _ = e.haltSearchIfActive(ctx)

	if e.g.Len() == 0 {
		return fmt.Errorf("no move to take back")
	}
	e.g.PopMove()

	logw.Infof(ctx, "Takeback: %v", e.g.Position().EncodeFEN())
	return nil
}

// Analyze starts an iteratively deepening search of the current position.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.g.Position().EncodeFEN(), opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	ev := e.eval
	if e.opts.Noise > 0 {
		ev = eval.Sum{e.eval, e.noise}
	}

	e.launcher.Eval = ev
	e.launcher.TT = e.tt
	e.launcher.Contempt = eval.Score(e.opts.Contempt) / 100
	handle, out := e.launcher.Launch(ctx, e.g.Fork(), opt)
	e.active = handle
	return out, nil
}

// Halt halts the active search and returns the principal variation, if any.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

// Think is a synchronous convenience wrapper around Analyze/Halt for
// collaborators that just want a single best move for the engine's
// current position rather than a stream of improving PVs: spec §6.1's
// Think(position, limits, stop_signal) -> SearchResult contract. The
// position and limits are set beforehand via Reset/Move and opt; stop, if
// closed before the search's own time/depth budget is exhausted, halts it
// early and returns the best PV found so far.
func (e *Engine) Think(ctx context.Context, opt searchctl.Options, stop <-chan struct{}) (search.PV, error) {
	out, err := e.Analyze(ctx, opt)
	if err != nil {
		return search.PV{}, err
	}

	var last search.PV
	for {
		select {
		case pv, ok := <-out:
			if !ok {
				return last, nil
			}
			last = pv
		case <-stop:
			return e.Halt(ctx)
		}
	}
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active != nil {
		pv := e.active.Halt()
		logw.Infof(ctx, "Search halted: %v", pv)

		e.active = nil
		return pv, true
	}
	return search.PV{}, false
}
