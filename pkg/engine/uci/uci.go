// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/engine"
	"github.com/talonchess/talon/pkg/search"
	"github.com/talonchess/talon/pkg/search/searchctl"
)

const ProtocolName = "uci"

// Option is a UCI driver option.
type Option func(*options)

type options struct {
	useBook bool
	book    engine.Book
	rand    *rand.Rand
}

// UseBook instructs the driver to use the given opening book and picks
// randomly among book moves using seed.
func UseBook(book engine.Book, seed int64) Option {
	return func(opt *options) {
		opt.useBook = true
		opt.book = book
		opt.rand = rand.New(rand.NewSource(seed))
	}
}

// Driver implements a UCI driver for an engine. It is activated if sent
// "uci".
type Driver struct {
	e   *engine.Engine
	opt options

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		opt:    opt,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CAS(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	if d.opt.book != nil {
		d.out <- fmt.Sprintf("option name OwnBook type check default %v", d.opt.useBook)
	}
	d.out <- "option name Hash type spin default 0 min 0 max 4096"

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(line)
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				d.out <- "readyok"

			case "debug":
				// No-op: the engine always logs through logw regardless of
				// debug mode.

			case "setoption":
				d.handleSetOption(args)

			case "register":
				// No-op: registration is not required.

			case "ucinewgame":
				d.ensureInactive(ctx)
				d.lastPosition = ""

			case "position":
				if !d.handlePosition(ctx, line, args) {
					return
				}

			case "go":
				d.handleGo(ctx, line, args)

			case "stop":
				pv, err := d.e.Halt(ctx)
				if err == nil {
					d.searchCompleted(ctx, pv)
				}

			case "ponderhit":
				// No-op: the driver does not distinguish ponder searches.

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) handleSetOption(args []string) {
	var name, value string
	if len(args) > 1 {
		name = args[1]
	}
	if len(args) > 3 {
		value = args[3]
	}

	switch name {
	case "OwnBook":
		d.opt.useBook, _ = strconv.ParseBool(value)
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			d.e.SetHash(uint(n))
		}
	}
}

// handlePosition applies a "position [fen <fenstring> | startpos] [moves
// ...]" command. It returns false if the driver should shut down due to an
// unrecoverable protocol violation.
func (d *Driver) handlePosition(ctx context.Context, line string, args []string) bool {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		// Continuation of the same game: only the newly appended moves
		// need to be replayed.
		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Fields(moves) {
			if arg == "moves" {
				continue
			}
			if err := d.e.Move(ctx, arg); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
				return false
			}
		}
		d.lastPosition = line
		return true
	}

	position := board.StartFEN
	if len(args) >= 7 && args[0] == "fen" {
		position = strings.Join(args[1:7], " ")
	}

	if err := d.e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "Invalid position: %v", line)
		return false
	}

	move := false
	for _, arg := range args {
		if arg == "moves" {
			move = true
			continue
		}
		if !move {
			continue
		}
		if err := d.e.Move(ctx, arg); err != nil {
			logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
			return false
		}
	}
	d.lastPosition = line
	return true
}

func (d *Driver) handleGo(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	haveTC := false
	infinite := false

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "wtime":
				tc.White = time.Duration(n) * time.Millisecond
				haveTC = true
			case "btime":
				tc.Black = time.Duration(n) * time.Millisecond
				haveTC = true
			case "winc":
				tc.WhiteInc = time.Duration(n) * time.Millisecond
				haveTC = true
			case "binc":
				tc.BlackInc = time.Duration(n) * time.Millisecond
				haveTC = true
			case "movestogo":
				tc.MovesToGo = n
				haveTC = true
			case "movetime":
				tc.MoveTime = lang.Some(time.Duration(n) * time.Millisecond)
				haveTC = true
			}

		case "infinite":
			infinite = true

		default:
			// searchmoves, ponder, nodes, mate: silently ignored.
		}
	}
	if haveTC {
		opt.TimeControl = lang.Some(tc)
	}

	if d.opt.useBook && d.opt.book != nil {
		moves, err := d.opt.book.Find(ctx, d.e.Position())
		if err != nil {
			logw.Errorf(ctx, "Failed to find book move for %v: %v", d.e.Position(), err)
			return
		}
		if len(moves) > 0 {
			winner := moves[d.opt.rand.Intn(len(moves))]
			pv := search.PV{Moves: []board.Move{winner}}

			d.active.Store(true)
			d.searchCompleted(ctx, pv)
			return
		}
	}

	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		logw.Errorf(ctx, "Analyze failed: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite {
			d.searchCompleted(ctx, last)
		}
	}()
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CAS(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 3 score cp 214 nodes 2124 time 1242 nps 1710 pv e2e4 e7e5 g1f3"

	parts := []string{"info", fmt.Sprintf("depth %v", len(pv.Moves))}
	if pv.Score.IsMate() {
		parts = append(parts, fmt.Sprintf("score mate %v", pv.Score.MateIn()))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score*100)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, formatMoves(pv.Moves))
	}

	return strings.Join(parts, " ")
}

func formatMoves(moves []board.Move) string {
	strs := make([]string, len(moves))
	for i, m := range moves {
		strs[i] = m.String()
	}
	return strings.Join(strs, " ")
}
