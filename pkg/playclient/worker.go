package playclient

import (
	"context"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/engine"
	"github.com/talonchess/talon/pkg/search/searchctl"
)

// NewEngine constructs an *engine.Engine with the options a pool worker
// should use for one game; factored out so cmd/talon-live can wire in the
// shared config (hash size, NN evaluator) the same way for every game.
type NewEngine func(ctx context.Context, gameID string) *engine.Engine

// Pool owns one goroutine ("worker") per concurrently active game, each
// driving its own *engine.Engine against the Client's event feed. This is
// the concurrency the spec's §9 "coroutine-like control flow belongs to
// the collaborator" note describes: pkg/engine stays synchronous, Pool is
// what fans it out across games.
type Pool struct {
	client     *Client
	newEngine  NewEngine
	maxWorkers int

	sem chan struct{}
}

// NewPool returns a Pool that subscribes to client for each game it is
// told to play and bounds concurrently active games at maxWorkers (0
// means unbounded).
func NewPool(client *Client, newEngine NewEngine, maxWorkers int) *Pool {
	p := &Pool{client: client, newEngine: newEngine, maxWorkers: maxWorkers}
	if maxWorkers > 0 {
		p.sem = make(chan struct{}, maxWorkers)
	}
	return p
}

// Play starts a worker for the game announced by started and blocks until
// the game ends (a GameFinished event, the feed closing, or ctx being
// cancelled). Intended to be called in its own goroutine by the caller for
// each GameStarted event observed on the lobby feed.
func (p *Pool) Play(ctx context.Context, started Event) {
	if p.sem != nil {
		select {
		case p.sem <- struct{}{}:
			defer func() { <-p.sem }()
		case <-ctx.Done():
			return
		}
	}

	gameID := started.GameID
	events := make(chan Event, 64)
	unsubscribe := p.client.Subscribe(gameID, events)
	defer unsubscribe()

	e := p.newEngine(ctx, gameID)
	logw.Infof(ctx, "playclient: game %v started", gameID)

	var gs gameState
	gs = applyState(ctx, e, started, gs)
	if isOurTurn(e, gs.us) {
		if move, err := think(ctx, e, started, gs.us); err != nil {
			logw.Errorf(ctx, "playclient: game %v think failed: %v", gameID, err)
		} else {
			logw.Infof(ctx, "playclient: game %v playing %v", gameID, move)
		}
	}

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				logw.Infof(ctx, "playclient: game %v feed closed", gameID)
				return
			}

			switch ev.Type {
			case EventGameStarted, EventGameState:
				gs = applyState(ctx, e, ev, gs)
				if isOurTurn(e, gs.us) {
					move, err := think(ctx, e, ev, gs.us)
					if err != nil {
						logw.Errorf(ctx, "playclient: game %v think failed: %v", gameID, err)
						continue
					}
					logw.Infof(ctx, "playclient: game %v playing %v", gameID, move)
					// A real deployment posts `move` back to the play
					// service's move-submission endpoint here; that HTTP
					// surface is outside this retrieval pack, so the move
					// is only logged.
				}

			case EventChatMessage:
				logw.Debugf(ctx, "playclient: game %v chat %v: %v", gameID, ev.Username, ev.Text)

			case EventGameFinished:
				logw.Infof(ctx, "playclient: game %v finished: %v (winner=%v)", gameID, ev.Status, ev.Winner)
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// gameState tracks what applyState last established for one game, letting
// it tell a continuing game (replay only the newly appended moves) from an
// actual new game or position (full e.Reset), mirroring how
// pkg/engine/uci.Driver.handlePosition diffs against lastPosition instead
// of resetting the engine's tables on every position command.
type gameState struct {
	us  board.Color
	fen string
}

// applyState brings e's position in line with ev, returning the updated
// gameState. If ev's root position matches the last one applied, only the
// moves e hasn't already seen are replayed via e.Move, leaving e's
// transposition table, killers, and history intact across the update; any
// other root position (a new game, or an unexpected FEN) triggers a full
// e.Reset.
func applyState(ctx context.Context, e *engine.Engine, ev Event, gs gameState) gameState {
	if ev.PlayingAs == "black" {
		gs.us = board.Black
	} else if ev.PlayingAs == "white" {
		gs.us = board.White
	}

	position := ev.FEN
	if position == "" {
		position = board.StartFEN
	}

	if position == gs.fen {
		applied := e.Game().Len()
		if len(ev.Moves) >= applied {
			for _, m := range ev.Moves[applied:] {
				if err := e.Move(ctx, m); err != nil {
					logw.Errorf(ctx, "playclient: invalid move %v in %v: %v", m, ev.Moves, err)
					return gs
				}
			}
			return gs
		}
	}

	if err := e.Reset(ctx, position); err != nil {
		logw.Errorf(ctx, "playclient: invalid position %v: %v", position, err)
		return gs
	}
	for _, m := range ev.Moves {
		if err := e.Move(ctx, m); err != nil {
			logw.Errorf(ctx, "playclient: invalid move %v in %v: %v", m, ev.Moves, err)
			return gs
		}
	}
	gs.fen = position
	return gs
}

func isOurTurn(e *engine.Engine, us board.Color) bool {
	g := e.Game()
	return g.Position().Turn() == us
}

// think asks e for a move given ev's clock state, translated into the
// searchctl.TimeControl the engine's Think understands.
func think(ctx context.Context, e *engine.Engine, ev Event, us board.Color) (string, error) {
	tc := searchctl.TimeControl{
		White:    time.Duration(ev.WhiteTime) * time.Millisecond,
		Black:    time.Duration(ev.BlackTime) * time.Millisecond,
		WhiteInc: time.Duration(ev.WhiteInc) * time.Millisecond,
		BlackInc: time.Duration(ev.BlackInc) * time.Millisecond,
	}
	opt := searchctl.Options{TimeControl: lang.Some(tc)}

	pv, err := e.Think(ctx, opt, make(chan struct{}))
	if err != nil {
		return "", err
	}
	if len(pv.Moves) == 0 {
		return "", nil
	}

	move := pv.Moves[0].String()
	if err := e.Move(ctx, move); err != nil {
		return "", err
	}
	return move, nil
}
