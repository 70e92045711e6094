package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/talonchess/talon/pkg/board"
)

// defaultMovesToGo is assumed when a time control gives no move count, the
// rough midpoint of a game not already in its endgame phase.
const defaultMovesToGo = 30

// timeMargin is subtracted from an explicit "go movetime" budget so the
// engine returns its move comfortably before the GUI's own clock expires.
const timeMargin = 50 * time.Millisecond

// TimeControl represents the clock state of both sides during a game:
// each side's remaining time and increment per move, plus an optional moves-to-go count
// from the GUI.
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
	MovesToGo          int // 0 == unknown, assume defaultMovesToGo

	// MoveTime, if set, overrides the clock-based budget entirely: the
	// engine searches for exactly this long (less a safety margin), the
	// "go movetime" UCI command.
	MoveTime lang.Optional[time.Duration]
}

// Limits returns the soft and hard deadlines for a move by c, measured from
// the moment the search starts. Past the soft limit, no new iterative
// deepening depth is started; the hard limit force-stops a depth already in
// progress.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	if mt, ok := t.MoveTime.V(); ok {
		budget := mt - timeMargin
		if budget < 0 {
			budget = mt
		}
		return budget, budget
	}

	remainder, inc := t.White, t.WhiteInc
	if c == board.Black {
		remainder, inc = t.Black, t.BlackInc
	}

	moves := t.MovesToGo
	if moves <= 0 {
		moves = defaultMovesToGo
	}

	soft := remainder/time.Duration(moves) + inc/2
	hard := 4 * soft
	if ceiling := remainder / 4; hard > ceiling {
		hard = ceiling
	}
	return soft, hard
}

func (t TimeControl) String() string {
	if mt, ok := t.MoveTime.V(); ok {
		return fmt.Sprintf("movetime=%.1fs", mt.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[+%.1f/+%.1f, moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.WhiteInc.Seconds(), t.BlackInc.Seconds(), t.MovesToGo)
}

// EnforceTimeControl schedules h.Halt to fire at the hard deadline and
// returns the soft deadline the launcher itself polls, along with whether a
// time control was configured at all.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	timer := time.AfterFunc(hard, func() {
		h.Halt()
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()

	logw.Debugf(ctx, "Time control limits for %v: [%v, %v]", c, soft, hard)
	return soft, true
}
