package search

import (
	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/eval"
)

// checkPollInterval is how often, in visited nodes, the search checks its
// deadline/cancellation signal, per spec's node-count granularity default.
const checkPollInterval = 2048

const (
	nullMoveMinDepth = 3
	nullMoveR        = 2

	lmrMinDepth     = 3
	lmrMinMoveIndex = 4

	maxSearchPly = 64
)

// AlphaBeta implements fail-soft negamax with principal-variation search,
// quiescence at the leaves, null-move pruning, late-move reductions, and
// check extensions (promotions are not extended), ordered by the TT move, MVV-LVA, killers,
// and history. It is driven one fixed depth at a time by the
// iterative-deepening harness in searchctl, which owns aspiration windows
// across depths.
type AlphaBeta struct {
	Eval eval.Evaluator

	// Contempt biases the engine away from (positive) or towards (negative)
	// draws, scored from the side to move's perspective: a draw returns
	// -Contempt rather than 0, so a positive value makes accepting a draw
	// look like a small loss worth playing on to avoid.
	Contempt eval.Score
}

// Search performs a fixed-depth search of g's current position and
// returns the node count, score, and principal variation. alpha/beta seed
// the root window (aspiration search); pass eval.NegInf/eval.Inf for a
// full-width search. quit is polled for cancellation; a cancelled search
// returns ErrHalted.
func (a AlphaBeta) Search(g *board.Game, tt TranspositionTable, k *Killers, h *History, depth int, alpha, beta eval.Score, quit <-chan struct{}) (uint64, eval.Score, []board.Move, error) {
	r := &run{
		game:     g,
		tt:       tt,
		killers:  k,
		history:  h,
		eval:     a.Eval,
		contempt: a.Contempt,
		quit:     quit,
	}

	if inc, ok := a.Eval.(eval.Incremental); ok {
		inc.Reset(g.Position())
	}

	score := r.negamax(depth, 0, alpha, beta, true)
	if r.stopped {
		return r.nodes, 0, nil, ErrHalted
	}
	return r.nodes, score, r.pv(), nil
}

type run struct {
	game     *board.Game
	tt       TranspositionTable
	killers  *Killers
	history  *History
	eval     eval.Evaluator
	contempt eval.Score
	quit     <-chan struct{}

	nodes   uint64
	stopped bool

	pvTable [maxSearchPly + 1][maxSearchPly + 1]board.Move
	pvLen   [maxSearchPly + 1]int
}

func (r *run) pv() []board.Move {
	n := r.pvLen[0]
	out := make([]board.Move, n)
	copy(out, r.pvTable[0][:n])
	return out
}

func (r *run) recordPV(ply int, m board.Move) {
	if ply >= maxSearchPly {
		return
	}
	r.pvTable[ply][0] = m
	copy(r.pvTable[ply][1:r.pvLen[ply+1]+1], r.pvTable[ply+1][:r.pvLen[ply+1]])
	r.pvLen[ply] = r.pvLen[ply+1] + 1
}

func (r *run) pollCancelled() bool {
	if r.stopped {
		return true
	}
	if r.nodes%checkPollInterval != 0 {
		return false
	}
	select {
	case <-r.quit:
		r.stopped = true
	default:
	}
	return r.stopped
}

// negamax searches to depth from ply, returning a fail-soft score from the
// side to move's perspective: the return value may lie outside [alpha,
// beta] when the true score was only bounded, not pinned down exactly.
func (r *run) negamax(depth, ply int, alpha, beta eval.Score, nullOk bool) eval.Score {
	r.pvLen[ply] = 0
	pos := r.game.Position()

	if ply > 0 {
		if r.game.RepetitionCount() >= 2 || r.game.IsNoProgress() {
			return -r.contempt
		}
	}

	pvNode := beta-alpha > 1

	var ttMove board.Move
	if bound, ttDepth, score, move, ok := r.tt.Read(pos.Hash(), ply); ok {
		ttMove = move
		if ttDepth >= depth && !pvNode {
			switch bound {
			case ExactBound:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	inCheck := pos.IsChecked(pos.Turn())
	if inCheck {
		depth++ // check extension
	}

	if depth <= 0 {
		return r.quiescence(ply, alpha, beta)
	}

	if r.pollCancelled() {
		return alpha
	}
	r.nodes++

	// Null-move pruning: skip our turn entirely and see if the opponent is
	// still losing by a wide margin even with a free move. Disabled at PV
	// nodes, while in check, and near the board's non-pawn material floor
	// (king+pawns endings are zugzwang-prone, where passing is never free).
	if !pvNode && nullOk && !inCheck && depth >= nullMoveMinDepth && hasNonPawnMaterial(pos, pos.Turn()) {
		u := pos.MakeNull()
		score := -r.negamax(depth-1-nullMoveR, ply+1, -beta, -beta+1, false)
		pos.UnmakeNull(u)
		if r.stopped {
			return alpha
		}
		if score >= beta {
			return score
		}
	}

	var pseudo board.MoveList
	pos.GeneratePseudoLegalMoves(&pseudo)

	ml := NewMoveList(pseudo.Slice(), Ordered(pos, ttMove, r.killers, ply, r.history))

	var (
		legal     int
		bestScore = eval.NegInf
		bestMove  board.Move
		bound     = UpperBound
	)

	inc, incremental := r.eval.(eval.Incremental)

	for {
		m, ok := ml.Next()
		if !ok {
			break
		}

		if incremental {
			inc.PrepareMove(pos, m)
		}
		r.game.PushMove(m)
		if incremental {
			inc.CommitMove(pos)
		}
		if pos.IsChecked(pos.Turn().Opponent()) {
			if incremental {
				inc.RevertMove()
			}
			r.game.PopMove()
			continue
		}
		legal++

		var score eval.Score
		switch {
		case legal == 1:
			score = -r.negamax(depth-1, ply+1, -beta, -alpha, true)
		default:
			reduction := 0
			if depth >= lmrMinDepth && legal > lmrMinMoveIndex && !inCheck && !m.IsCapture() && !m.IsPromotion() {
				reduction = 1
			}
			score = -r.negamax(depth-1-reduction, ply+1, -alpha-1, -alpha, true)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -r.negamax(depth-1, ply+1, -beta, -alpha, true)
			}
		}

		if incremental {
			inc.RevertMove()
		}
		r.game.PopMove()

		if r.stopped {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			bound = ExactBound
			r.recordPV(ply, m)
		}
		if alpha >= beta {
			bound = LowerBound
			if !m.IsCapture() {
				r.killers.Record(ply, m)
				r.history.Record(pos.Turn(), m, depth)
			}
			break
		}
	}

	if legal == 0 {
		if inCheck {
			return -eval.MateScore(ply)
		}
		return 0
	}

	r.tt.Write(pos.Hash(), bound, ply, depth, bestScore, bestMove)
	return bestScore
}

// quiescence extends the search past the horizon along "noisy" lines only
// (captures and queen promotions), using the static evaluation as a
// stand-pat lower bound and delta pruning to skip captures that cannot
// possibly raise alpha even if they win material outright.
func (r *run) quiescence(ply int, alpha, beta eval.Score) eval.Score {
	if r.pollCancelled() {
		return alpha
	}
	r.nodes++

	pos := r.game.Position()
	standPat := r.eval.Evaluate(nil, pos)
	if standPat >= beta {
		return standPat
	}
	if standPat > alpha {
		alpha = standPat
	}

	const deltaMargin = 2 // pawns; generous enough to never skip a real tactic

	var pseudo board.MoveList
	pos.GeneratePseudoLegalMoves(&pseudo)

	ml := NewMoveList(pseudo.Slice(), func(m board.Move) Priority {
		if !isNoisy(m) {
			return -1
		}
		return MVVLVA(pos, m)
	})

	inc, incremental := r.eval.(eval.Incremental)

	for {
		m, ok := ml.Next()
		if !ok || !isNoisy(m) {
			break
		}

		gain := eval.NominalValueGain(pos, m)
		if standPat+gain+deltaMargin < alpha && !m.IsPromotion() {
			continue // delta pruning: even winning the exchange can't help
		}

		if incremental {
			inc.PrepareMove(pos, m)
		}
		r.game.PushMove(m)
		if incremental {
			inc.CommitMove(pos)
		}
		if pos.IsChecked(pos.Turn().Opponent()) {
			if incremental {
				inc.RevertMove()
			}
			r.game.PopMove()
			continue
		}

		score := -r.quiescence(ply+1, -beta, -alpha)

		if incremental {
			inc.RevertMove()
		}
		r.game.PopMove()

		if r.stopped {
			return alpha
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			return alpha
		}
	}

	return alpha
}

// isNoisy reports whether m is worth exploring in quiescence: captures,
// en-passant, and queen promotions.
func isNoisy(m board.Move) bool {
	if m.IsCapture() {
		return true
	}
	return m.Flag() == board.FlagPromoQueen
}

// hasNonPawnMaterial reports whether c has any piece besides pawns and
// king, the usual null-move safety gate against zugzwang-prone endings.
func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	for pt := board.Knight; pt <= board.Queen; pt++ {
		if pos.PieceBoard(c, pt) != 0 {
			return true
		}
	}
	return false
}
