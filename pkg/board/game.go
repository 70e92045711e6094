package board

const (
	repetitionLimit    = 3
	noProgressPlyLimit = 100 // 50 full moves
)

// record links one played move onto the game's history stack so PopMove
// can undo it and repetition/no-progress detection can scan back over it.
type record struct {
	move Move
	undo Undo
	hash uint64
}

// Game wraps a single mutable Position with the move history needed to
// adjudicate draws by repetition and the 50-move rule, the way the
// teacher's board tracked a linked list of prior nodes alongside each
// position. Unlike the teacher, Game shares one Position and pushes/pops
// it via Make/Unmake instead of allocating a fresh Position per ply.
type Game struct {
	pos     *Position
	history []record
}

// NewGame returns a Game starting from the standard position.
func NewGame() *Game {
	return &Game{pos: NewPosition()}
}

// NewGameFromFEN returns a Game starting from an arbitrary FEN position.
func NewGameFromFEN(fen string) (*Game, error) {
	pos, err := DecodeFEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{pos: pos}, nil
}

// Position returns the game's current position. The returned pointer
// aliases the Game's own mutable state; callers must not call Make on it
// directly without a matching PopMove.
func (g *Game) Position() *Position {
	return g.pos
}

// PushMove applies m and appends it to history.
func (g *Game) PushMove(m Move) {
	u := g.pos.Make(m)
	g.history = append(g.history, record{move: m, undo: u, hash: g.pos.hash})
}

// PopMove reverses the most recently pushed move. Panics if history is
// empty, mirroring the LIFO discipline Make/Unmake require.
func (g *Game) PopMove() {
	n := len(g.history) - 1
	rec := g.history[n]
	g.history = g.history[:n]
	g.pos.Unmake(rec.move, rec.undo)
}

// Len returns the number of moves played so far in this game.
func (g *Game) Len() int {
	return len(g.history)
}

// Moves returns the played move sequence from the game's start.
func (g *Game) Moves() []Move {
	out := make([]Move, len(g.history))
	for i, r := range g.history {
		out[i] = r.move
	}
	return out
}

// identicalPositionCount counts how many times the current hash has
// occurred in the reachable history, including the current occurrence,
// capped at the no-progress horizon (positions before the last pawn move
// or capture cannot recur).
func (g *Game) identicalPositionCount() int {
	count := 1 // the current occurrence itself
	h := g.pos.hash
	limit := len(g.history) - g.pos.halfmove - 1
	if limit < 0 {
		limit = 0
	}
	// Scan strictly earlier entries only: g.history[len-1] is the record
	// PushMove just appended for this very position, so starting the scan
	// there would match it against itself and inflate every reversible
	// move's count by one.
	for i := len(g.history) - 2; i >= limit; i-- {
		if g.history[i].hash == h {
			count++
		}
	}
	return count
}

// IsRepetition reports whether the current position has occurred at least
// repetitionLimit times since the last irreversible move.
func (g *Game) IsRepetition() bool {
	return g.identicalPositionCount() >= repetitionLimit
}

// RepetitionCount returns how many times the current position has occurred
// in reachable history, including the current occurrence. The search uses
// a lower threshold (>=2) than the game-ending rule (>=3, see
// IsRepetition) to steer away from repeating lines before the arbiter
// would actually call the game drawn.
func (g *Game) RepetitionCount() int {
	return g.identicalPositionCount()
}

// IsNoProgress reports whether 50 full moves have passed without a pawn
// move or a capture.
func (g *Game) IsNoProgress() bool {
	return g.pos.halfmove >= noProgressPlyLimit
}

// Adjudicate returns the game's Result given the current position and
// history, or the zero Result if the game is still undecided. hasLegalMove
// indicates whether the side to move has at least one legal move; callers
// that already computed a move list during search should pass that
// instead of recomputing it here.
func (g *Game) Adjudicate(hasLegalMove bool) Result {
	us := g.pos.turn
	if !hasLegalMove {
		if g.pos.IsChecked(us) {
			if us == White {
				return Result{BlackWins, Checkmate}
			}
			return Result{WhiteWins, Checkmate}
		}
		return Result{Draw, Stalemate}
	}
	if g.pos.InsufficientMaterial() {
		return Result{Draw, InsufficientMaterial}
	}
	if g.IsRepetition() {
		return Result{Draw, Repetition3}
	}
	if g.IsNoProgress() {
		return Result{Draw, NoProgress}
	}
	return Result{}
}

// AdjudicateNoLegalMoves is a convenience wrapper that computes the legal
// move count itself; prefer Adjudicate when a move list is already on hand
// (e.g. from inside search) to avoid generating it twice.
func (g *Game) AdjudicateNoLegalMoves() Result {
	return g.Adjudicate(g.pos.HasLegalMove())
}

// Fork returns an independent copy of the game, for exploring a line
// without disturbing the caller's position (e.g. analyzing a candidate
// move from a streaming play-service update).
func (g *Game) Fork() *Game {
	cp := &Game{pos: g.pos.Clone(), history: make([]record, len(g.history))}
	copy(cp.history, g.history)
	return cp
}
