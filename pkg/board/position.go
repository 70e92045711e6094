package board

// Position holds one immutable-looking-from-outside chess position, but is
// mutated in place by Make/Unmake: search descends and backs out of a
// single shared Position value rather than copying a new one per ply, the
// way the teacher's copy-on-Move style did. Make returns an Undo record
// that Unmake consumes to restore every field Make touched, including the
// incrementally maintained Zobrist hash.
type Position struct {
	pieces   [NumColors][NumPieces]Bitboard
	occupied [NumColors]Bitboard
	all      Bitboard

	turn      Color
	castling  Castling
	enPassant Square // NoSquare when unavailable
	halfmove  int    // plies since last pawn move or capture
	fullmove  int

	hash uint64
}

// Undo is the information Make must hand back to Unmake to restore a
// Position to its pre-Make state. It is a plain value: callers keep it on
// their own call stack (search's recursion), never in a pool.
type Undo struct {
	captured  PieceType
	castling  Castling
	enPassant Square
	halfmove  int
	hash      uint64
}

// NewPosition returns the standard chess starting position.
func NewPosition() *Position {
	p, err := DecodeFEN(StartFEN)
	if err != nil {
		panic("board: invalid start FEN: " + err.Error())
	}
	return p
}

func emptyPosition() *Position {
	p := &Position{enPassant: NoSquare, fullmove: 1}
	return p
}

func (p *Position) Turn() Color {
	return p.turn
}

func (p *Position) Castling() Castling {
	return p.castling
}

func (p *Position) EnPassant() Square {
	return p.enPassant
}

func (p *Position) HalfmoveClock() int {
	return p.halfmove
}

func (p *Position) FullmoveNumber() int {
	return p.fullmove
}

func (p *Position) Hash() uint64 {
	return p.hash
}

func (p *Position) Occupied() Bitboard {
	return p.all
}

func (p *Position) OccupiedBy(c Color) Bitboard {
	return p.occupied[c]
}

func (p *Position) PieceBoard(c Color, pt PieceType) Bitboard {
	return p.pieces[c][pt]
}

func (p *Position) IsEmpty(s Square) bool {
	return !p.all.IsSet(s)
}

// PieceAt returns the piece type and color occupying s, or (NoPiece,
// White, false) if s is empty.
func (p *Position) PieceAt(s Square) (PieceType, Color, bool) {
	if !p.all.IsSet(s) {
		return NoPiece, White, false
	}
	for c := ZeroColor; c < NumColors; c++ {
		if !p.occupied[c].IsSet(s) {
			continue
		}
		for pt := Pawn; pt <= King; pt++ {
			if p.pieces[c][pt].IsSet(s) {
				return pt, c, true
			}
		}
	}
	return NoPiece, White, false
}

func (p *Position) King(c Color) Square {
	return p.pieces[c][King].LSB()
}

func (p *Position) addPiece(c Color, pt PieceType, s Square) {
	p.pieces[c][pt] = p.pieces[c][pt].Set(s)
	p.occupied[c] = p.occupied[c].Set(s)
	p.all = p.all.Set(s)
	p.hash ^= zobristPiece(c, pt, s)
}

func (p *Position) removePiece(c Color, pt PieceType, s Square) {
	p.pieces[c][pt] = p.pieces[c][pt].Clear(s)
	p.occupied[c] = p.occupied[c].Clear(s)
	p.all = p.all.Clear(s)
	p.hash ^= zobristPiece(c, pt, s)
}

// IsAttacked reports whether s is attacked by any piece of color by.
func (p *Position) IsAttacked(s Square, by Color) bool {
	occ := p.all
	if KnightAttackBoard(s)&p.pieces[by][Knight] != 0 {
		return true
	}
	if KingAttackBoard(s)&p.pieces[by][King] != 0 {
		return true
	}
	// Pawn attacks are asymmetric: a square is attacked by a pawn of color
	// `by` if a pawn of the opposite capture direction sits on the source.
	if PawnAttackBoard(by.Opponent(), s)&p.pieces[by][Pawn] != 0 {
		return true
	}
	if RookAttackBoard(s, occ)&(p.pieces[by][Rook]|p.pieces[by][Queen]) != 0 {
		return true
	}
	if BishopAttackBoard(s, occ)&(p.pieces[by][Bishop]|p.pieces[by][Queen]) != 0 {
		return true
	}
	return false
}

func (p *Position) IsChecked(c Color) bool {
	return p.IsAttacked(p.King(c), c.Opponent())
}

// Make applies m to the position in place and returns an Undo to reverse
// it. The caller is responsible for only calling Make with a pseudo-legal
// move generated against this exact position.
func (p *Position) Make(m Move) Undo {
	us, them := p.turn, p.turn.Opponent()
	from, to, flag := m.From(), m.To(), m.Flag()

	u := Undo{
		castling:  p.castling,
		enPassant: p.enPassant,
		halfmove:  p.halfmove,
		hash:      p.hash,
	}

	movingPT, _, _ := p.PieceAt(from)

	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant(p.enPassant.File())
	}
	p.enPassant = NoSquare

	p.halfmove++
	if movingPT == Pawn {
		p.halfmove = 0
	}

	switch {
	case flag == FlagEnPassant:
		capSq := NewSquare(to.File(), from.Rank())
		u.captured = Pawn
		p.removePiece(them, Pawn, capSq)
		p.halfmove = 0
	case flag.IsCapture():
		capPT, _, _ := p.PieceAt(to)
		u.captured = capPT
		p.removePiece(them, capPT, to)
		p.halfmove = 0
	default:
		u.captured = NoPiece
	}

	p.removePiece(us, movingPT, from)
	if flag.IsPromotion() {
		p.addPiece(us, flag.PromotionPiece(), to)
	} else {
		p.addPiece(us, movingPT, to)
	}

	if flag.IsCastle() {
		var rookFrom, rookTo Square
		switch flag {
		case FlagKingCastle:
			rookFrom = NewSquare(FileH, from.Rank())
			rookTo = NewSquare(FileF, from.Rank())
		case FlagQueenCastle:
			rookFrom = NewSquare(FileA, from.Rank())
			rookTo = NewSquare(FileD, from.Rank())
		}
		p.removePiece(us, Rook, rookFrom)
		p.addPiece(us, Rook, rookTo)
	}

	if flag == FlagDoublePawnPush {
		p.enPassant = NewSquare(to.File(), Rank((int(from.Rank())+int(to.Rank()))/2))
		p.hash ^= zobristEnPassant(p.enPassant.File())
	}

	p.hash ^= zobristCastling(p.castling)
	p.castling = p.updatedCastling(movingPT, us, from, to)
	p.hash ^= zobristCastling(p.castling)

	if us == Black {
		p.fullmove++
	}
	p.turn = them
	p.hash ^= zobristTurn()

	return u
}

func (p *Position) updatedCastling(movingPT PieceType, us Color, from, to Square) Castling {
	c := p.castling
	if movingPT == King {
		c &^= KingSide(us) | QueenSide(us)
	}
	clearIfRookMoved := func(sq Square, color Color, side Castling) {
		if from == sq || to == sq {
			c &^= side
		}
	}
	clearIfRookMoved(A1, White, WhiteQueenSide)
	clearIfRookMoved(H1, White, WhiteKingSide)
	clearIfRookMoved(A8, Black, BlackQueenSide)
	clearIfRookMoved(H8, Black, BlackKingSide)
	return c
}

// Unmake reverses the effect of the Move m previously applied via Make,
// using the Undo it returned. u must correspond to the most recent Make
// not yet unmade (LIFO discipline, matching the search's recursion).
func (p *Position) Unmake(m Move, u Undo) {
	them := p.turn
	us := them.Opponent()
	p.turn = us
	if us == Black {
		p.fullmove--
	}

	from, to, flag := m.From(), m.To(), m.Flag()

	var movedPT PieceType
	if flag.IsPromotion() {
		movedPT = Pawn
		p.removePiece(us, flag.PromotionPiece(), to)
	} else {
		movedPT, _, _ = p.PieceAt(to)
		p.removePiece(us, movedPT, to)
	}
	p.addPiece(us, movedPT, from)

	switch {
	case flag == FlagEnPassant:
		capSq := NewSquare(to.File(), from.Rank())
		p.addPiece(them, Pawn, capSq)
	case flag.IsCapture():
		p.addPiece(them, u.captured, to)
	}

	if flag.IsCastle() {
		var rookFrom, rookTo Square
		switch flag {
		case FlagKingCastle:
			rookFrom = NewSquare(FileH, from.Rank())
			rookTo = NewSquare(FileF, from.Rank())
		case FlagQueenCastle:
			rookFrom = NewSquare(FileA, from.Rank())
			rookTo = NewSquare(FileD, from.Rank())
		}
		p.removePiece(us, Rook, rookTo)
		p.addPiece(us, Rook, rookFrom)
	}

	p.castling = u.castling
	p.enPassant = u.enPassant
	p.halfmove = u.halfmove
	p.hash = u.hash
}

// MakeNull flips the side to move without moving a piece, used by the
// search's null-move pruning. It is its own kind of Undo since no board
// state besides turn/en-passant/hash changes.
func (p *Position) MakeNull() Undo {
	u := Undo{castling: p.castling, enPassant: p.enPassant, halfmove: p.halfmove, hash: p.hash}
	if p.enPassant != NoSquare {
		p.hash ^= zobristEnPassant(p.enPassant.File())
	}
	p.enPassant = NoSquare
	p.turn = p.turn.Opponent()
	p.hash ^= zobristTurn()
	return u
}

func (p *Position) UnmakeNull(u Undo) {
	p.turn = p.turn.Opponent()
	p.castling = u.castling
	p.enPassant = u.enPassant
	p.halfmove = u.halfmove
	p.hash = u.hash
}

// GeneratePseudoLegalMoves appends every pseudo-legal move (may leave the
// mover's own king in check) to list. list is reset first.
func (p *Position) GeneratePseudoLegalMoves(list *MoveList) {
	list.Reset()
	us, them := p.turn, p.turn.Opponent()
	occ := p.all
	ownOcc := p.occupied[us]
	enemyOcc := p.occupied[them]

	p.genPawnMoves(list, us)

	for pt := Knight; pt <= King; pt++ {
		bb := p.pieces[us][pt]
		for bb != 0 {
			from, rest := bb.Pop()
			bb = rest
			targets := AttackBoard(pt, us, from, occ) &^ ownOcc
			for targets != 0 {
				to, rest2 := targets.Pop()
				targets = rest2
				flag := FlagQuiet
				if enemyOcc.IsSet(to) {
					flag = FlagCapture
				}
				list.Add(NewMove(from, to, flag))
			}
		}
	}

	p.genCastleMoves(list, us)
}

func (p *Position) genPawnMoves(list *MoveList, us Color) {
	them := us.Opponent()
	occ := p.all
	pawns := p.pieces[us][Pawn]

	var forward func(Bitboard) Bitboard
	var startRank, promoRank Rank
	if us == White {
		forward = north
		startRank, promoRank = Rank2, Rank8
	} else {
		forward = south
		startRank, promoRank = Rank7, Rank1
	}

	for bb := pawns; bb != 0; {
		from, rest := bb.Pop()
		bb = rest

		one := forward(SquareBoard(from))
		if one&occ == 0 {
			to := one.LSB()
			p.addPawnMove(list, from, to, promoRank)

			if from.Rank() == startRank {
				two := forward(one)
				if two&occ == 0 {
					list.Add(NewMove(from, two.LSB(), FlagDoublePawnPush))
				}
			}
		}

		attacks := PawnAttackBoard(us, from)
		captures := attacks & p.occupied[them]
		for captures != 0 {
			to, rest2 := captures.Pop()
			captures = rest2
			p.addPawnCapture(list, from, to, promoRank)
		}

		if p.enPassant != NoSquare && attacks.IsSet(p.enPassant) {
			list.Add(NewMove(from, p.enPassant, FlagEnPassant))
		}
	}
}

func (p *Position) addPawnMove(list *MoveList, from, to Square, promoRank Rank) {
	if to.Rank() == promoRank {
		list.Add(NewMove(from, to, FlagPromoQueen))
		list.Add(NewMove(from, to, FlagPromoRook))
		list.Add(NewMove(from, to, FlagPromoBishop))
		list.Add(NewMove(from, to, FlagPromoKnight))
		return
	}
	list.Add(NewMove(from, to, FlagQuiet))
}

func (p *Position) addPawnCapture(list *MoveList, from, to Square, promoRank Rank) {
	if to.Rank() == promoRank {
		list.Add(NewMove(from, to, FlagPromoCaptureQueen))
		list.Add(NewMove(from, to, FlagPromoCaptureRook))
		list.Add(NewMove(from, to, FlagPromoCaptureBishop))
		list.Add(NewMove(from, to, FlagPromoCaptureKnight))
		return
	}
	list.Add(NewMove(from, to, FlagCapture))
}

func (p *Position) genCastleMoves(list *MoveList, us Color) {
	them := us.Opponent()
	rank := Rank1
	if us == Black {
		rank = Rank8
	}
	king := NewSquare(FileE, rank)
	if p.King(us) != king || p.IsAttacked(king, them) {
		return
	}

	if p.castling.IsAllowed(KingSide(us)) {
		f, g := NewSquare(FileF, rank), NewSquare(FileG, rank)
		if p.IsEmpty(f) && p.IsEmpty(g) && !p.IsAttacked(f, them) && !p.IsAttacked(g, them) {
			list.Add(NewMove(king, g, FlagKingCastle))
		}
	}
	if p.castling.IsAllowed(QueenSide(us)) {
		d, c2, b := NewSquare(FileD, rank), NewSquare(FileC, rank), NewSquare(FileB, rank)
		if p.IsEmpty(d) && p.IsEmpty(c2) && p.IsEmpty(b) && !p.IsAttacked(d, them) && !p.IsAttacked(c2, them) {
			list.Add(NewMove(king, c2, FlagQueenCastle))
		}
	}
}

// GenerateLegalMoves fills list with every legal move: pseudo-legal moves
// that do not leave the mover's own king in check, verified by actually
// making and unmaking each candidate.
func (p *Position) GenerateLegalMoves(list *MoveList) {
	var pseudo MoveList
	p.GeneratePseudoLegalMoves(&pseudo)

	list.Reset()
	us := p.turn
	for i := 0; i < pseudo.Len(); i++ {
		m := pseudo.At(i)
		u := p.Make(m)
		if !p.IsChecked(us) {
			list.Add(m)
		}
		p.Unmake(m, u)
	}
}

// HasLegalMove reports whether the side to move has at least one legal
// move. It builds the full legal move list to find out; used by
// checkmate/stalemate detection.
func (p *Position) HasLegalMove() bool {
	var list MoveList
	p.GenerateLegalMoves(&list)
	return list.Len() > 0
}

// InsufficientMaterial reports whether neither side has enough material to
// deliver checkmate by any sequence of legal moves (K vs K, K+N vs K,
// K+B vs K, or K+B vs K+B with same-colored bishops).
func (p *Position) InsufficientMaterial() bool {
	for c := ZeroColor; c < NumColors; c++ {
		if p.pieces[c][Pawn]|p.pieces[c][Rook]|p.pieces[c][Queen] != 0 {
			return false
		}
		minor := p.pieces[c][Knight].Count() + p.pieces[c][Bishop].Count()
		if minor > 1 {
			return false
		}
	}
	wMinor := p.pieces[White][Knight] | p.pieces[White][Bishop]
	bMinor := p.pieces[Black][Knight] | p.pieces[Black][Bishop]
	if wMinor.Count() == 1 && bMinor.Count() == 1 {
		if p.pieces[White][Knight] != 0 || p.pieces[Black][Knight] != 0 {
			return false
		}
		wsq, bsq := p.pieces[White][Bishop].LSB(), p.pieces[Black][Bishop].LSB()
		if (int(wsq.File())+int(wsq.Rank()))%2 != (int(bsq.File())+int(bsq.Rank()))%2 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy. Used where a search wants to fork a position
// for concurrent analysis rather than share one mutable value.
func (p *Position) Clone() *Position {
	cp := *p
	return &cp
}
