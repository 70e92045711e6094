package board

// maxMoves bounds the number of pseudo-legal moves any single chess
// position can produce. The true theoretical maximum is 218; 256 leaves
// headroom without the list ever needing to grow.
const maxMoves = 256

// MoveList is a fixed-capacity, stack-friendly move buffer filled in place
// by move generation. Search orders and truncates it in place rather than
// allocating a new slice per node.
type MoveList struct {
	moves [maxMoves]Move
	n     int
}

func (l *MoveList) Reset() {
	l.n = 0
}

func (l *MoveList) Len() int {
	return l.n
}

func (l *MoveList) Add(m Move) {
	l.moves[l.n] = m
	l.n++
}

func (l *MoveList) At(i int) Move {
	return l.moves[i]
}

func (l *MoveList) Set(i int, m Move) {
	l.moves[i] = m
}

func (l *MoveList) Swap(i, j int) {
	l.moves[i], l.moves[j] = l.moves[j], l.moves[i]
}

// Slice returns the populated prefix as a slice. The slice aliases the
// list's backing array and is only valid until the next Reset/Add.
func (l *MoveList) Slice() []Move {
	return l.moves[:l.n]
}

// Contains reports whether m is present.
func (l *MoveList) Contains(m Move) bool {
	for i := 0; i < l.n; i++ {
		if l.moves[i] == m {
			return true
		}
	}
	return false
}
