package board

import "fmt"

// Square represents a square on the board, file-major: A1=0, B1=1, .., H1=7,
// A2=8, .., H8=63. This numbering matches the conventional bitboard layout
// used by magic-bitboard lookup tables: bit i of a Bitboard corresponds to
// Square i.
type Square uint8

const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1

	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2

	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3

	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4

	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5

	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6

	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7

	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
)

// Iteration helpers to enable "for i := ZeroSquare; i<NumSquares; i++".
const (
	ZeroSquare Square = 0
	NumSquares Square = 64
	NoSquare   Square = 64 // sentinel: no en-passant target, no square
)

func NewSquare(f File, r Rank) Square {
	return Square(r)<<3 | Square(f)
}

func ParseSquare(f, r rune) (Square, error) {
	file, ok := ParseFile(f)
	if !ok {
		return 0, fmt.Errorf("invalid file: %v", f)
	}
	rank, ok := ParseRank(r)
	if !ok {
		return 0, fmt.Errorf("invalid rank: %v", r)
	}
	return NewSquare(file, rank), nil
}

func ParseSquareStr(str string) (Square, error) {
	runes := []rune(str)
	if len(runes) != 2 {
		return 0, fmt.Errorf("invalid square: %v", str)
	}
	return ParseSquare(runes[0], runes[1])
}

func (s Square) IsValid() bool {
	return s < NumSquares
}

func (s Square) Rank() Rank {
	return Rank(s >> 3)
}

func (s Square) File() File {
	return File(s & 0x7)
}

// Flip returns the square mirrored across the board's equator: A1<->A8, etc.
// Used to evaluate a position from the opposite perspective (spec's king
// relative NN feature indexing and the mirrored-evaluation symmetry test).
func (s Square) Flip() Square {
	return NewSquare(s.File(), Rank(7-s.Rank()))
}

func (s Square) String() string {
	if !s.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%v%v", s.File(), s.Rank())
}

// Rank represents a chess board rank, Rank1=0, .. Rank8=7. 3 bits.
type Rank uint8

const (
	Rank1 Rank = iota
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

const (
	ZeroRank Rank = 0
	NumRanks Rank = 8
)

func ParseRank(r rune) (Rank, bool) {
	if r < '1' || r > '8' {
		return 0, false
	}
	return Rank(r - '1'), true
}

func (r Rank) IsValid() bool {
	return r < NumRanks
}

func (r Rank) V() int {
	return int(r)
}

func (r Rank) String() string {
	return string(rune('1' + r))
}

// File represents a chess board file, FileA=0, .. FileH=7. 3 bits.
type File uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	ZeroFile File = 0
	NumFiles File = 8
)

func ParseFile(r rune) (File, bool) {
	switch r {
	case 'a', 'A':
		return FileA, true
	case 'b', 'B':
		return FileB, true
	case 'c', 'C':
		return FileC, true
	case 'd', 'D':
		return FileD, true
	case 'e', 'E':
		return FileE, true
	case 'f', 'F':
		return FileF, true
	case 'g', 'G':
		return FileG, true
	case 'h', 'H':
		return FileH, true
	default:
		return 0, false
	}
}

func (f File) IsValid() bool {
	return f < NumFiles
}

func (f File) V() int {
	return int(f)
}

func (f File) String() string {
	return string(rune('a' + f))
}
