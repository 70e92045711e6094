package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talonchess/talon/pkg/board"
	"github.com/talonchess/talon/pkg/search"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of moves given a
	// position's FEN. Once an empty list is returned, the book should not
	// be consulted again for the rest of the game.
	Find(ctx context.Context, fen string) ([]board.Move, error)
}

// Line is a sequence of moves in long algebraic notation from the starting
// position, e.g. ["e2e4", "d7d5"].
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book.
var NoBook Book = &book{moves: map[string][]board.Move{}}

// NewBook builds an opening book from a set of lines.
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}
	for _, line := range lines {
		g := board.NewGame()
		for _, str := range line {
			m2, err := board.ParseMove(g.Position(), str)
			if err != nil {
				return nil, fmt.Errorf("invalid line %q: %w", line, err)
			}

			key := fenKey(g.Position().EncodeFEN())
			if m[key] == nil {
				m[key] = map[board.Move]bool{}
			}
			m[key][m2] = true

			g.PushMove(m2)
		}
	}
	return &book{moves: dedupAndOrder(m)}, nil
}

// NewBookFromYAML parses a YAML document of the form:
//
//	lines:
//	  - [e2e4, d7d5, d2d4]
//	  - [e2e4, d7d6]
func NewBookFromYAML(data []byte) (Book, error) {
	var doc struct {
		Lines [][]string `yaml:"lines"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid book: %w", err)
	}

	lines := make([]Line, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = l
	}
	return NewBook(lines)
}

func dedupAndOrder(m map[string]map[board.Move]bool) map[string][]board.Move {
	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}

		if pos, err := board.DecodeFEN(k + " 0 1"); err == nil {
			sort.Slice(list, func(i, j int) bool {
				return search.MVVLVA(pos, list[i]) > search.MVVLVA(pos, list[j])
			})
		}
		dedup[k] = list
	}
	return dedup
}

type book struct {
	moves map[string][]board.Move // cropped FEN -> book moves
}

func (b *book) Find(_ context.Context, fen string) ([]board.Move, error) {
	return b.moves[fenKey(fen)], nil
}

// fenKey crops a FEN to its first four fields (board, turn, castling,
// en-passant), ignoring the move counters, so transpositions that reach the
// same position via different move orders share one book entry.
func fenKey(fen string) string {
	parts := strings.Fields(fen)
	if len(parts) > 4 {
		parts = parts[:4]
	}
	return strings.Join(parts, " ")
}
