package board

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PGNGame is the result of tokenizing one PGN game: its header tags, keyed
// by name (their order in the file is not kept), and the movetext resolved into actual Moves played
// against the header's starting position (FEN tag if present, otherwise
// the standard start position).
type PGNGame struct {
	Tags  map[string]string
	Moves []Move

	// Result is the termination marker the movetext ended with
	// ("1-0", "0-1", "1/2-1/2", "*"), independent of the Outcome the
	// position itself would compute from the final Game state.
	Result string
}

var tagLineRE = regexp.MustCompile(`^\[(\w+)\s+"(.*)"\]$`)

// moveNumberRE strips leading move numbers ("12.", "12...") from a
// movetext token; PGN writes them inline with the white move of each
// full move.
var moveNumberRE = regexp.MustCompile(`^\d+\.+`)

// ParsePGN tokenizes a single PGN game: header tags, then movetext
// replayed move-by-move via ParseSAN against the resulting Game. Comments
// in braces or semicolon-to-end-of-line, and variations in parentheses,
// are skipped rather than interpreted, per spec's "sufficient to replay a
// game" contract.
func ParsePGN(pgn string) (*PGNGame, error) {
	g := &PGNGame{Tags: map[string]string{}}

	lines := strings.Split(pgn, "\n")
	var movetext strings.Builder
	inHeader := true
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if inHeader && strings.HasPrefix(trimmed, "[") {
			if m := tagLineRE.FindStringSubmatch(trimmed); m != nil {
				g.Tags[m[1]] = m[2]
			}
			continue
		}
		inHeader = false
		movetext.WriteString(trimmed)
		movetext.WriteString(" ")
	}

	tokens := tokenizeMovetext(movetext.String())

	start := StartFEN
	if fen, ok := g.Tags["FEN"]; ok {
		start = fen
	}
	game, err := NewGameFromFEN(start)
	if err != nil {
		return nil, fmt.Errorf("pgn: invalid FEN tag: %w", err)
	}

	for _, tok := range tokens {
		switch tok {
		case "1-0", "0-1", "1/2-1/2", "*":
			g.Result = tok
			continue
		}

		san := moveNumberRE.ReplaceAllString(tok, "")
		if san == "" {
			continue
		}

		m, err := ParseSAN(game.Position(), san)
		if err != nil {
			return nil, fmt.Errorf("pgn: move %d (%q): %w", len(g.Moves)+1, san, err)
		}
		game.PushMove(m)
		g.Moves = append(g.Moves, m)
	}

	return g, nil
}

// tokenizeMovetext splits raw movetext into whitespace-separated tokens,
// first stripping "{...}" comments, ";..." end-of-line comments, and
// "(...)" recursive annotation variations, none of which are needed to
// replay the mainline.
func tokenizeMovetext(s string) []string {
	var sb strings.Builder
	depth := 0
	inComment := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inComment:
			if c == '}' {
				inComment = false
			}
		case c == '{':
			inComment = true
		case c == ';':
			for i < len(s) && s[i] != '\n' {
				i++
			}
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth > 0:
			// inside a variation, skip
		default:
			sb.WriteByte(c)
		}
	}
	return strings.Fields(sb.String())
}

// EncodePGN renders a game's move sequence as PGN movetext with numeric
// move markers, given the FEN the game started from (StartFEN if empty),
// suitable for round-tripping through ParsePGN.
func EncodePGN(tags map[string]string, start string, moves []Move, result string) (string, error) {
	if start == "" {
		start = StartFEN
	}
	game, err := NewGameFromFEN(start)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, k := range []string{"Event", "Site", "Date", "Round", "White", "Black", "Result"} {
		if v, ok := tags[k]; ok {
			fmt.Fprintf(&sb, "[%s \"%s\"]\n", k, v)
		}
	}
	if start != StartFEN {
		fmt.Fprintf(&sb, "[FEN \"%s\"]\n", start)
	}
	sb.WriteString("\n")

	fullmove := game.Position().FullmoveNumber()
	for _, m := range moves {
		if game.Position().Turn() == White {
			sb.WriteString(strconv.Itoa(fullmove))
			sb.WriteString(". ")
		}
		san := EncodeSAN(game.Position(), m)
		game.PushMove(m)
		sb.WriteString(san)
		sb.WriteString(" ")
		if game.Position().Turn() == White {
			fullmove++
		}
	}
	if result != "" {
		sb.WriteString(result)
	}
	return strings.TrimSpace(sb.String()) + "\n", nil
}
