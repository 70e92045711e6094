// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/seekerror/logw"

	"github.com/talonchess/talon/pkg/board"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = board.StartFEN
	}

	pos, err := board.DecodeFEN(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()
		nodes := perft(pos, i, *divide && i == *depth)
		duration := time.Since(start)

		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, duration.Microseconds())
	}
}

func perft(pos *board.Position, depth int, d bool) int64 {
	if depth == 0 {
		return 1
	}

	var list board.MoveList
	pos.GeneratePseudoLegalMoves(&list)

	var nodes int64
	us := pos.Turn()
	for i := 0; i < list.Len(); i++ {
		m := list.At(i)

		u := pos.Make(m)
		if !pos.IsChecked(us) {
			count := perft(pos, depth-1, false)
			if d {
				fmt.Printf("%v: %v\n", m, count)
			}
			nodes += count
		}
		pos.Unmake(m, u)
	}
	return nodes
}
