package main

import (
	"flag"
	"fmt"
	"log"
	"sort"

	"rangechess/internal/engine"
	"rangechess/internal/rangechess"
)

var armies = map[string]func() []rangechess.Piece{
	"classic": rangechess.ClassicArmy,
	"wall":    rangechess.PawnWall,
}

func main() {
	white := flag.String("white", "classic", "white army: classic or wall")
	black := flag.String("black", "wall", "black army: classic or wall")
	depth := flag.Int("depth", 3, "search depth")
	flag.Parse()

	w, ok := armies[*white]
	if !ok {
		log.Fatalf("unknown army %q", *white)
	}
	b, ok := armies[*black]
	if !ok {
		log.Fatalf("unknown army %q", *black)
	}
	board, err := rangechess.NewBoard(w(), b())
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	printBoard(&board)
	fmt.Println("White cost:", rangechess.SetupCost(w()), "Black cost:", rangechess.SetupCost(b()))
	fmt.Println("Eval:", engine.Evaluate(&board))

	all := rangechess.AllLegalMoves(&board)
	froms := make([]rangechess.Square, 0, len(all))
	for sq, targets := range all {
		if len(targets) > 0 {
			froms = append(froms, sq)
		}
	}
	sort.Slice(froms, func(i, j int) bool { return froms[i].String() < froms[j].String() })
	fmt.Println("Legal moves:", len(rangechess.LegalMoves(&board)))
	for _, sq := range froms {
		fmt.Printf("  %s -> %v\n", sq, all[sq])
	}

	e := engine.NewEngine()
	e.Verbose = true
	res := e.Search(&board, engine.SearchConfig{MaxDepth: *depth})
	fmt.Printf("Best: %+v score=%d depth=%d nodes=%d pv=%v\n", res.Move, res.Score, res.Depth, res.Nodes, res.PV)
}

// 白方在下，大写白子小写黑子
func printBoard(b *rangechess.Board) {
	for r := rangechess.LastRank; r >= 0; r-- {
		fmt.Printf("%d ", r+1)
		for f := 0; f < rangechess.Files; f++ {
			side, idx, ok := b.PieceAt(rangechess.Square{Rank: r, File: f})
			if !ok {
				fmt.Print(". ")
				continue
			}
			c := pieceChar(b.Pieces(side)[idx], side)
			fmt.Printf("%c ", c)
		}
		fmt.Println()
	}
	fmt.Println("  a b c d e f g h")
}

func pieceChar(p rangechess.Piece, side rangechess.Side) rune {
	t := p.Type
	if side == rangechess.OpponentSide {
		t = t.Flip()
	}
	c := 'p'
	switch {
	case t.IsKing():
		c = 'k'
	case t.IsQueen():
		c = 'q'
	}
	if side == rangechess.PlayerSide {
		c -= 'a' - 'A'
	}
	return c
}
