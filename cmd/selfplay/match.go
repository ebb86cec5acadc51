package main

import (
	"log"

	"rangechess/internal/engine"
	"rangechess/internal/rangechess"
)

// Player 一个对局方的搜索参数
type Player struct {
	Name       string
	UseRollout bool
	Search     engine.SearchConfig
	Rollout    engine.RolloutConfig
}

func (p Player) choose(e *engine.Engine, b *rangechess.Board) (rangechess.Move, bool) {
	if p.UseRollout {
		res := e.Rollout(b, p.Rollout)
		return res.Move, res.Found
	}
	res := e.Search(b, p.Search)
	return res.Move, res.Found
}

type GameResult struct {
	Winner string // "white" / "black" / "draw"
	Reason string
	Plies  int
}

func playGame(e *engine.Engine, white, black Player, maxMoves int) GameResult {
	board, err := rangechess.NewBoard(rangechess.ClassicArmy(), rangechess.ClassicArmy())
	if err != nil {
		log.Fatalf("setup: %v", err)
	}

	for ply := 0; ply < maxMoves; ply++ {
		mover, winnerIfStuck, current := "white", "black", white
		if !board.PlayerTurn {
			mover, winnerIfStuck, current = "black", "white", black
		}

		mv, ok := current.choose(e, &board)
		if !ok {
			// 无子可动，当前方输
			return GameResult{Winner: winnerIfStuck, Reason: "no moves", Plies: ply}
		}
		if !rangechess.CheckMove(&board, mv) {
			log.Printf("%s produced an illegal move %+v", current.Name, mv)
			return GameResult{Winner: winnerIfStuck, Reason: "illegal move", Plies: ply}
		}

		next, captured, _ := rangechess.ApplyMove(&board, mv)
		board = next
		if captured.King() {
			return GameResult{Winner: mover, Reason: "king captured", Plies: ply + 1}
		}
	}
	return GameResult{Winner: "draw", Reason: "move limit", Plies: maxMoves}
}
