package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"time"

	"rangechess/internal/engine"
)

func main() {
	totalGames := flag.Int("games", 10, "number of games to play")
	depth := flag.Int("depth", 3, "negamax search depth (0 = use -time)")
	thinkTime := flag.Duration("time", 0, "negamax time per move")
	rolloutDepth := flag.Int("rollout-depth", engine.DefaultRolloutDepth, "rollout depth")
	rolloutCount := flag.Int("rollout-count", engine.DefaultRolloutCount, "rollouts per depth")
	seed := flag.Int64("seed", 1, "rollout seed")
	maxMoves := flag.Int("maxmoves", 200, "max plies per game")
	parallel := flag.Bool("parallel", true, "search root moves in parallel")
	pprof := flag.Bool("pprof", false, "serve pprof on localhost:6060")
	flag.Parse()

	if *pprof {
		go func() {
			log.Println("pprof listening on :6060")
			if err := http.ListenAndServe("localhost:6060", nil); err != nil {
				log.Printf("pprof failed: %v", err)
			}
		}()
	}

	e := engine.NewEngine()

	playerNegamax := Player{
		Name: fmt.Sprintf("Negamax (depth %d)", *depth),
		Search: engine.SearchConfig{
			MaxDepth:  *depth,
			TimeLimit: *thinkTime,
			Parallel:  *parallel,
		},
	}
	playerRollout := Player{
		Name:       fmt.Sprintf("Rollout (%dx%d)", *rolloutDepth, *rolloutCount),
		UseRollout: true,
		Rollout: engine.RolloutConfig{
			Depth:    *rolloutDepth,
			Count:    *rolloutCount,
			Seed:     *seed,
			Parallel: *parallel,
		},
	}

	negamaxWins, rolloutWins, draws := 0, 0, 0
	start := time.Now()
	for g := 0; g < *totalGames; g++ {
		white, black := playerNegamax, playerRollout
		if g%2 == 1 {
			white, black = playerRollout, playerNegamax
		}
		// 每局换一个种子，不然同样的对阵会下出同一盘棋
		white.Rollout.Seed += int64(g) * 1000
		black.Rollout.Seed += int64(g) * 1000

		fmt.Printf("\n=== Game %d: White [%s] vs Black [%s] ===\n", g+1, white.Name, black.Name)
		result := playGame(e, white, black, *maxMoves)
		fmt.Printf("Result: %s (%s) after %d plies\n", result.Winner, result.Reason, result.Plies)

		switch {
		case result.Winner == "draw":
			draws++
		case (result.Winner == "white") == (white.Name == playerNegamax.Name):
			negamaxWins++
		default:
			rolloutWins++
		}
	}

	fmt.Printf("\n=== Final Score (%v) ===\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("%s: %d\n", playerNegamax.Name, negamaxWins)
	fmt.Printf("%s: %d\n", playerRollout.Name, rolloutWins)
	fmt.Printf("Draws: %d\n", draws)
}
