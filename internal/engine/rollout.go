package engine

import (
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"rangechess/internal/rangechess"
)

const (
	DefaultRolloutDepth = 7
	DefaultRolloutCount = 40

	// 亏损放大倍数：随机推演里输棋的分支要比赢棋的分支更有分量
	lossWeight = 10
)

// RolloutConfig 随机推演配置
type RolloutConfig struct {
	Depth    int   // 推演深度上限（每个候选跑 0..Depth-1 各 Count 次）
	Count    int   // 每个深度的推演次数
	Seed     int64 // 第 i 个候选用 Seed+i 做种子
	Parallel bool  // 各候选并行
}

// RolloutResult 推演结果；Scores/Moves 按生成顺序一一对应
type RolloutResult struct {
	Move   rangechess.Move
	Found  bool
	Score  float64
	Scores []float64
	Moves  []rangechess.Move
}

func (cfg RolloutConfig) normalized() RolloutConfig {
	if cfg.Depth <= 0 {
		cfg.Depth = DefaultRolloutDepth
	}
	if cfg.Count <= 0 {
		cfg.Count = DefaultRolloutCount
	}
	return cfg
}

// Rollout 对每个根着法做多次随机对局，按整形后的平均分挑最好的
func (e *Engine) Rollout(b *rangechess.Board, cfg RolloutConfig) RolloutResult {
	if !b.PlayerTurn {
		flipped := b.Flip()
		res := e.Rollout(&flipped, cfg)
		res.Move = res.Move.Flip()
		for i := range res.Moves {
			res.Moves[i] = res.Moves[i].Flip()
		}
		return res
	}

	cfg = cfg.normalized()
	e.resetNodes()

	res := RolloutResult{Score: float64(-RolloutKingValue)}
	if !b.HasKing(rangechess.PlayerSide) {
		return res
	}
	moves := rangechess.LegalMoves(b)
	if len(moves) == 0 {
		return res
	}

	scores := make([]float64, len(moves))
	score := func(i int) {
		rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
		nb, _, _ := rangechess.ApplyMove(b, moves[i])
		child := nb.Flip()
		total := 0.0
		for d := 0; d < cfg.Depth; d++ {
			for n := 0; n < cfg.Count; n++ {
				total += shape(-e.playout(&child, d, rng))
			}
		}
		scores[i] = total / 100
	}

	if cfg.Parallel && len(moves) > 1 {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i := range moves {
			i := i
			g.Go(func() error {
				score(i)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i := range moves {
			score(i)
		}
	}

	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	res.Move = moves[best]
	res.Found = true
	res.Score = scores[best]
	res.Scores = scores
	res.Moves = moves
	e.logf("rollout move %+v score %.2f candidates %d nodes %d", res.Move, res.Score, len(moves), e.Nodes())
	return res
}

// playout 从行棋方视角随机走 depth 步，返回终局的评估
func (e *Engine) playout(b *rangechess.Board, depth int, rng *rand.Rand) float64 {
	e.countNode()
	if !b.HasKing(rangechess.PlayerSide) {
		return -RolloutKingValue
	}
	if depth == 0 {
		return float64(EvaluateWith(b, RolloutKingValue))
	}
	moves := rangechess.LegalMoves(b)
	if len(moves) == 0 {
		return -RolloutKingValue
	}
	nb, _, _ := rangechess.ApplyMove(b, moves[rng.Intn(len(moves))])
	next := nb.Flip()
	return -e.playout(&next, depth-1, rng)
}

func shape(x float64) float64 {
	if x > 0 {
		return x
	}
	return lossWeight * x
}
