package engine

import "rangechess/internal/rangechess"

const (
	// KingValue 王的分值，远大于任何子力和位置分之和
	KingValue = 10000
	// RolloutKingValue 随机推演用的小一号王值，平均分不至于太大
	RolloutKingValue = 1000
)

// Evaluate 从 b.Player 一方看的静态评估，正数对 Player 有利
func Evaluate(b *rangechess.Board) int {
	return EvaluateWith(b, KingValue)
}

// EvaluateWith 子力 + 推进分：
// 王留在后方加分，其它棋子越往前越好；对方按它自己的方向对称扣分。
func EvaluateWith(b *rangechess.Board, kingValue int) int {
	total := 0
	for _, p := range b.Player {
		if p.Type.IsKing() {
			total += kingValue - p.Rank
		} else {
			total += p.Type.Price() + p.Rank
		}
	}
	for _, p := range b.Opponent {
		// 对方的 rank 仍是我方坐标，推进距离要反过来算；类型翻回它自己的视角再计价
		advance := rangechess.LastRank - p.Rank
		if p.Type.IsKing() {
			total -= kingValue - advance
		} else {
			total -= p.Type.Flip().Price() + advance
		}
	}
	return total
}
