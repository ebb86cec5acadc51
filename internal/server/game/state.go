package game

import (
	"time"

	"rangechess/internal/rangechess"
)

type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusWhiteWon Status = "white_won"
	StatusBlackWon Status = "black_won"
)

const (
	ReasonKingCaptured = "king captured"
	ReasonTime         = "time"
	ReasonNoMoves      = "no moves"
)

// Color 白方对应 Board.Player，黑方对应 Board.Opponent
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func colorOf(side rangechess.Side) Color {
	if side == rangechess.OpponentSide {
		return Black
	}
	return White
}

func wonBy(c Color) Status {
	if c == Black {
		return StatusBlackWon
	}
	return StatusWhiteWon
}

// MoveRecord 一手棋的记录，格子都是白方视角
type MoveRecord struct {
	Color    Color
	From     rangechess.Square
	To       rangechess.Square
	Captured bool
	Promoted bool
	Elapsed  time.Duration
}

// GameState 一局棋。Board 始终以白方为 Player；Clock.Time 是白方的时间。
type GameState struct {
	ID      string
	Board   rangechess.Board
	Clock   rangechess.Clock
	Status  Status
	Reason  string
	History []MoveRecord

	// 棋子类型对应的字母（K/Q 固定，其余按出场顺序 N/B/R）
	Labels map[rangechess.PieceType]string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ToMove 当前轮到哪一方
func (g *GameState) ToMove() Color {
	return colorOf(g.Board.Active())
}

func (g *GameState) Over() bool {
	return g.Status != StatusOngoing
}

// Label 例如 "wK"、"bN"
func (g *GameState) Label(side rangechess.Side, p rangechess.Piece) string {
	t := p.Type
	prefix := "w"
	if side == rangechess.OpponentSide {
		// 黑方的类型存的是翻转后的，按它自己的视角查
		t = t.Flip()
		prefix = "b"
	}
	if l, ok := g.Labels[t]; ok {
		return prefix + l
	}
	return prefix + "P"
}

// Position 格子 -> 标签
func (g *GameState) Position() map[string]string {
	out := make(map[string]string, len(g.Board.Player)+len(g.Board.Opponent))
	for _, side := range []rangechess.Side{rangechess.PlayerSide, rangechess.OpponentSide} {
		for _, p := range g.Board.Pieces(side) {
			out[p.Square().String()] = g.Label(side, p)
		}
	}
	return out
}

func (g *GameState) snapshot() *GameState {
	cp := *g
	cp.Board = g.Board.Clone()
	cp.History = append([]MoveRecord(nil), g.History...)
	return &cp
}

// 王和后固定，其余类型按白方、黑方出场顺序依次分配 N/B/R
func assignLabels(white, black []rangechess.Piece) map[rangechess.PieceType]string {
	labels := map[rangechess.PieceType]string{
		rangechess.King:  "K",
		rangechess.Queen: "Q",
	}
	letters := []string{"N", "B", "R"}
	for _, army := range [][]rangechess.Piece{white, black} {
		next := 0
		seen := map[rangechess.PieceType]bool{}
		for _, p := range army {
			if _, ok := labels[p.Type]; ok || seen[p.Type] {
				seen[p.Type] = true
				continue
			}
			seen[p.Type] = true
			if next < len(letters) {
				labels[p.Type] = letters[next]
				next++
			}
		}
	}
	return labels
}
