package httpserver

import (
	"fmt"
	"time"

	"rangechess/internal/rangechess"
	"rangechess/internal/server/game"
)

// 前端用的招法结构，格子是代数记法（"a1"）
type MoveDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PieceDTO 摆子：Kind 是内置兵种名；为空时用 Type 自定义射程
type PieceDTO struct {
	Square string               `json:"square"`
	Kind   string               `json:"kind,omitempty"`
	Type   rangechess.PieceType `json:"type"`
}

// NewGame 请求。Army 是内置阵型名（"classic" / "wall"），Pieces 非空时优先。
type NewGameRequest struct {
	WhiteArmy   string     `json:"white_army"`
	BlackArmy   string     `json:"black_army"`
	White       []PieceDTO `json:"white"`
	Black       []PieceDTO `json:"black"`
	TotalMs     int64      `json:"total_ms"`
	IncrementMs int64      `json:"increment_ms"`
}

// State / Evaluate 请求：前端刷新时用 game_id 来要当前盘面
type StateRequest struct {
	GameID string `json:"game_id"`
}

// Play 请求
type PlayRequest struct {
	GameID string  `json:"game_id"`
	Move   MoveDTO `json:"move"`
}

// AiMoveRequest 请求让 AI 为当前行棋方走一步；不填的字段用服务端配置
type AiMoveRequest struct {
	GameID       string `json:"game_id"`
	Strategy     string `json:"strategy"`
	TimeMs       int64  `json:"time_ms"`
	MaxDepth     int    `json:"max_depth"`
	Parallel     *bool  `json:"parallel"`
	RolloutDepth int    `json:"rollout_depth"`
	RolloutCount int    `json:"rollout_count"`
	Seed         *int64 `json:"seed"`
}

type ClockDTO struct {
	WhiteMs int64 `json:"white_ms"`
	BlackMs int64 `json:"black_ms"`
	Plies   int   `json:"plies"`
}

// GameResponse new_game / state / play 共用
type GameResponse struct {
	GameID     string              `json:"game_id"`
	Position   map[string]string   `json:"position"`    // 格子 -> "wK" / "bN" ...
	ToMove     string              `json:"to_move"`     // "white" / "black"
	LegalMoves map[string][]string `json:"legal_moves"` // 当前行棋方所有可走棋
	Status     string              `json:"status"`
	Reason     string              `json:"reason,omitempty"`
	Clock      ClockDTO            `json:"clock"`
	LastMove   *MoveDTO            `json:"last_move,omitempty"`
}

type AiMoveResponse struct {
	GameResponse
	BestMove MoveDTO `json:"best_move"`
	Strategy string  `json:"strategy"`
	Score    float64 `json:"score"`
	Depth    int     `json:"depth"`
	Nodes    int64   `json:"nodes"`
	TimeMs   int64   `json:"time_ms"`
}

type EvaluateResponse struct {
	GameID string `json:"game_id"`
	Score  int    `json:"score"` // 白方视角
}

func gameToDTO(g *game.GameState) GameResponse {
	resp := GameResponse{
		GameID:     g.ID,
		Position:   g.Position(),
		ToMove:     g.ToMove().String(),
		LegalMoves: map[string][]string{},
		Status:     string(g.Status),
		Reason:     g.Reason,
		Clock: ClockDTO{
			WhiteMs: g.Clock.Time.Milliseconds(),
			BlackMs: g.Clock.OpponentTime.Milliseconds(),
			Plies:   g.Clock.Plies,
		},
	}
	// 结束后不再给可走棋
	if !g.Over() {
		for from, targets := range rangechess.AllLegalMoves(&g.Board) {
			if len(targets) == 0 {
				continue
			}
			out := make([]string, len(targets))
			for i, to := range targets {
				out[i] = to.String()
			}
			resp.LegalMoves[from.String()] = out
		}
	}
	if n := len(g.History); n > 0 {
		last := g.History[n-1]
		resp.LastMove = &MoveDTO{From: last.From.String(), To: last.To.String()}
	}
	return resp
}

var pieceKinds = map[string]rangechess.PieceType{
	"king":      rangechess.King,
	"queen":     rangechess.Queen,
	"pawn":      rangechess.ClassicPawn,
	"bishop":    rangechess.ClassicBishop,
	"rook":      rangechess.ClassicRook,
	"wall_pawn": rangechess.WallPawn,
}

var armies = map[string]func() []rangechess.Piece{
	"classic": rangechess.ClassicArmy,
	"wall":    rangechess.PawnWall,
}

func dtoToPieces(ps []PieceDTO) ([]rangechess.Piece, error) {
	out := make([]rangechess.Piece, 0, len(ps))
	for _, p := range ps {
		sq, err := rangechess.ParseSquare(p.Square)
		if err != nil {
			return nil, err
		}
		t := p.Type
		if p.Kind != "" {
			kt, ok := pieceKinds[p.Kind]
			if !ok {
				return nil, fmt.Errorf("unknown piece kind %q", p.Kind)
			}
			t = kt
		}
		if err := t.Validate(); err != nil {
			return nil, err
		}
		out = append(out, rangechess.Piece{Type: t, Rank: sq.Rank, File: sq.File})
	}
	return out, nil
}

// armyFrom 自定义摆子优先，其次内置阵型，都没有返回 nil（由 Manager 用默认阵型）
func armyFrom(name string, pieces []PieceDTO) ([]rangechess.Piece, error) {
	if len(pieces) > 0 {
		return dtoToPieces(pieces)
	}
	if name == "" {
		return nil, nil
	}
	f, ok := armies[name]
	if !ok {
		return nil, fmt.Errorf("unknown army %q", name)
	}
	return f(), nil
}

func (r NewGameRequest) options() (game.NewGameOptions, error) {
	white, err := armyFrom(r.WhiteArmy, r.White)
	if err != nil {
		return game.NewGameOptions{}, fmt.Errorf("white: %w", err)
	}
	black, err := armyFrom(r.BlackArmy, r.Black)
	if err != nil {
		return game.NewGameOptions{}, fmt.Errorf("black: %w", err)
	}
	return game.NewGameOptions{
		White:     white,
		Black:     black,
		Total:     time.Duration(r.TotalMs) * time.Millisecond,
		Increment: time.Duration(r.IncrementMs) * time.Millisecond,
	}, nil
}
