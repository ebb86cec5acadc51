package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"rangechess/internal/engine"
	"rangechess/internal/rangechess"
	"rangechess/internal/server/game"
)

// Settings 请求里没给的参数从这里取（来自配置文件/命令行）
type Settings struct {
	Total     time.Duration
	Increment time.Duration
	AI        game.AIOptions
}

var DefaultSettings = Settings{
	Total:     game.DefaultTotal,
	Increment: game.DefaultIncrement,
	AI: game.AIOptions{
		Strategy: game.StrategyNegamax,
		Parallel: true,
		Rollout: engine.RolloutConfig{
			Depth: engine.DefaultRolloutDepth,
			Count: engine.DefaultRolloutCount,
		},
	},
}

// Handler 处理 /api/* 请求。对局在内存里，本地跑足够了。
type Handler struct {
	games    *game.Manager
	settings Settings
	hub      *SearchHub

	// 引擎的节点计数是共享的，一次只跑一个搜索
	engMu sync.Mutex
	eng   *engine.Engine
}

func NewHandler(games *game.Manager, eng *engine.Engine, settings Settings) *Handler {
	if games == nil {
		games = game.NewManager()
	}
	if eng == nil {
		eng = engine.NewEngine()
	}
	return &Handler{
		games:    games,
		settings: settings,
		hub:      NewSearchHub(),
		eng:      eng,
	}
}

func (h *Handler) Hub() *SearchHub {
	return h.hub
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"ok": true})
}

func (h *Handler) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	opts, err := req.options()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.TotalMs <= 0 {
		opts.Total = h.settings.Total
		if req.IncrementMs <= 0 {
			opts.Increment = h.settings.Increment
		}
	}

	g, err := h.games.NewGame(opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("new game %s", g.ID)
	writeJSON(w, gameToDTO(g))
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	g, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, gameToDTO(g))
}

func (h *Handler) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req PlayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	from, err := rangechess.ParseSquare(req.Move.From)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	to, err := rangechess.ParseSquare(req.Move.To)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.games.Play(req.GameID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, gameToDTO(g))
}

func (h *Handler) handleAiMove(w http.ResponseWriter, r *http.Request) {
	var req AiMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	before, err := h.games.Get(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	opts, err := h.aiOptions(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.hub.HasClients() {
		opts.OnDepth = h.progressPublisher(before)
	}

	h.engMu.Lock()
	g, res, err := h.games.AIMove(req.GameID, h.eng, opts)
	h.engMu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	resp := AiMoveResponse{
		GameResponse: gameToDTO(g),
		Strategy:     string(res.Strategy),
		Score:        res.Score,
		Depth:        res.Depth,
		Nodes:        res.Nodes,
		TimeMs:       res.TimeUsed.Milliseconds(),
	}
	if res.From != res.To {
		resp.BestMove = MoveDTO{From: res.From.String(), To: res.To.String()}
	}
	writeJSON(w, resp)
}

func (h *Handler) aiOptions(req AiMoveRequest) (game.AIOptions, error) {
	opts := h.settings.AI
	switch req.Strategy {
	case "":
	case string(game.StrategyNegamax), string(game.StrategyRollout):
		opts.Strategy = game.Strategy(req.Strategy)
	default:
		return opts, errors.New("unknown strategy " + req.Strategy)
	}
	if req.TimeMs > 0 {
		opts.TimeLimit = time.Duration(req.TimeMs) * time.Millisecond
	}
	if req.MaxDepth > 0 {
		opts.MaxDepth = req.MaxDepth
	}
	if req.Parallel != nil {
		opts.Parallel = *req.Parallel
		opts.Rollout.Parallel = *req.Parallel
	}
	if req.RolloutDepth > 0 {
		opts.Rollout.Depth = req.RolloutDepth
	}
	if req.RolloutCount > 0 {
		opts.Rollout.Count = req.RolloutCount
	}
	if req.Seed != nil {
		opts.Rollout.Seed = *req.Seed
	}
	return opts, nil
}

// progressPublisher 把搜索视角下的着法换回棋盘坐标再推给前端
func (h *Handler) progressPublisher(g *game.GameState) func(engine.DepthInfo) {
	view := g.Board
	black := g.ToMove() == game.Black
	if black {
		view = g.Board.Flip()
	}
	return func(info engine.DepthInfo) {
		payload := searchPayload{
			GameID:    g.ID,
			Depth:     info.Depth,
			Score:     info.Score,
			Nodes:     info.Nodes,
			ElapsedMs: info.Elapsed.Milliseconds(),
		}
		if info.Move.Piece >= 0 && info.Move.Piece < len(view.Player) {
			from := view.Player[info.Move.Piece].Square()
			to := info.Move.Target()
			if black {
				from, to = from.Flip(), to.Flip()
			}
			payload.Move = MoveDTO{From: from.String(), To: to.String()}
		}
		h.hub.Publish(payload)
	}
}

func (h *Handler) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req StateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	score, err := h.games.Evaluate(req.GameID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, EvaluateResponse{GameID: req.GameID, Score: score})
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, game.ErrIllegalMove):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, game.ErrGameOver), errors.Is(err, game.ErrGameChanged):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		log.Println("request error:", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("writeJSON error:", err)
	}
}
