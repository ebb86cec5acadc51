package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"rangechess/internal/engine"
	"rangechess/internal/rangechess"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrIllegalMove  = errors.New("illegal move")
	ErrGameOver     = errors.New("game is over")
	// AI 思考期间局面被别的请求改了
	ErrGameChanged = errors.New("game changed during search")
)

const (
	DefaultTotal     = 5 * time.Minute
	DefaultIncrement = 2 * time.Second
)

// NewGameOptions 新开一局。White/Black 都按各自视角给出，nil 用 ClassicArmy。
type NewGameOptions struct {
	White     []rangechess.Piece
	Black     []rangechess.Piece
	Total     time.Duration
	Increment time.Duration
}

type Strategy string

const (
	StrategyNegamax Strategy = "negamax"
	StrategyRollout Strategy = "rollout"
)

// AIOptions 让 AI 走一步的参数；TimeLimit 为 0 时按棋钟分配
type AIOptions struct {
	Strategy  Strategy
	TimeLimit time.Duration
	MaxDepth  int
	Parallel  bool
	Rollout   engine.RolloutConfig
	OnDepth   func(engine.DepthInfo)
}

// AIResult AI 这一步的信息，格子是白方视角
type AIResult struct {
	From     rangechess.Square
	To       rangechess.Square
	Score    float64
	Depth    int
	Nodes    int64
	TimeUsed time.Duration
	Strategy Strategy
}

type Manager struct {
	mu    sync.RWMutex
	games map[string]*GameState
	now   func() time.Time
}

func NewManager() *Manager {
	return &Manager{games: make(map[string]*GameState), now: time.Now}
}

// SetClock 测试里替换时间来源
func (m *Manager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	m.now = now
}

func (m *Manager) NewGame(opts NewGameOptions) (*GameState, error) {
	white, black := opts.White, opts.Black
	if white == nil {
		white = rangechess.ClassicArmy()
	}
	if black == nil {
		black = rangechess.ClassicArmy()
	}
	board, err := rangechess.NewBoard(white, black)
	if err != nil {
		return nil, err
	}
	total := opts.Total
	if total <= 0 {
		total = DefaultTotal
	}
	inc := opts.Increment
	if inc < 0 {
		inc = 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	clock := rangechess.NewClock(total, inc)
	clock.MoveStart = now
	g := &GameState{
		ID:        uuid.NewString(),
		Board:     board,
		Clock:     clock,
		Status:    StatusOngoing,
		Labels:    assignLabels(white, black),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if len(rangechess.LegalMoves(&g.Board)) == 0 {
		g.Status, g.Reason = wonBy(Black), ReasonNoMoves
	}
	m.games[g.ID] = g
	return g.snapshot(), nil
}

// Get 返回副本，调用方可以随便读
func (m *Manager) Get(id string) (*GameState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	return g.snapshot(), nil
}

// Play 当前行棋方从 from 走到 to
func (m *Manager) Play(id string, from, to rangechess.Square) (*GameState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.games[id]
	if !ok {
		return nil, ErrGameNotFound
	}
	if g.Over() {
		return nil, ErrGameOver
	}
	mv, ok := rangechess.MoveFromSquares(&g.Board, from, to)
	if !ok {
		return nil, fmt.Errorf("%w: %s-%s", ErrIllegalMove, from, to)
	}
	m.apply(g, mv)
	return g.snapshot(), nil
}

// apply 扣时、落子、判胜负。调用方持有写锁，mv 已经校验过。
func (m *Manager) apply(g *GameState, mv rangechess.Move) {
	now := m.now()
	mover := g.ToMove()
	elapsed := now.Sub(g.Clock.MoveStart)

	// 棋钟按行棋方视角扣时
	clock := g.Clock
	if mover == Black {
		clock = clock.Flip()
	}
	inTime := clock.Charge(elapsed)
	if mover == Black {
		clock = clock.Flip()
	}
	g.Clock = clock
	g.UpdatedAt = now

	if !inTime {
		g.Status, g.Reason = wonBy(1-mover), ReasonTime
		return
	}

	side := g.Board.Active()
	piece := g.Board.Pieces(side)[mv.Piece]
	promoted := rangechess.Promotes(&g.Board, mv)
	nb, captured, _ := rangechess.ApplyMove(&g.Board, mv)
	g.Board = nb
	g.Clock.MoveStart = now
	g.History = append(g.History, MoveRecord{
		Color:    mover,
		From:     piece.Square(),
		To:       mv.Target(),
		Captured: captured.Captured,
		Promoted: promoted,
		Elapsed:  elapsed,
	})

	switch {
	case captured.King():
		g.Status, g.Reason = wonBy(mover), ReasonKingCaptured
	case len(rangechess.LegalMoves(&g.Board)) == 0:
		g.Status, g.Reason = wonBy(mover), ReasonNoMoves
	}
}

// AIMove 让 eng 替当前行棋方走一步。搜索时不持锁。
func (m *Manager) AIMove(id string, eng *engine.Engine, opts AIOptions) (*GameState, AIResult, error) {
	m.mu.RLock()
	g, ok := m.games[id]
	if !ok {
		m.mu.RUnlock()
		return nil, AIResult{}, ErrGameNotFound
	}
	if g.Over() {
		m.mu.RUnlock()
		return nil, AIResult{}, ErrGameOver
	}
	board := g.Board.Clone()
	clock := g.Clock
	plies := g.Clock.Plies
	mover := g.ToMove()
	m.mu.RUnlock()

	// 换到行棋方视角：Board 翻过来由 Player 行棋，棋钟也跟着翻
	view := board
	if mover == Black {
		view = board.Flip()
		clock = clock.Flip()
	}
	budget := opts.TimeLimit
	if budget <= 0 {
		budget = engine.ThinkTime(clock)
	}

	res := AIResult{Strategy: opts.Strategy}
	var mv rangechess.Move
	var found bool
	switch opts.Strategy {
	case StrategyRollout:
		r := eng.Rollout(&view, opts.Rollout)
		mv, found = r.Move, r.Found
		res.Score = r.Score
		res.Depth = opts.Rollout.Depth
		res.Nodes = eng.Nodes()
	default:
		res.Strategy = StrategyNegamax
		r := eng.Search(&view, engine.SearchConfig{
			TimeLimit: budget,
			MaxDepth:  opts.MaxDepth,
			Parallel:  opts.Parallel,
			OnDepth:   opts.OnDepth,
		})
		mv, found = r.Move, r.Found
		res.Score = float64(r.Score)
		res.Depth = r.Depth
		res.Nodes = r.Nodes
		res.TimeUsed = r.TimeUsed
	}
	if !found {
		// 行棋方已经没有着法：按无子可动判负
		m.mu.Lock()
		defer m.mu.Unlock()
		if g.Clock.Plies == plies && !g.Over() {
			g.Status, g.Reason = wonBy(1-mover), ReasonNoMoves
			g.UpdatedAt = m.now()
		}
		return g.snapshot(), res, nil
	}
	if mover == Black {
		mv = mv.Flip()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g.Clock.Plies != plies || g.Over() {
		return nil, res, ErrGameChanged
	}
	if !rangechess.CheckMove(&g.Board, mv) {
		return nil, res, fmt.Errorf("%w: engine move %+v", ErrIllegalMove, mv)
	}
	res.From = g.Board.Pieces(g.Board.Active())[mv.Piece].Square()
	res.To = mv.Target()
	m.apply(g, mv)
	return g.snapshot(), res, nil
}

// Evaluate 白方视角的静态评估
func (m *Manager) Evaluate(id string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.games[id]
	if !ok {
		return 0, ErrGameNotFound
	}
	return engine.Evaluate(&g.Board), nil
}
