package engine

import (
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"rangechess/internal/rangechess"
)

const (
	// LossScore 行棋方没有王（已输）
	LossScore = -KingValue
	// WinScore 找到必胜后直接采用的分数
	WinScore = KingValue
	// WinThreshold 超过这个分数视为已经赢了
	WinThreshold = 9000

	// StartDepth 迭代加深从 2 层开始
	StartDepth = 2
	// DefaultMaxDepth 不限时搜索时的默认深度
	DefaultMaxDepth = 3
	// SafetyMaxDepth 限时搜索时迭代深度的硬上限，时钟异常也能结束
	SafetyMaxDepth = 24
	// MaxPly 递归深度硬上限
	MaxPly = 64

	defaultWidth = 3
)

// DefaultWidths 每一轮迭代（按深度）保留的候选数：越深越窄
var DefaultWidths = map[int]int{1: 9, 2: 8, 3: 7, 4: 6, 5: 5, 6: 5, 7: 4, 8: 4}

// SearchConfig 搜索配置
type SearchConfig struct {
	TimeLimit  time.Duration   // 时间预算（0 表示不限时，只按 MaxDepth 搜）
	MaxDepth   int             // 最大迭代深度（ply）
	StartDepth int             // 第一轮深度，0 用 StartDepth
	Parallel   bool            // 根节点各着法并行
	Widths     map[int]int     // 覆盖 DefaultWidths
	OnDepth    func(DepthInfo) // 每完成一轮迭代回调一次
}

// DepthInfo 一轮迭代完成后的快照
type DepthInfo struct {
	Depth   int
	Score   int
	Move    rangechess.Move
	Nodes   int64
	Elapsed time.Duration
}

// SearchResult 搜索结果
type SearchResult struct {
	Move     rangechess.Move   // 最佳着法（输入局面行棋方的视角）
	Found    bool              // false：行棋方已输或无子可动
	Score    int               // 行棋方视角的评估分
	Depth    int               // 最后完成的迭代深度
	Nodes    int64             // 节点数
	TimeUsed time.Duration     // 花费时间
	PV       []rangechess.Move // 主变；第 i 步是第 i 个局面行棋方视角下的走法
	Tree     *Node             // 最后一轮的结果树
}

// Node 一个局面的搜索结果：分数、最佳子节点下标、按生成顺序排列的子节点
type Node struct {
	Score    int
	Best     int
	Children []Child
}

// Child 一步棋及其结果。Board 是走完后翻转到下一手行棋方视角的局面。
type Child struct {
	Move  rangechess.Move
	Score int
	Board rangechess.Board
	Sub   *Node
}

func lossNode() *Node {
	return &Node{Score: LossScore, Best: -1}
}

// BestChild 最佳子节点；没有时返回 nil
func (n *Node) BestChild() *Child {
	if n == nil || n.Best < 0 || n.Best >= len(n.Children) {
		return nil
	}
	return &n.Children[n.Best]
}

type searchState struct {
	deadline time.Time
	width    int
	parallel bool
}

func (e *Engine) expired(st *searchState) bool {
	return !st.deadline.IsZero() && e.now().After(st.deadline)
}

// ChooseMove 给定时间预算选一步；行棋方已输或无着法时返回 false
func (e *Engine) ChooseMove(b *rangechess.Board, budget time.Duration) (rangechess.Move, bool) {
	if budget <= 0 {
		budget = time.Nanosecond
	}
	res := e.Search(b, SearchConfig{TimeLimit: budget})
	return res.Move, res.Found
}

// Search 迭代加深：从 2 层开始，每轮把上一轮的结果树作为缓存，只深入得分靠前的着法。
// 第一轮一定会跑完（超时的话退化为 1 层），之后按时间继续加深。
func (e *Engine) Search(b *rangechess.Board, cfg SearchConfig) SearchResult {
	if !b.PlayerTurn {
		// 换到行棋方视角搜索，再把根着法翻回来
		flipped := b.Flip()
		res := e.Search(&flipped, cfg)
		res.Move = res.Move.Flip()
		if len(res.PV) > 0 {
			res.PV[0] = res.PV[0].Flip()
		}
		return res
	}

	start := e.now()
	e.resetNodes()

	maxDepth := cfg.MaxDepth
	var deadline time.Time
	if cfg.TimeLimit > 0 {
		deadline = start.Add(cfg.TimeLimit)
		if maxDepth <= 0 || maxDepth > SafetyMaxDepth {
			maxDepth = SafetyMaxDepth
		}
	} else if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	first := cfg.StartDepth
	if first <= 0 {
		first = StartDepth
	}
	if maxDepth < first {
		maxDepth = first
	}

	res := SearchResult{Score: LossScore}
	var tree *Node
	for depth := first; depth <= maxDepth; depth++ {
		st := &searchState{
			deadline: deadline,
			width:    widthFor(cfg.Widths, depth),
			parallel: cfg.Parallel,
		}
		tree = e.searchDepth(b, depth, tree, st, 0)

		res.Depth = depth
		res.Score = tree.Score
		res.Tree = tree
		if best := tree.BestChild(); best != nil {
			res.Move = best.Move
			res.Found = true
		} else {
			res.Found = false
		}
		res.Nodes = e.Nodes()

		elapsed := e.now().Sub(start)
		e.logf("depth %d score %d move %+v nodes %d time %v", depth, tree.Score, res.Move, res.Nodes, elapsed)
		if cfg.OnDepth != nil {
			cfg.OnDepth(DepthInfo{Depth: depth, Score: tree.Score, Move: res.Move, Nodes: res.Nodes, Elapsed: elapsed})
		}

		if !res.Found || tree.Score > WinThreshold {
			break
		}
		if !deadline.IsZero() && !e.now().Before(deadline) {
			break
		}
	}

	res.PV = principalVariation(tree)
	res.TimeUsed = e.now().Sub(start)
	return res
}

func widthFor(widths map[int]int, depth int) int {
	if w, ok := widths[depth]; ok && w > 0 {
		return w
	}
	if w, ok := DefaultWidths[depth]; ok {
		return w
	}
	return defaultWidth
}

func principalVariation(n *Node) []rangechess.Move {
	var pv []rangechess.Move
	for c := n.BestChild(); c != nil && len(pv) < MaxPly; c = c.Sub.BestChild() {
		pv = append(pv, c.Move)
	}
	return pv
}

// searchDepth negamax 递归。b 必须是行棋方视角（PlayerTurn 为 true）。
// prior 是上一轮同一局面的结果；有的话只重搜其中得分最高的 width 个着法。
func (e *Engine) searchDepth(b *rangechess.Board, depth int, prior *Node, st *searchState, ply int) *Node {
	e.countNode()

	if !b.HasKing(rangechess.PlayerSide) {
		return lossNode()
	}
	// 超时不直接中断，只把剩余深度压到 1 层
	if depth > 1 && e.expired(st) {
		depth = 1
	}
	if ply >= MaxPly {
		depth = 0
	}

	var children []Child
	if prior != nil && len(prior.Children) > 0 {
		kept := topChildren(prior.Children, st.width)
		for i := range kept {
			if kept[i].Score > WinThreshold {
				// 已经找到必胜，直接采用
				return &Node{Score: WinScore, Best: 0, Children: kept[i : i+1]}
			}
		}
		children = e.deepen(kept, depth, st, ply)
	} else {
		children = e.expand(b, depth, st, ply)
	}

	if len(children) == 0 {
		return lossNode()
	}

	best := 0
	for i := 1; i < len(children); i++ {
		if children[i].Score > children[best].Score {
			best = i
		}
	}
	return &Node{Score: children[best].Score, Best: best, Children: children}
}

// topChildren 按分数从高到低稳定排序后取前 width 个（复制，不改 prior）
func topChildren(children []Child, width int) []Child {
	sorted := append([]Child(nil), children...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	if width > 0 && len(sorted) > width {
		sorted = sorted[:width]
	}
	return sorted
}

// deepen 对缓存里保留下来的着法再搜一层，复用它们已经算好的局面
func (e *Engine) deepen(kept []Child, depth int, st *searchState, ply int) []Child {
	if depth == 0 {
		return kept
	}
	e.forEach(len(kept), st.parallel && ply == 0, func(i int) {
		c := &kept[i]
		sub := e.searchDepth(&c.Board, depth-1, c.Sub, st, ply+1)
		c.Score = -sub.Score
		c.Sub = sub
	})
	return kept
}

// expand 生成所有着法并逐个评估
func (e *Engine) expand(b *rangechess.Board, depth int, st *searchState, ply int) []Child {
	moves := rangechess.LegalMoves(b)
	if len(moves) == 0 {
		return nil
	}

	children := make([]Child, len(moves))
	for i, m := range moves {
		nb, _, ok := rangechess.ApplyMove(b, m)
		if !ok {
			continue
		}
		children[i] = Child{Move: m, Board: nb}
	}

	e.forEach(len(children), st.parallel && ply == 0, func(i int) {
		c := &children[i]
		after := c.Board
		c.Board = after.Flip()

		d := depth
		// 叶子层升变：多看一层，让新后的威力体现在分数里
		if d == 0 && rangechess.Promotes(b, c.Move) {
			d = 1
		}
		if d == 0 {
			c.Score = Evaluate(&after)
			return
		}
		sub := e.searchDepth(&c.Board, d-1, nil, st, ply+1)
		c.Score = -sub.Score
		c.Sub = sub
	})
	return children
}

// forEach 根节点可以并行：每个分支只碰自己的局面副本
func (e *Engine) forEach(n int, parallel bool, fn func(i int)) {
	if !parallel || n < 2 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}
