package engine

import (
	"log"
	"sync/atomic"
	"time"
)

// Engine 搜索器。本身不保存局面，可以反复调用；同一时间只跑一个搜索。
type Engine struct {
	nodes int64

	// 可替换的时钟，测试里用假时钟模拟超时
	now func() time.Time

	logger *log.Logger

	// Verbose 为 true 时每完成一层打印一行
	Verbose bool
}

func NewEngine() *Engine {
	return &Engine{
		now:    time.Now,
		logger: log.Default(),
	}
}

// SetClock 替换时钟；nil 恢复为 time.Now
func (e *Engine) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	e.now = now
}

func (e *Engine) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	e.logger = l
}

// Nodes 最近一次搜索访问的节点数
func (e *Engine) Nodes() int64 {
	return atomic.LoadInt64(&e.nodes)
}

func (e *Engine) resetNodes() {
	atomic.StoreInt64(&e.nodes, 0)
}

func (e *Engine) countNode() {
	atomic.AddInt64(&e.nodes, 1)
}

func (e *Engine) logf(format string, args ...any) {
	if e.Verbose && e.logger != nil {
		e.logger.Printf(format, args...)
	}
}
