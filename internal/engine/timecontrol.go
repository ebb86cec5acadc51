package engine

import (
	"time"

	"rangechess/internal/rangechess"
)

// MinThinkTime 至少给搜索这么多时间
const MinThinkTime = 10 * time.Millisecond

// ThinkTime 按剩余时间比例分配本步用时：Increment × (0.2 + 3 × Time/Total)。
// 结果不低于 MinThinkTime，也不超过剩余时间的一半。
func ThinkTime(c rangechess.Clock) time.Duration {
	budget := MinThinkTime
	if c.Total > 0 {
		ratio := float64(c.Time) / float64(c.Total)
		budget = time.Duration(float64(c.Increment) * (0.2 + 3*ratio))
	}
	if budget < MinThinkTime {
		budget = MinThinkTime
	}
	if half := c.Time / 2; half >= MinThinkTime && budget > half {
		budget = half
	}
	return budget
}
