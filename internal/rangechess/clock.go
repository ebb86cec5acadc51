package rangechess

import "time"

// Clock 棋钟。Time 属于当前视角的一方，OpponentTime 属于对方。
type Clock struct {
	Plies        int           `json:"plies"`
	Time         time.Duration `json:"time"`
	OpponentTime time.Duration `json:"opponent_time"`
	Total        time.Duration `json:"total"`
	Increment    time.Duration `json:"increment"`

	// 当前这一步开始思考的时间
	MoveStart time.Time `json:"move_start"`
}

func NewClock(total, increment time.Duration) Clock {
	return Clock{
		Time:         total,
		OpponentTime: total,
		Total:        total,
		Increment:    increment,
	}
}

// Flip 交换双方剩余时间，其余不变
func (c Clock) Flip() Clock {
	c.Time, c.OpponentTime = c.OpponentTime, c.Time
	return c
}

// Charge 给当前视角的一方扣时；超时返回 false，否则加上步时并计一手
func (c *Clock) Charge(elapsed time.Duration) bool {
	c.Plies++
	c.Time -= elapsed
	if c.Time < 0 {
		return false
	}
	c.Time += c.Increment
	return true
}
