package rangechess

import (
	"errors"
	"fmt"
)

// Direction 八个罗盘方向，N 指向对方底线（rank 增大）
type Direction int8

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW

	NumDirections = 8
)

// MaxRange 单方向最远能达到的格数
const MaxRange = 8

// 每个方向的 (dRank, dFile)
var dirDelta = [NumDirections][2]int{
	N:  {1, 0},
	NE: {1, 1},
	E:  {0, 1},
	SE: {-1, 1},
	S:  {-1, 0},
	SW: {-1, -1},
	W:  {0, -1},
	NW: {1, -1},
}

// 翻转视角后的方向：上下镜像，东西不变
var flippedDir = [NumDirections]Direction{
	N:  S,
	NE: SE,
	E:  E,
	SE: NE,
	S:  N,
	SW: NW,
	W:  W,
	NW: SW,
}

var dirNames = [NumDirections]string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
	return dirNames[d]
}

// Delta 返回该方向单步的 (dRank, dFile)
func (d Direction) Delta() (int, int) {
	return dirDelta[d][0], dirDelta[d][1]
}

// Flip 换到对方视角后的方向
func (d Direction) Flip() Direction { return flippedDir[d] }

var ErrInvalidRange = errors.New("range magnitude out of [0,8]")

// Range 能力档案：每个方向能够到达的格数
type Range [NumDirections]int

// NewRange 按 N, NE, E, SE, S, SW, W, NW 的顺序构造；越界直接报错，不做截断
func NewRange(n, ne, e, se, s, sw, w, nw int) (Range, error) {
	r := Range{N: n, NE: ne, E: e, SE: se, S: s, SW: sw, W: w, NW: nw}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// MustRange 用于包级常量
func MustRange(n, ne, e, se, s, sw, w, nw int) Range {
	r, err := NewRange(n, ne, e, se, s, sw, w, nw)
	if err != nil {
		panic(err)
	}
	return r
}

// Uniform 所有方向同一个值
func Uniform(v int) Range {
	return MustRange(v, v, v, v, v, v, v, v)
}

func (r Range) Validate() error {
	for d, v := range r {
		if v < 0 || v > MaxRange {
			return fmt.Errorf("%w: %s=%d", ErrInvalidRange, Direction(d), v)
		}
	}
	return nil
}

// Flip 从对方视角看的同一档案
func (r Range) Flip() Range {
	var out Range
	for d := Direction(0); d < NumDirections; d++ {
		out[d.Flip()] = r[d]
	}
	return out
}

// IsZero 所有方向都是 0
func (r Range) IsZero() bool {
	return r == Range{}
}

func (r Range) dot(o Range) int {
	total := 0
	for d := range r {
		total += r[d] * o[d]
	}
	return total
}

// 向前的能力更贵
var (
	movementPrices = MustRange(4, 3, 2, 1, 1, 1, 2, 3)
	attackPrices   = MustRange(5, 4, 3, 2, 2, 2, 3, 4)
)

const basePrice = 10
