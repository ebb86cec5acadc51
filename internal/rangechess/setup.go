package rangechess

import (
	"errors"
	"fmt"
)

const (
	// SetupMaxRank 开局只能摆在自己前三行
	SetupMaxRank = 2
	// SetupBudget 王以外棋子的总点数上限
	SetupBudget = 200
)

var (
	ErrSetupRank    = errors.New("setup piece beyond the first three ranks")
	ErrSetupBudget  = errors.New("setup exceeds the point budget")
	ErrSetupNoKing  = errors.New("setup has no king")
	ErrSetupOverlap = errors.New("setup places two pieces on one square")
)

// SetupCost 王以外棋子的总点数
func SetupCost(pieces []Piece) int {
	total := 0
	for _, p := range pieces {
		if !p.Type.IsKing() {
			total += p.Type.Price()
		}
	}
	return total
}

// ValidateSetup 检查一方自己视角下的开局摆放
func ValidateSetup(pieces []Piece) error {
	var seen [Ranks][Files]bool
	hasKing := false
	for _, p := range pieces {
		if err := p.Type.Validate(); err != nil {
			return err
		}
		if !onBoard(p.Rank, p.File) {
			return fmt.Errorf("%w: (%d,%d)", ErrInvalidSquare, p.Rank, p.File)
		}
		if p.Rank > SetupMaxRank {
			return fmt.Errorf("%w: %s", ErrSetupRank, p.Square())
		}
		if seen[p.Rank][p.File] {
			return fmt.Errorf("%w: %s", ErrSetupOverlap, p.Square())
		}
		seen[p.Rank][p.File] = true
		if p.Type.IsKing() {
			hasKing = true
		}
	}
	if cost := SetupCost(pieces); cost > SetupBudget {
		return fmt.Errorf("%w: %d > %d", ErrSetupBudget, cost, SetupBudget)
	}
	if !hasKing {
		return ErrSetupNoKing
	}
	return nil
}

// NewBoard 白方作为 Player；黑方按它自己的视角给出，翻转后放进 Opponent。白先。
func NewBoard(white, black []Piece) (Board, error) {
	if err := ValidateSetup(white); err != nil {
		return Board{}, fmt.Errorf("white: %w", err)
	}
	if err := ValidateSetup(black); err != nil {
		return Board{}, fmt.Errorf("black: %w", err)
	}
	b := Board{
		Player:     append([]Piece(nil), white...),
		Opponent:   make([]Piece, len(black)),
		PlayerTurn: true,
	}
	for i, p := range black {
		b.Opponent[i] = p.Flip()
	}
	return b, nil
}

// 内置 AI 用过的几种兵种
var (
	ClassicPawn   = PieceType{Attack: MustRange(1, 0, 0, 0, 0, 0, 0, 0), Movement: MustRange(2, 1, 0, 0, 0, 0, 0, 0)}
	ClassicBishop = PieceType{Attack: MustRange(1, 1, 0, 0, 0, 0, 0, 1), Movement: MustRange(1, 0, 0, 0, 0, 0, 0, 0)}
	ClassicRook   = PieceType{Attack: MustRange(0, 0, 2, 0, 0, 0, 1, 0), Movement: MustRange(0, 0, 0, 0, 0, 0, 1, 0)}
	WallPawn      = PieceType{Attack: MustRange(1, 0, 0, 0, 0, 0, 0, 0), Movement: MustRange(1, 0, 0, 0, 0, 0, 0, 0)}
)

// ClassicArmy 兵、象、车混编，正好 200 点
func ClassicArmy() []Piece {
	return []Piece{
		{Type: ClassicPawn, Rank: 2, File: 0},
		{Type: ClassicPawn, Rank: 2, File: 1},
		{Type: ClassicPawn, Rank: 2, File: 2},
		{Type: ClassicPawn, Rank: 2, File: 3},
		{Type: ClassicBishop, Rank: 1, File: 1},
		{Type: ClassicBishop, Rank: 1, File: 3},
		{Type: ClassicRook, Rank: 0, File: 2},
		{Type: ClassicRook, Rank: 0, File: 6},
		{Type: King, Rank: 0, File: 0},
	}
}

// PawnWall 两排只会直走的兵
func PawnWall() []Piece {
	pieces := []Piece{
		{Type: WallPawn, Rank: 2, File: 3},
		{Type: WallPawn, Rank: 2, File: 4},
	}
	for f := 0; f < Files; f++ {
		pieces = append(pieces, Piece{Type: WallPawn, Rank: 1, File: f})
	}
	return append(pieces, Piece{Type: King, Rank: 0, File: 3})
}
