package rangechess

import (
	"errors"
	"fmt"
)

const (
	Ranks    = 8
	Files    = 8
	LastRank = Ranks - 1
)

const (
	fileLetters = "abcdefgh"
	rankDigits  = "12345678"
)

var ErrInvalidSquare = errors.New("invalid square")

// Square 坐标，rank 从当前视角的底线算起
type Square struct {
	Rank int `json:"rank"`
	File int `json:"file"`
}

func onBoard(rank, file int) bool {
	return rank >= 0 && rank < Ranks && file >= 0 && file < Files
}

func (s Square) OnBoard() bool { return onBoard(s.Rank, s.File) }

func (s Square) Flip() Square { return Square{Rank: LastRank - s.Rank, File: s.File} }

// String 代数记法，例如 a1、h8
func (s Square) String() string {
	if !s.OnBoard() {
		return "??"
	}
	return string([]byte{fileLetters[s.File], rankDigits[s.Rank]})
}

func ParseSquare(str string) (Square, error) {
	if len(str) != 2 {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, str)
	}
	file := int(str[0]) - 'a'
	rank := int(str[1]) - '1'
	if !onBoard(rank, file) {
		return Square{}, fmt.Errorf("%w: %q", ErrInvalidSquare, str)
	}
	return Square{Rank: rank, File: file}, nil
}

// Board 两组棋子 + 轮次。Player 的底线是 rank 0；
// PlayerTurn 为 true 时 Player 一方行棋，否则 Opponent 行棋。
type Board struct {
	Player     []Piece `json:"player"`
	Opponent   []Piece `json:"opponent"`
	PlayerTurn bool    `json:"player_turn"`
}

// Active 当前行棋的一方
func (b *Board) Active() Side {
	if b.PlayerTurn {
		return PlayerSide
	}
	return OpponentSide
}

func (b *Board) Pieces(side Side) []Piece {
	if side == PlayerSide {
		return b.Player
	}
	return b.Opponent
}

// PieceAt 返回占据该格的一方和下标
func (b *Board) PieceAt(sq Square) (Side, int, bool) {
	for i, p := range b.Player {
		if p.Rank == sq.Rank && p.File == sq.File {
			return PlayerSide, i, true
		}
	}
	for i, p := range b.Opponent {
		if p.Rank == sq.Rank && p.File == sq.File {
			return OpponentSide, i, true
		}
	}
	return PlayerSide, -1, false
}

func (b *Board) HasKing(side Side) bool {
	for _, p := range b.Pieces(side) {
		if p.Type.IsKing() {
			return true
		}
	}
	return false
}

// Clone 深拷贝两个切片
func (b *Board) Clone() Board {
	return Board{
		Player:     append([]Piece(nil), b.Player...),
		Opponent:   append([]Piece(nil), b.Opponent...),
		PlayerTurn: b.PlayerTurn,
	}
}

// Flip 同一个局面换对方视角：集合互换，类型翻转，rank 镜像，轮次取反
func (b *Board) Flip() Board {
	out := Board{
		Player:     make([]Piece, len(b.Opponent)),
		Opponent:   make([]Piece, len(b.Player)),
		PlayerTurn: !b.PlayerTurn,
	}
	for i, p := range b.Opponent {
		out.Player[i] = p.Flip()
	}
	for i, p := range b.Player {
		out.Opponent[i] = p.Flip()
	}
	return out
}

// Validate 坐标在盘内、没有重叠、档案合法
func (b *Board) Validate() error {
	var seen [Ranks][Files]bool
	for _, side := range [2]Side{PlayerSide, OpponentSide} {
		for _, p := range b.Pieces(side) {
			if !onBoard(p.Rank, p.File) {
				return fmt.Errorf("%w: %s piece at (%d,%d)", ErrInvalidSquare, side, p.Rank, p.File)
			}
			if seen[p.Rank][p.File] {
				return fmt.Errorf("two pieces on %s", p.Square())
			}
			seen[p.Rank][p.File] = true
			if err := p.Type.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

const (
	cellEmpty int8 = iota
	cellPlayer
	cellOpponent
)

type occupancy [Ranks][Files]int8

func (b *Board) occupancy() occupancy {
	var occ occupancy
	for _, p := range b.Player {
		occ[p.Rank][p.File] = cellPlayer
	}
	for _, p := range b.Opponent {
		occ[p.Rank][p.File] = cellOpponent
	}
	return occ
}

func sideCell(side Side) int8 {
	if side == PlayerSide {
		return cellPlayer
	}
	return cellOpponent
}
