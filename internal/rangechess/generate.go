package rangechess

// Targets 对 side 一方第 idx 个棋子做射线扫描，不看轮次（界面上显示用）。
// 每个方向逐格前进：出界即停；空格在移动范围内可走，敌子在攻击范围内可吃；
// 碰到任何棋子后这个方向到此为止。
func Targets(b *Board, side Side, idx int) []Square {
	pieces := b.Pieces(side)
	if idx < 0 || idx >= len(pieces) {
		return nil
	}
	return targetsWith(b.occupancy(), side, pieces[idx], nil)
}

func targetsWith(occ occupancy, side Side, pc Piece, out []Square) []Square {
	enemy := sideCell(side.Other())
	for d := Direction(0); d < NumDirections; d++ {
		move, attack := pc.Type.Movement[d], pc.Type.Attack[d]
		if move == 0 && attack == 0 {
			continue
		}
		dr, df := d.Delta()
		for i := 1; i <= MaxRange; i++ {
			r, f := pc.Rank+dr*i, pc.File+df*i
			if !onBoard(r, f) {
				break
			}
			cell := occ[r][f]
			if (i <= move && cell == cellEmpty) || (i <= attack && cell == enemy) {
				out = append(out, Square{Rank: r, File: f})
			}
			if cell != cellEmpty {
				break
			}
		}
	}
	return out
}

// LegalTargets 只给当前行棋方生成
func LegalTargets(b *Board, side Side, idx int) []Square {
	if side != b.Active() {
		return nil
	}
	return Targets(b, side, idx)
}

// LegalMoves 当前行棋方的所有合法走法，按集合顺序、方向顺序排列
func LegalMoves(b *Board) []Move {
	side := b.Active()
	occ := b.occupancy()
	var moves []Move
	var buf []Square
	for i, pc := range b.Pieces(side) {
		buf = targetsWith(occ, side, pc, buf[:0])
		for _, sq := range buf {
			moves = append(moves, Move{Piece: i, Rank: sq.Rank, File: sq.File})
		}
	}
	return moves
}

// AllLegalMoves 每个棋子所在格 -> 它的合法目标；不在行棋方的棋子对应空列表
func AllLegalMoves(b *Board) map[Square][]Square {
	occ := b.occupancy()
	active := b.Active()
	out := make(map[Square][]Square, len(b.Player)+len(b.Opponent))
	for _, side := range [2]Side{PlayerSide, OpponentSide} {
		for _, pc := range b.Pieces(side) {
			targets := []Square{}
			if side == active {
				targets = targetsWith(occ, side, pc, targets)
			}
			out[pc.Square()] = targets
		}
	}
	return out
}

// CheckMove 校验一步棋是否合法
func CheckMove(b *Board, m Move) bool {
	if !onBoard(m.Rank, m.File) {
		return false
	}
	for _, sq := range LegalTargets(b, b.Active(), m.Piece) {
		if sq.Rank == m.Rank && sq.File == m.File {
			return true
		}
	}
	return false
}

// MoveFromSquares 把 from -> to 转成 Move；from 上必须是行棋方的棋子
func MoveFromSquares(b *Board, from, to Square) (Move, bool) {
	side, idx, ok := b.PieceAt(from)
	if !ok || side != b.Active() {
		return Move{}, false
	}
	m := Move{Piece: idx, Rank: to.Rank, File: to.File}
	if !CheckMove(b, m) {
		return Move{}, false
	}
	return m, true
}

// Capture 一步棋吃掉的子
type Capture struct {
	Piece    Piece
	Captured bool
}

func (c Capture) King() bool { return c.Captured && c.Piece.Type.IsKing() }

// 行棋方的对方底线
func farRank(side Side) int {
	if side == PlayerSide {
		return LastRank
	}
	return 0
}

// ApplyMove 走子并返回新局面，不修改 b。这里不做合法性检查（由上层检查）。
// 非王非后的棋子到达对方底线升变为后。
func ApplyMove(b *Board, m Move) (Board, Capture, bool) {
	side := b.Active()
	own := b.Pieces(side)
	if m.Piece < 0 || m.Piece >= len(own) || !onBoard(m.Rank, m.File) {
		return Board{}, Capture{}, false
	}

	var captured Capture
	enemy := b.Pieces(side.Other())
	rest := make([]Piece, 0, len(enemy))
	for _, p := range enemy {
		if p.Rank == m.Rank && p.File == m.File {
			captured = Capture{Piece: p, Captured: true}
			continue
		}
		rest = append(rest, p)
	}

	moved := append([]Piece(nil), own...)
	pc := moved[m.Piece]
	pc.Rank, pc.File = m.Rank, m.File
	if m.Rank == farRank(side) && !pc.Type.IsKing() && !pc.Type.IsQueen() {
		pc.Type = Queen
	}
	moved[m.Piece] = pc

	nb := Board{PlayerTurn: !b.PlayerTurn}
	if side == PlayerSide {
		nb.Player, nb.Opponent = moved, rest
	} else {
		nb.Player, nb.Opponent = rest, moved
	}
	return nb, captured, true
}

// Promotes 这一步是否会升变
func Promotes(b *Board, m Move) bool {
	side := b.Active()
	own := b.Pieces(side)
	if m.Piece < 0 || m.Piece >= len(own) {
		return false
	}
	t := own[m.Piece].Type
	return m.Rank == farRank(side) && !t.IsKing() && !t.IsQueen()
}
