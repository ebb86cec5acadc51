package rangechess

// PieceType 由攻击档案和移动档案决定，值相等即同一种棋子
type PieceType struct {
	Attack   Range `json:"attack"`
	Movement Range `json:"movement"`
}

var (
	// King 不能吃子，八个方向各走一格
	King = PieceType{Attack: Uniform(0), Movement: Uniform(1)}
	// Queen 八个方向都是 8
	Queen = PieceType{Attack: Uniform(MaxRange), Movement: Uniform(MaxRange)}
)

func NewPieceType(attack, movement Range) (PieceType, error) {
	if err := attack.Validate(); err != nil {
		return PieceType{}, err
	}
	if err := movement.Validate(); err != nil {
		return PieceType{}, err
	}
	return PieceType{Attack: attack, Movement: movement}, nil
}

func (t PieceType) Validate() error {
	if err := t.Attack.Validate(); err != nil {
		return err
	}
	return t.Movement.Validate()
}

// Price 点数：10 + 攻击加权 + 移动加权
func (t PieceType) Price() int {
	return basePrice + attackPrices.dot(t.Attack) + movementPrices.dot(t.Movement)
}

func (t PieceType) Flip() PieceType {
	return PieceType{Attack: t.Attack.Flip(), Movement: t.Movement.Flip()}
}

func (t PieceType) IsKing() bool  { return t == King }
func (t PieceType) IsQueen() bool { return t == Queen }

// Side 棋盘上的两组棋子
type Side int8

const (
	PlayerSide   Side = 0
	OpponentSide Side = 1
)

func (s Side) Other() Side {
	if s == PlayerSide {
		return OpponentSide
	}
	return PlayerSide
}

func (s Side) String() string {
	if s == PlayerSide {
		return "player"
	}
	return "opponent"
}

// Piece 棋子身份由它在 Board 集合里的下标决定，不按字段比较
type Piece struct {
	Type PieceType `json:"type"`
	Rank int       `json:"rank"`
	File int       `json:"file"`
}

func (p Piece) Square() Square { return Square{Rank: p.Rank, File: p.File} }

// Flip 换到对方视角：类型翻转，rank 镜像
func (p Piece) Flip() Piece {
	return Piece{Type: p.Type.Flip(), Rank: LastRank - p.Rank, File: p.File}
}

// Move 行棋方集合里的下标 + 目标格
type Move struct {
	Piece int `json:"piece"`
	Rank  int `json:"rank"`
	File  int `json:"file"`
}

func (m Move) Target() Square { return Square{Rank: m.Rank, File: m.File} }

// Flip 翻转后集合互换但行棋方不变，所以下标保持
func (m Move) Flip() Move {
	return Move{Piece: m.Piece, Rank: LastRank - m.Rank, File: m.File}
}
