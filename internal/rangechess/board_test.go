package rangechess

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestRangeFlipIsInvolution(t *testing.T) {
	ranges := []Range{
		MustRange(1, 2, 3, 4, 5, 6, 7, 8),
		ClassicPawn.Movement,
		ClassicRook.Attack,
		Uniform(0),
	}
	for _, r := range ranges {
		if got := r.Flip().Flip(); got != r {
			t.Fatalf("flip twice: got=%v want=%v", got, r)
		}
	}

	r := MustRange(1, 2, 3, 4, 5, 6, 7, 8)
	f := r.Flip()
	if f[N] != r[S] || f[S] != r[N] || f[NE] != r[SE] || f[NW] != r[SW] || f[E] != r[E] || f[W] != r[W] {
		t.Fatalf("unexpected flip: %v -> %v", r, f)
	}
}

func TestPrice(t *testing.T) {
	cases := []struct {
		name string
		pt   PieceType
		want int
	}{
		{"king", King, 27},
		{"queen", Queen, 346},
		{"pawn", ClassicPawn, 26},
		{"bishop", ClassicBishop, 27},
		{"rook", ClassicRook, 21},
		{"wall pawn", WallPawn, 19},
	}
	for _, tc := range cases {
		if got := tc.pt.Price(); got != tc.want {
			t.Fatalf("%s price: got=%d want=%d", tc.name, got, tc.want)
		}
		if got := tc.pt.Flip().Flip().Price(); got != tc.want {
			t.Fatalf("%s double flip price: got=%d want=%d", tc.name, got, tc.want)
		}
	}
	// 向前的能力更贵，翻转后变便宜
	if ClassicPawn.Flip().Price() >= ClassicPawn.Price() {
		t.Fatalf("flipped pawn should be cheaper: %d >= %d", ClassicPawn.Flip().Price(), ClassicPawn.Price())
	}
}

func TestKingAndQueenAreFlipInvariant(t *testing.T) {
	if King.Flip() != King || Queen.Flip() != Queen {
		t.Fatalf("king/queen should be symmetric")
	}
}

func TestBoardFlipIsInvolution(t *testing.T) {
	b, err := NewBoard(ClassicArmy(), PawnWall())
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	f := b.Flip()
	if f.PlayerTurn == b.PlayerTurn {
		t.Fatalf("flip should invert the turn")
	}
	if len(f.Player) != len(b.Opponent) || len(f.Opponent) != len(b.Player) {
		t.Fatalf("flip should swap collections")
	}
	if f.Opponent[0].Rank != LastRank-b.Player[0].Rank {
		t.Fatalf("flip should mirror ranks")
	}
	if got := f.Flip(); !reflect.DeepEqual(got, b) {
		t.Fatalf("flip twice changed the board:\n got=%+v\nwant=%+v", got, b)
	}
}

func TestFlippedBoardKeepsLegalMoves(t *testing.T) {
	b, err := NewBoard(ClassicArmy(), ClassicArmy())
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	// 对方回合的局面，翻转后由 Player 行棋，走法一一对应
	nb, _, _ := ApplyMove(&b, LegalMoves(&b)[0])
	direct := LegalMoves(&nb)
	flipped := nb.Flip()
	viaFlip := LegalMoves(&flipped)
	if len(direct) != len(viaFlip) {
		t.Fatalf("move count differs: %d vs %d", len(direct), len(viaFlip))
	}
	seen := make(map[Move]bool, len(viaFlip))
	for _, m := range viaFlip {
		seen[m] = true
	}
	for _, m := range direct {
		if !seen[m.Flip()] {
			t.Fatalf("move %+v has no flipped counterpart %+v", m, m.Flip())
		}
	}
}

func TestBoardValidate(t *testing.T) {
	b := Board{Player: []Piece{{Type: King, Rank: 0, File: 0}}, Opponent: []Piece{{Type: King, Rank: 0, File: 0}}}
	if err := b.Validate(); err == nil {
		t.Fatalf("overlapping pieces accepted")
	}
	b = Board{Player: []Piece{{Type: King, Rank: 8, File: 0}}}
	if err := b.Validate(); !errors.Is(err, ErrInvalidSquare) {
		t.Fatalf("expected ErrInvalidSquare, got %v", err)
	}
}

func TestSquareNotation(t *testing.T) {
	for _, s := range []string{"a1", "h8", "d4", "e2"} {
		sq, err := ParseSquare(s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		if sq.String() != s {
			t.Fatalf("round trip %q -> %q", s, sq.String())
		}
	}
	sq, _ := ParseSquare("c5")
	if sq != (Square{Rank: 4, File: 2}) {
		t.Fatalf("c5 parsed as %+v", sq)
	}
	for _, s := range []string{"", "i1", "a9", "a0", "a10"} {
		if _, err := ParseSquare(s); !errors.Is(err, ErrInvalidSquare) {
			t.Fatalf("%q: expected ErrInvalidSquare, got %v", s, err)
		}
	}
}

func TestValidateSetup(t *testing.T) {
	if err := ValidateSetup(ClassicArmy()); err != nil {
		t.Fatalf("classic army rejected: %v", err)
	}
	if got := SetupCost(ClassicArmy()); got != SetupBudget {
		t.Fatalf("classic army cost: got=%d want=%d", got, SetupBudget)
	}
	if err := ValidateSetup(PawnWall()); err != nil {
		t.Fatalf("pawn wall rejected: %v", err)
	}

	cases := []struct {
		name   string
		pieces []Piece
		want   error
	}{
		{"TooFar", []Piece{{Type: King, Rank: 0, File: 0}, {Type: WallPawn, Rank: 3, File: 0}}, ErrSetupRank},
		{"NoKing", []Piece{{Type: WallPawn, Rank: 1, File: 0}}, ErrSetupNoKing},
		{"OverBudget", []Piece{{Type: King, Rank: 0, File: 0}, {Type: Queen, Rank: 0, File: 1}}, ErrSetupBudget},
		{"Overlap", []Piece{{Type: King, Rank: 0, File: 0}, {Type: WallPawn, Rank: 0, File: 0}}, ErrSetupOverlap},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateSetup(tc.pieces); !errors.Is(err, tc.want) {
				t.Fatalf("got %v want %v", err, tc.want)
			}
		})
	}
}

func TestNewBoardFlipsBlack(t *testing.T) {
	b, err := NewBoard(PawnWall(), ClassicArmy())
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	if !b.PlayerTurn {
		t.Fatalf("white should move first")
	}
	for _, p := range b.Opponent {
		if p.Rank < LastRank-SetupMaxRank {
			t.Fatalf("black piece on rank %d", p.Rank)
		}
	}
	if b.Opponent[0].Type != ClassicPawn.Flip() {
		t.Fatalf("black types should be flipped")
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestClock(t *testing.T) {
	c := NewClock(10*time.Second, time.Second)
	c.OpponentTime = 4 * time.Second

	f := c.Flip()
	if f.Time != 4*time.Second || f.OpponentTime != 10*time.Second || f.Increment != c.Increment || f.Total != c.Total {
		t.Fatalf("unexpected flip: %+v", f)
	}
	if f.Flip() != c {
		t.Fatalf("flip twice changed the clock")
	}

	if !c.Charge(3 * time.Second) {
		t.Fatalf("charge within budget flagged")
	}
	if c.Time != 8*time.Second || c.Plies != 1 {
		t.Fatalf("after charge: %+v", c)
	}
	if c.Charge(9 * time.Second) {
		t.Fatalf("overdraft not flagged")
	}
}
