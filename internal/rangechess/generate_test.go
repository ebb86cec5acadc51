package rangechess

import (
	"errors"
	"reflect"
	"sort"
	"testing"
)

func sortedSquares(sqs []Square) []Square {
	out := append([]Square(nil), sqs...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].File < out[j].File
	})
	return out
}

func TestKingCornerHasThreeTargets(t *testing.T) {
	b := Board{Player: []Piece{{Type: King, Rank: 0, File: 0}}, PlayerTurn: true}
	got := sortedSquares(LegalTargets(&b, PlayerSide, 0))
	want := []Square{{0, 1}, {1, 0}, {1, 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("king corner targets: got=%v want=%v", got, want)
	}
}

func TestKingCenterHasEightTargets(t *testing.T) {
	b := Board{Player: []Piece{{Type: King, Rank: 4, File: 4}}, PlayerTurn: true}
	if got := len(LegalTargets(&b, PlayerSide, 0)); got != 8 {
		t.Fatalf("king center targets: got=%d want=8", got)
	}
}

func TestKingCannotCapture(t *testing.T) {
	b := Board{
		Player:     []Piece{{Type: King, Rank: 0, File: 0}},
		Opponent:   []Piece{{Type: WallPawn, Rank: 1, File: 1}},
		PlayerTurn: true,
	}
	for _, sq := range LegalTargets(&b, PlayerSide, 0) {
		if sq == (Square{1, 1}) {
			t.Fatalf("king with zero attack captured on %s", sq)
		}
	}
}

func TestQueenOnEmptyBoard(t *testing.T) {
	cases := []struct {
		sq   Square
		want int
	}{
		{Square{3, 3}, 27},
		{Square{0, 0}, 21},
		{Square{0, 3}, 21},
	}
	for _, tc := range cases {
		b := Board{Player: []Piece{{Type: Queen, Rank: tc.sq.Rank, File: tc.sq.File}}, PlayerTurn: true}
		if got := len(LegalTargets(&b, PlayerSide, 0)); got != tc.want {
			t.Fatalf("queen on %s: got=%d want=%d", tc.sq, got, tc.want)
		}
	}
}

func TestRayStopsAtFirstPiece(t *testing.T) {
	b := Board{
		Player: []Piece{
			{Type: Queen, Rank: 0, File: 0},
			{Type: WallPawn, Rank: 3, File: 0},
		},
		Opponent:   []Piece{{Type: WallPawn, Rank: 0, File: 4}},
		PlayerTurn: true,
	}
	targets := LegalTargets(&b, PlayerSide, 0)
	for _, sq := range targets {
		if sq.File == 0 && sq.Rank >= 3 {
			t.Fatalf("ray passed own piece: %s", sq)
		}
		if sq.Rank == 0 && sq.File > 4 {
			t.Fatalf("ray passed enemy piece: %s", sq)
		}
	}
	found := false
	for _, sq := range targets {
		if sq == (Square{0, 4}) {
			found = true
		}
	}
	if !found {
		t.Fatalf("queen should capture on e1, targets=%v", targets)
	}
}

func TestNeverTargetsOwnPiece(t *testing.T) {
	b, err := NewBoard(ClassicArmy(), ClassicArmy())
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	own := map[Square]bool{}
	for _, p := range b.Player {
		own[p.Square()] = true
	}
	for _, m := range LegalMoves(&b) {
		if own[m.Target()] {
			t.Fatalf("move %+v lands on own piece", m)
		}
	}
}

func TestAttackAndMovementRangesAreIndependent(t *testing.T) {
	// 只能向北吃两格，向北走一格
	lancer := PieceType{Attack: MustRange(2, 0, 0, 0, 0, 0, 0, 0), Movement: MustRange(1, 0, 0, 0, 0, 0, 0, 0)}

	t.Run("CaptureBeyondMovement", func(t *testing.T) {
		b := Board{
			Player:     []Piece{{Type: lancer, Rank: 1, File: 0}},
			Opponent:   []Piece{{Type: WallPawn, Rank: 3, File: 0}},
			PlayerTurn: true,
		}
		got := sortedSquares(LegalTargets(&b, PlayerSide, 0))
		want := []Square{{2, 0}, {3, 0}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("got=%v want=%v", got, want)
		}
	})

	t.Run("NoMoveBeyondMovement", func(t *testing.T) {
		b := Board{Player: []Piece{{Type: lancer, Rank: 1, File: 0}}, PlayerTurn: true}
		got := LegalTargets(&b, PlayerSide, 0)
		if len(got) != 1 || got[0] != (Square{2, 0}) {
			t.Fatalf("got=%v want=[a3]", got)
		}
	})

	t.Run("NoCaptureWithoutAttack", func(t *testing.T) {
		b := Board{
			Player:     []Piece{{Type: WallPawn, Rank: 1, File: 0}},
			Opponent:   []Piece{{Type: WallPawn, Rank: 2, File: 1}},
			PlayerTurn: true,
		}
		for _, sq := range LegalTargets(&b, PlayerSide, 0) {
			if sq == (Square{2, 1}) {
				t.Fatalf("captured diagonally without attack range")
			}
		}
	})
}

func TestBoxedInPieceHasNoTargets(t *testing.T) {
	b := Board{
		Player: []Piece{
			{Type: King, Rank: 0, File: 0},
			{Type: WallPawn, Rank: 1, File: 0},
			{Type: WallPawn, Rank: 1, File: 1},
			{Type: WallPawn, Rank: 0, File: 1},
		},
		PlayerTurn: true,
	}
	if got := LegalTargets(&b, PlayerSide, 0); len(got) != 0 {
		t.Fatalf("boxed king targets: %v", got)
	}
}

func TestLegalTargetsOnlyForActiveSide(t *testing.T) {
	b := Board{
		Player:     []Piece{{Type: King, Rank: 0, File: 0}},
		Opponent:   []Piece{{Type: King, Rank: 7, File: 7}},
		PlayerTurn: true,
	}
	if got := LegalTargets(&b, OpponentSide, 0); len(got) != 0 {
		t.Fatalf("inactive side got targets: %v", got)
	}
	if got := Targets(&b, OpponentSide, 0); len(got) != 3 {
		t.Fatalf("visualization targets: got=%d want=3", len(got))
	}

	all := AllLegalMoves(&b)
	if len(all[Square{7, 7}]) != 0 {
		t.Fatalf("all legal moves lists inactive targets: %v", all[Square{7, 7}])
	}
	if len(all[Square{0, 0}]) != 3 {
		t.Fatalf("all legal moves for king: %v", all[Square{0, 0}])
	}
}

func TestOpponentTurnCapturesPlayer(t *testing.T) {
	// Opponent 的类型是翻转过的：它的“北”在 Player 视角里是南
	b := Board{
		Player:     []Piece{{Type: King, Rank: 0, File: 0}, {Type: WallPawn, Rank: 4, File: 3}},
		Opponent:   []Piece{{Type: WallPawn.Flip(), Rank: 5, File: 3}, {Type: King, Rank: 7, File: 7}},
		PlayerTurn: false,
	}
	m, ok := MoveFromSquares(&b, Square{5, 3}, Square{4, 3})
	if !ok {
		t.Fatalf("opponent pawn should capture d5")
	}
	nb, captured, ok := ApplyMove(&b, m)
	if !ok || !captured.Captured {
		t.Fatalf("apply capture failed: ok=%v captured=%+v", ok, captured)
	}
	if len(nb.Player) != 1 || !nb.PlayerTurn {
		t.Fatalf("unexpected board after capture: %+v", nb)
	}
}

func TestCheckMove(t *testing.T) {
	b, err := NewBoard(ClassicArmy(), PawnWall())
	if err != nil {
		t.Fatalf("new board: %v", err)
	}
	for _, m := range LegalMoves(&b) {
		if !CheckMove(&b, m) {
			t.Fatalf("generated move rejected: %+v", m)
		}
	}
	bad := []Move{
		{Piece: 0, Rank: 7, File: 0},
		{Piece: 99, Rank: 3, File: 0},
		{Piece: 0, Rank: -1, File: 0},
		{Piece: 8, Rank: 1, File: 1}, // 王走到自己象的格子
	}
	for _, m := range bad {
		if CheckMove(&b, m) {
			t.Fatalf("illegal move accepted: %+v", m)
		}
	}
	if _, ok := MoveFromSquares(&b, Square{6, 0}, Square{5, 0}); ok {
		t.Fatalf("moved a piece of the side not to move")
	}
}

func TestApplyMovePromotion(t *testing.T) {
	b := Board{
		Player: []Piece{
			{Type: ClassicPawn, Rank: 6, File: 0},
			{Type: King, Rank: 6, File: 7},
		},
		Opponent:   []Piece{{Type: King, Rank: 7, File: 4}},
		PlayerTurn: true,
	}

	nb, _, ok := ApplyMove(&b, Move{Piece: 0, Rank: 7, File: 0})
	if !ok {
		t.Fatalf("apply failed")
	}
	if nb.Player[0].Type != Queen {
		t.Fatalf("pawn on far rank did not promote: %+v", nb.Player[0])
	}
	if b.Player[0].Type != ClassicPawn || b.Player[0].Rank != 6 {
		t.Fatalf("ApplyMove mutated its input")
	}
	if nb.PlayerTurn {
		t.Fatalf("turn not passed")
	}

	kb, _, ok := ApplyMove(&b, Move{Piece: 1, Rank: 7, File: 7})
	if !ok {
		t.Fatalf("apply failed")
	}
	if kb.Player[1].Type != King {
		t.Fatalf("king promoted: %+v", kb.Player[1])
	}
}

func TestApplyMoveCapturesKing(t *testing.T) {
	b := Board{
		Player:     []Piece{{Type: Queen, Rank: 0, File: 0}, {Type: King, Rank: 0, File: 7}},
		Opponent:   []Piece{{Type: King, Rank: 5, File: 0}},
		PlayerTurn: true,
	}
	m, ok := MoveFromSquares(&b, Square{0, 0}, Square{5, 0})
	if !ok {
		t.Fatalf("queen should reach a6")
	}
	nb, captured, _ := ApplyMove(&b, m)
	if !captured.King() {
		t.Fatalf("expected king capture, got %+v", captured)
	}
	if nb.HasKing(OpponentSide) {
		t.Fatalf("opponent king still on board")
	}
}

func TestNewRangeRejectsOutOfBounds(t *testing.T) {
	if _, err := NewRange(9, 0, 0, 0, 0, 0, 0, 0); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := NewRange(0, 0, 0, 0, -1, 0, 0, 0); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := NewPieceType(Range{}, Range{N: 12}); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
}
