package model

import (
	"errors"
	"testing"
)

// arrange builds a board holding only the given live pieces; the remaining
// slots are dead.
func arrange(t *testing.T, turn Side, live ...Piece) *Board {
	t.Helper()
	var pieces [NumPieces]Piece
	copy(pieces[:], live)
	b, err := Arrange(turn, pieces)
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	return b
}

func sq(col, row uint8) Square {
	return Square{Col: col, Row: row}
}

func TestNewBoardLayout(t *testing.T) {
	b := NewBoard()
	if b.Turn() != White {
		t.Fatalf("expected white to move, got %s", b.Turn())
	}
	if n := len(b.LivePieces()); n != NumPieces {
		t.Fatalf("expected %d live pieces, got %d", NumPieces, n)
	}

	tests := []struct {
		square Square
		kind   PieceKind
		side   Side
	}{
		{sq(0, 0), Rook, Black},
		{sq(3, 0), King, Black},
		{sq(4, 0), Queen, Black},
		{sq(6, 0), Knight, Black},
		{sq(5, 1), Pawn, Black},
		{sq(2, 6), Pawn, White},
		{sq(3, 7), King, White},
		{sq(4, 7), Queen, White},
		{sq(5, 7), Bishop, White},
		{sq(7, 7), Rook, White},
	}
	for _, tt := range tests {
		p, _, ok := b.PieceAt(tt.square)
		if !ok {
			t.Errorf("%s: expected a piece", tt.square)
			continue
		}
		if p.Kind != tt.kind || p.Side != tt.side {
			t.Errorf("%s: expected %s %s, got %s %s", tt.square, tt.side, tt.kind, p.Side, p.Kind)
		}
	}

	for row := uint8(2); row < 6; row++ {
		for col := uint8(0); col < BoardSize; col++ {
			if b.Occupied(sq(col, row)) {
				t.Errorf("%s: expected empty square", sq(col, row))
			}
		}
	}
}

func TestArrangeRejectsSharedSquares(t *testing.T) {
	var pieces [NumPieces]Piece
	pieces[0] = Piece{Kind: Rook, Square: sq(2, 2), Side: White}
	pieces[1] = Piece{Kind: Knight, Square: sq(2, 2), Side: Black}

	if _, err := Arrange(White, pieces); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}

	// A dead piece does not hold its square.
	pieces[1].Kind = Dead
	b, err := Arrange(White, pieces)
	if err != nil {
		t.Fatalf("arrange with dead piece: %v", err)
	}
	p, _, _ := b.PieceAt(sq(2, 2))
	if p.Kind != Rook {
		t.Fatalf("expected the rook on c6, got %s", p.Kind)
	}
}

func TestArrangeRejectsOffBoardSquares(t *testing.T) {
	var pieces [NumPieces]Piece
	pieces[5] = Piece{Kind: Pawn, Square: sq(8, 1), Side: White}
	if _, err := Arrange(White, pieces); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}

func TestSquare(t *testing.T) {
	tests := []struct {
		square Square
		name   string
		dark   bool
	}{
		{sq(0, 0), "a8", false},
		{sq(1, 0), "b8", true},
		{sq(0, 1), "a7", true},
		{sq(4, 6), "e2", false},
		{sq(7, 7), "h1", false},
	}
	for _, tt := range tests {
		if got := tt.square.String(); got != tt.name {
			t.Errorf("(%d,%d): expected %s, got %s", tt.square.Col, tt.square.Row, tt.name, got)
		}
		if got := tt.square.Dark(); got != tt.dark {
			t.Errorf("%s: expected dark=%t", tt.name, tt.dark)
		}
	}

	if _, ok := sq(0, 0).Offset(-1, 2); ok {
		t.Error("offset off the left edge should fail")
	}
	if _, ok := sq(7, 7).Offset(1, 0); ok {
		t.Error("offset off the right edge should fail")
	}
	if got, ok := sq(3, 3).Offset(2, -1); !ok || got != sq(5, 2) {
		t.Errorf("expected f6, got %s (%t)", got, ok)
	}
}

func TestTextMarshalling(t *testing.T) {
	for kind := Dead; kind <= Queen; kind++ {
		text, err := kind.MarshalText()
		if err != nil {
			t.Fatalf("marshal %d: %v", kind, err)
		}
		var got PieceKind
		if err := got.UnmarshalText(text); err != nil || got != kind {
			t.Errorf("%s: round trip gave %s, %v", text, got, err)
		}
	}
	if _, err := PieceKind(7).MarshalText(); err == nil {
		t.Error("expected an error for an unknown kind")
	}

	var s Side
	if err := s.UnmarshalText([]byte("white")); err != nil || s != White {
		t.Errorf("expected white, got %s, %v", s, err)
	}
	if err := s.UnmarshalText([]byte("red")); err == nil {
		t.Error("expected an error for an unknown side")
	}
}

func TestGeometry(t *testing.T) {
	if !IsEven(uint8(0)) || IsEven(uint8(3)) || !IsOdd(7) {
		t.Error("parity is wrong")
	}
	tests := []struct{ a, b, want uint8 }{
		{0, 7, 7},
		{7, 0, 7},
		{3, 3, 0},
		{5, 2, 3},
	}
	for _, tt := range tests {
		if got := Distance(tt.a, tt.b); got != tt.want {
			t.Errorf("Distance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
