package model

import (
	"errors"
	"fmt"
)

const (
	BoardSize = 8
	NumPieces = 32
)

var ErrInvalidBoard = errors.New("invalid board")

type PieceKind uint8

// Values match the kind byte of the board encoding.
const (
	Dead   PieceKind = 0
	Pawn   PieceKind = 1
	Rook   PieceKind = 2
	Knight PieceKind = 3
	Bishop PieceKind = 4
	King   PieceKind = 5
	Queen  PieceKind = 6
)

var kindNames = map[PieceKind]string{
	Dead:   "dead",
	Pawn:   "pawn",
	Rook:   "rook",
	Knight: "knight",
	Bishop: "bishop",
	King:   "king",
	Queen:  "queen",
}

func (k PieceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PieceKind(%d)", uint8(k))
}

func (k PieceKind) valid() bool {
	return k <= Queen
}

// Notation returns the short label drawn for the piece on a board.
func (k PieceKind) Notation() string {
	switch k {
	case Pawn:
		return "P"
	case Rook:
		return "R"
	case Knight:
		return "Kn"
	case Bishop:
		return "B"
	case King:
		return "Ki"
	case Queen:
		return "Q"
	}
	return ""
}

func (k PieceKind) MarshalText() ([]byte, error) {
	if !k.valid() {
		return nil, fmt.Errorf("unknown piece kind %d", uint8(k))
	}
	return []byte(k.String()), nil
}

func (k *PieceKind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", text)
}

type Side uint8

// Values match the side byte of the board encoding.
const (
	Black Side = 0
	White Side = 1
)

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

func (s Side) String() string {
	switch s {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

func (s Side) MarshalText() ([]byte, error) {
	if s > White {
		return nil, fmt.Errorf("unknown side %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	switch string(text) {
	case "black":
		*s = Black
	case "white":
		*s = White
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// Square is a board coordinate. Column 0 is the a-file, row 0 is rank 8
// (black's back rank).
type Square struct {
	Col uint8 `json:"col"`
	Row uint8 `json:"row"`
}

func (sq Square) Valid() bool {
	return sq.Col < BoardSize && sq.Row < BoardSize
}

// Offset shifts the square, reporting false when the result leaves the board.
func (sq Square) Offset(dCol, dRow int) (Square, bool) {
	col := int(sq.Col) + dCol
	row := int(sq.Row) + dRow
	if col < 0 || col >= BoardSize || row < 0 || row >= BoardSize {
		return Square{}, false
	}
	return Square{Col: uint8(col), Row: uint8(row)}, true
}

// Dark reports the checkerboard shade of the square.
func (sq Square) Dark() bool {
	return IsEven(sq.Row) != IsEven(sq.Col)
}

func (sq Square) String() string {
	if !sq.Valid() {
		return fmt.Sprintf("(%d,%d)", sq.Col, sq.Row)
	}
	return fmt.Sprintf("%c%d", sq.Col+97, BoardSize-int(sq.Row))
}

type Piece struct {
	Kind   PieceKind `json:"kind"`
	Square Square    `json:"square"`
	Side   Side      `json:"side"`
	Moves  uint32    `json:"moves"`
}

func (p Piece) Live() bool {
	return p.Kind != Dead
}

// PieceID is the stable slot of a piece for the lifetime of a game.
type PieceID uint8

// Board holds the 32 piece slots of a game and whose turn it is. Captured
// pieces stay in their slot as Dead so the slot count never changes.
type Board struct {
	pieces [NumPieces]Piece
	// index[col][row] is the slot of the live piece on the square plus one,
	// zero when the square is empty.
	index [BoardSize][BoardSize]uint8
	turn  Side
}

var startingPieces = func() [NumPieces]Piece {
	var pieces [NumPieces]Piece
	for col := uint8(0); col < BoardSize; col++ {
		pieces[col] = Piece{Kind: Pawn, Square: Square{Col: col, Row: 1}, Side: Black}
		pieces[BoardSize+col] = Piece{Kind: Pawn, Square: Square{Col: col, Row: 6}, Side: White}
	}
	white := []struct {
		kind PieceKind
		col  uint8
	}{
		{Rook, 0}, {Knight, 1}, {Bishop, 2}, {Queen, 4}, {King, 3}, {Bishop, 5}, {Knight, 6}, {Rook, 7},
	}
	for i, p := range white {
		pieces[16+i] = Piece{Kind: p.kind, Square: Square{Col: p.col, Row: 7}, Side: White}
	}
	back := []PieceKind{Rook, Knight, Bishop, King, Queen, Bishop, Knight, Rook}
	for i, kind := range back {
		pieces[24+i] = Piece{Kind: kind, Square: Square{Col: uint8(i), Row: 0}, Side: Black}
	}
	return pieces
}()

// NewBoard returns the starting position with white to move.
func NewBoard() *Board {
	b, err := Arrange(White, startingPieces)
	if err != nil {
		panic(err)
	}
	return b
}

// Arrange builds a board from explicit slots. Every square must be on the
// board and no two live pieces may share a square.
func Arrange(turn Side, pieces [NumPieces]Piece) (*Board, error) {
	if turn > White {
		return nil, fmt.Errorf("%w: unknown side to move %d", ErrInvalidBoard, turn)
	}
	b := &Board{pieces: pieces, turn: turn}
	for id, p := range pieces {
		if !p.Kind.valid() {
			return nil, fmt.Errorf("%w: slot %d has unknown kind %d", ErrInvalidBoard, id, p.Kind)
		}
		if p.Side > White {
			return nil, fmt.Errorf("%w: slot %d has unknown side %d", ErrInvalidBoard, id, p.Side)
		}
		if !p.Square.Valid() {
			return nil, fmt.Errorf("%w: slot %d is off the board at %s", ErrInvalidBoard, id, p.Square)
		}
		if !p.Live() {
			continue
		}
		if other, _, ok := b.PieceAt(p.Square); ok {
			return nil, fmt.Errorf("%w: %s %s and %s %s both on %s",
				ErrInvalidBoard, other.Side, other.Kind, p.Side, p.Kind, p.Square)
		}
		b.index[p.Square.Col][p.Square.Row] = uint8(id) + 1
	}
	return b, nil
}

func (b *Board) Turn() Side {
	return b.turn
}

// Pieces returns a copy of all slots, dead ones included, in slot order.
func (b *Board) Pieces() [NumPieces]Piece {
	return b.pieces
}

func (b *Board) Piece(id PieceID) Piece {
	return b.pieces[id]
}

// PieceAt returns the live piece on sq.
func (b *Board) PieceAt(sq Square) (Piece, PieceID, bool) {
	if !sq.Valid() {
		return Piece{}, 0, false
	}
	slot := b.index[sq.Col][sq.Row]
	if slot == 0 {
		return Piece{}, 0, false
	}
	id := PieceID(slot - 1)
	return b.pieces[id], id, true
}

// SideAt reports the side of the live piece on sq, if any.
func (b *Board) SideAt(sq Square) (Side, bool) {
	p, _, ok := b.PieceAt(sq)
	return p.Side, ok
}

func (b *Board) Occupied(sq Square) bool {
	_, _, ok := b.PieceAt(sq)
	return ok
}

// LivePieces returns the pieces still in play, in slot order.
func (b *Board) LivePieces() []Piece {
	live := make([]Piece, 0, NumPieces)
	for _, p := range b.pieces {
		if p.Live() {
			live = append(live, p)
		}
	}
	return live
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	c := *b
	return &c
}
