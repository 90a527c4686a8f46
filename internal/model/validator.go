package model

import "fmt"

// MoveVerdict is the outcome of evaluating one proposed move.
type MoveVerdict struct {
	CanMove    bool `json:"canMove"`
	CanCapture bool `json:"canCapture"`
}

// Occupancy answers which side, if any, has a live piece on a square.
type Occupancy interface {
	SideAt(sq Square) (Side, bool)
}

// Validate decides whether the live piece on from may move to to. It panics
// if from holds no live piece: the caller's selection and the board disagree.
func Validate(b *Board, from, to Square) MoveVerdict {
	mover, _, ok := b.PieceAt(from)
	if !ok {
		panic(fmt.Sprintf("model: validate from %s: no live piece", from))
	}
	return verdict(mover, to, b)
}

func verdict(mover Piece, to Square, occ Occupancy) MoveVerdict {
	if !to.Valid() {
		return MoveVerdict{}
	}
	legal, captures := pieceMove(mover, to, occ)
	if !legal {
		return MoveVerdict{}
	}
	defender, occupied := occ.SideAt(to)
	if !occupied {
		return MoveVerdict{CanMove: true}
	}
	if defender != mover.Side && captures {
		return MoveVerdict{CanMove: true, CanCapture: true}
	}
	return MoveVerdict{}
}

// pieceMove reports whether the move fits the mover's geometry and whether
// the mover may take a piece standing on the target.
func pieceMove(mover Piece, to Square, occ Occupancy) (legal, captures bool) {
	switch mover.Kind {
	case Pawn:
		return pawnMove(mover, to, occ)
	case Rook:
		return rookMove(mover.Square, to, occ), true
	case Knight:
		return knightMove(mover.Square, to), true
	case Bishop:
		return bishopMove(mover.Square, to, occ), true
	case Queen:
		return queenMove(mover.Square, to, occ), true
	case King:
		return kingMove(mover.Square, to), true
	}
	return false, false
}

// forward is the row direction a pawn of the side advances in.
func forward(s Side) int {
	if s == White {
		return -1
	}
	return 1
}

func pawnMove(pawn Piece, to Square, occ Occupancy) (legal, captures bool) {
	dir := forward(pawn.Side)
	from := pawn.Square

	if to.Col == from.Col {
		if one, ok := from.Offset(0, dir); ok && one == to {
			_, occupied := occ.SideAt(to)
			return !occupied, false
		}
		// The square jumped over is not checked.
		if two, ok := from.Offset(0, 2*dir); ok && two == to && pawn.Moves == 0 {
			_, occupied := occ.SideAt(to)
			return !occupied, false
		}
		return false, false
	}

	if Distance(to.Col, from.Col) != 1 {
		return false, false
	}
	if ahead, ok := from.Offset(0, dir); !ok || ahead.Row != to.Row {
		return false, false
	}
	side, occupied := occ.SideAt(to)
	if !occupied || side == pawn.Side {
		return false, false
	}
	return true, true
}

func rookMove(from, to Square, occ Occupancy) bool {
	sameCol := from.Col == to.Col
	sameRow := from.Row == to.Row
	if sameCol == sameRow {
		return false
	}
	return clearBetween(from, to, occ)
}

func bishopMove(from, to Square, occ Occupancy) bool {
	dx := Distance(from.Col, to.Col)
	if dx == 0 || dx != Distance(from.Row, to.Row) {
		return false
	}
	return clearBetween(from, to, occ)
}

func queenMove(from, to Square, occ Occupancy) bool {
	if Distance(from.Col, to.Col) == Distance(from.Row, to.Row) {
		return bishopMove(from, to, occ)
	}
	return rookMove(from, to, occ)
}

// kingMove accepts the king's own square; the occupancy rule in verdict
// rejects it.
func kingMove(from, to Square) bool {
	return Distance(from.Col, to.Col) <= 1 && Distance(from.Row, to.Row) <= 1
}

var knightOffsets = [8][2]int{
	{1, -2}, {-1, -2},
	{1, 2}, {-1, 2},
	{2, 1}, {2, -1},
	{-2, 1}, {-2, -1},
}

func knightMove(from, to Square) bool {
	for _, off := range knightOffsets {
		if sq, ok := from.Offset(off[0], off[1]); ok && sq == to {
			return true
		}
	}
	return false
}

// clearBetween reports whether every square strictly between from and to is
// empty. from and to must share a row, a column or a diagonal.
func clearBetween(from, to Square, occ Occupancy) bool {
	for _, sq := range between(from, to) {
		if _, occupied := occ.SideAt(sq); occupied {
			return false
		}
	}
	return true
}

// between lists the squares strictly between two aligned squares, walking
// from from towards to.
func between(from, to Square) []Square {
	dCol := step(from.Col, to.Col)
	dRow := step(from.Row, to.Row)
	n := int(max(Distance(from.Col, to.Col), Distance(from.Row, to.Row)))
	if n < 2 {
		return nil
	}
	squares := make([]Square, 0, n-1)
	sq := from
	for i := 1; i < n; i++ {
		sq, _ = sq.Offset(dCol, dRow)
		squares = append(squares, sq)
	}
	return squares
}

func step(from, to uint8) int {
	switch {
	case to > from:
		return 1
	case to < from:
		return -1
	}
	return 0
}
