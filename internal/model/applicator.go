package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNotYourTurn = errors.New("not your turn")
)

// Apply commits a validated move. Nothing changes when the verdict forbids
// the move or the mover's side is not on turn. A verdict that disagrees with
// the board panics.
func (b *Board) Apply(from, to Square, v MoveVerdict) error {
	if !v.CanMove {
		return ErrIllegalMove
	}
	mover, moverID, ok := b.PieceAt(from)
	if !ok {
		panic(fmt.Sprintf("model: apply from %s: no live piece", from))
	}
	if mover.Side != b.turn {
		return ErrNotYourTurn
	}

	defender, defenderID, occupied := b.PieceAt(to)
	switch {
	case v.CanCapture && (!occupied || defender.Side == mover.Side):
		panic(fmt.Sprintf("model: apply %s-%s: capture verdict without an enemy on target", from, to))
	case !v.CanCapture && occupied:
		panic(fmt.Sprintf("model: apply %s-%s: target occupied by %s %s", from, to, defender.Side, defender.Kind))
	}

	if v.CanCapture {
		b.pieces[defenderID].Kind = Dead
		b.index[to.Col][to.Row] = 0
	}

	b.index[from.Col][from.Row] = 0
	b.index[to.Col][to.Row] = uint8(moverID) + 1
	p := &b.pieces[moverID]
	p.Square = to
	if p.Moves < math.MaxUint32 {
		p.Moves++
	}

	b.turn = b.turn.Opponent()
	return nil
}

// Commit validates the move of the piece on from and applies it.
func Commit(b *Board, from, to Square) (MoveVerdict, error) {
	v := Validate(b, from, to)
	if err := b.Apply(from, to, v); err != nil {
		return v, err
	}
	return v, nil
}
