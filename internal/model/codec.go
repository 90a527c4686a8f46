package model

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	pieceRecordSize = 8
	EncodedSize     = NumPieces * pieceRecordSize
)

var ErrDecodeFailed = errors.New("board decoding failed")

// Encode writes every slot, dead ones included, as an 8-byte record:
// kind, column, row, side, then the move count big-endian.
func Encode(b *Board) [EncodedSize]byte {
	var buf [EncodedSize]byte
	for i, p := range b.pieces {
		rec := buf[i*pieceRecordSize : (i+1)*pieceRecordSize]
		rec[0] = byte(p.Kind)
		rec[1] = p.Square.Col
		rec[2] = p.Square.Row
		rec[3] = byte(p.Side)
		binary.BigEndian.PutUint32(rec[4:], p.Moves)
	}
	return buf
}

// DecodePieces reverses Encode. The whole buffer is checked before anything
// is returned.
func DecodePieces(buf []byte) ([NumPieces]Piece, error) {
	var pieces [NumPieces]Piece
	if len(buf) != EncodedSize {
		return pieces, fmt.Errorf("%w: got %d bytes, want %d", ErrDecodeFailed, len(buf), EncodedSize)
	}
	for i := range pieces {
		rec := buf[i*pieceRecordSize : (i+1)*pieceRecordSize]
		kind := PieceKind(rec[0])
		if !kind.valid() {
			return pieces, fmt.Errorf("%w: slot %d: unknown kind byte %d", ErrDecodeFailed, i, rec[0])
		}
		side := Side(rec[3])
		if side > White {
			return pieces, fmt.Errorf("%w: slot %d: unknown side byte %d", ErrDecodeFailed, i, rec[3])
		}
		pieces[i] = Piece{
			Kind:   kind,
			Square: Square{Col: rec[1], Row: rec[2]},
			Side:   side,
			Moves:  binary.BigEndian.Uint32(rec[4:]),
		}
	}
	return pieces, nil
}

// Decode rebuilds a board from its encoding. The encoding does not carry the
// side to move, so the caller supplies it.
func Decode(buf []byte, turn Side) (*Board, error) {
	pieces, err := DecodePieces(buf)
	if err != nil {
		return nil, err
	}
	b, err := Arrange(turn, pieces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	return b, nil
}
