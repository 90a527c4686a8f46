package model

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeStartingBoard(t *testing.T) {
	buf := Encode(NewBoard())

	tests := []struct {
		slot int
		want []byte
	}{
		{0, []byte{1, 0, 1, 0, 0, 0, 0, 0}},  // black pawn a7
		{8, []byte{1, 0, 6, 1, 0, 0, 0, 0}},  // white pawn a2
		{19, []byte{6, 4, 7, 1, 0, 0, 0, 0}}, // white queen
		{20, []byte{5, 3, 7, 1, 0, 0, 0, 0}}, // white king
		{27, []byte{5, 3, 0, 0, 0, 0, 0, 0}}, // black king
		{31, []byte{2, 7, 0, 0, 0, 0, 0, 0}}, // black rook h8
	}
	for _, tt := range tests {
		got := buf[tt.slot*8 : tt.slot*8+8]
		if !bytes.Equal(got, tt.want) {
			t.Errorf("slot %d: expected %v, got %v", tt.slot, tt.want, got)
		}
	}
}

func TestEncodeMoveCountBigEndian(t *testing.T) {
	b := arrange(t, White, Piece{Kind: Pawn, Square: sq(2, 3), Side: White, Moves: 0x01020304})
	buf := Encode(b)
	if want := []byte{1, 2, 3, 1, 1, 2, 3, 4}; !bytes.Equal(buf[:8], want) {
		t.Errorf("expected %v, got %v", want, buf[:8])
	}
	// Unused slots are dead pieces on a8.
	if !bytes.Equal(buf[8:16], make([]byte, 8)) {
		t.Errorf("expected a zeroed dead slot, got %v", buf[8:16])
	}
}

func TestCodecRoundTripThroughGame(t *testing.T) {
	b := NewBoard()
	moves := []Move{
		{From: sq(4, 6), To: sq(4, 4)},
		{From: sq(3, 1), To: sq(3, 3)},
		{From: sq(4, 4), To: sq(3, 3)},
		{From: sq(4, 0), To: sq(3, 1)},
		{From: sq(1, 7), To: sq(2, 5)},
		{From: sq(3, 1), To: sq(3, 3)},
	}

	check := func() {
		t.Helper()
		buf := Encode(b)
		got, err := Decode(buf[:], b.Turn())
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if *got != *b {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got.Pieces(), b.Pieces())
		}
		pieces, err := DecodePieces(buf[:])
		if err != nil {
			t.Fatalf("decode pieces: %v", err)
		}
		if pieces != b.Pieces() {
			t.Fatal("decoded pieces differ")
		}
	}

	check()
	for _, m := range moves {
		if _, err := Commit(b, m.From, m.To); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		check()
	}
}

func TestDecodeFailures(t *testing.T) {
	valid := Encode(NewBoard())

	corrupt := func(mutate func(buf []byte)) []byte {
		buf := make([]byte, len(valid))
		copy(buf, valid[:])
		mutate(buf)
		return buf
	}

	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", nil},
		{"short", valid[:255]},
		{"long", append(valid[:], 0)},
		{"unknown kind", corrupt(func(buf []byte) { buf[0] = 7 })},
		{"unknown side", corrupt(func(buf []byte) { buf[3] = 2 })},
		{"off board", corrupt(func(buf []byte) { buf[1] = 8 })},
		{"shared square", corrupt(func(buf []byte) { buf[8+1] = 0 })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Decode(tt.buf, White)
			if !errors.Is(err, ErrDecodeFailed) {
				t.Fatalf("expected ErrDecodeFailed, got %v", err)
			}
			if b != nil {
				t.Fatal("expected no board on failure")
			}
		})
	}
}
