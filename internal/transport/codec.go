// Package transport wraps the fixed-width board encoding for hand-off to
// clients: the 256 bytes are compressed and then base64-encoded URL-safe
// without padding.
package transport

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"

	"github.com/benbeisheim/emailchess-backend/internal/model"
)

type Compression string

const (
	Brotli Compression = "brotli"
	Zstd   Compression = "zstd"
	None   Compression = "none"
)

func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case Brotli, Zstd, None:
		return c, nil
	}
	return "", fmt.Errorf("unknown compression %q", s)
}

var encoding = base64.RawURLEncoding

// Codec is safe for concurrent use.
type Codec struct {
	compression Compression
	zenc        *zstd.Encoder
	zdec        *zstd.Decoder
}

func NewCodec(c Compression) (*Codec, error) {
	codec := &Codec{compression: c}
	switch c {
	case Brotli, None:
	case Zstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
		if err != nil {
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
		dec, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(1<<20))
		if err != nil {
			enc.Close()
			return nil, fmt.Errorf("create zstd decoder: %w", err)
		}
		codec.zenc, codec.zdec = enc, dec
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
	return codec, nil
}

func (c *Codec) Compression() Compression {
	return c.compression
}

func (c *Codec) Close() {
	if c.zenc != nil {
		c.zenc.Close()
	}
	if c.zdec != nil {
		c.zdec.Close()
	}
}

// Encode returns the transport form of the board's pieces.
func (c *Codec) Encode(b *model.Board) (string, error) {
	raw := model.Encode(b)
	packed, err := c.compress(raw[:])
	if err != nil {
		return "", err
	}
	return encoding.EncodeToString(packed), nil
}

// Decode reverses Encode. Every failure wraps model.ErrDecodeFailed.
func (c *Codec) Decode(s string) ([model.NumPieces]model.Piece, error) {
	var pieces [model.NumPieces]model.Piece
	packed, err := encoding.DecodeString(s)
	if err != nil {
		return pieces, fmt.Errorf("%w: base64: %w", model.ErrDecodeFailed, err)
	}
	raw, err := c.decompress(packed)
	if err != nil {
		return pieces, fmt.Errorf("%w: %s: %w", model.ErrDecodeFailed, c.compression, err)
	}
	return model.DecodePieces(raw)
}

// DecodeBoard decodes s into a board with turn to move.
func (c *Codec) DecodeBoard(s string, turn model.Side) (*model.Board, error) {
	pieces, err := c.Decode(s)
	if err != nil {
		return nil, err
	}
	b, err := model.Arrange(turn, pieces)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrDecodeFailed, err)
	}
	return b, nil
}

func (c *Codec) compress(raw []byte) ([]byte, error) {
	switch c.compression {
	case Brotli:
		var buf bytes.Buffer
		w := brotli.NewWriterLevel(&buf, brotli.BestCompression)
		if _, err := w.Write(raw); err != nil {
			return nil, fmt.Errorf("brotli compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("brotli compress: %w", err)
		}
		return buf.Bytes(), nil
	case Zstd:
		return c.zenc.EncodeAll(raw, nil), nil
	}
	return raw, nil
}

func (c *Codec) decompress(packed []byte) ([]byte, error) {
	switch c.compression {
	case Brotli:
		// One byte past the board size is enough to notice oversized input.
		return io.ReadAll(io.LimitReader(brotli.NewReader(bytes.NewReader(packed)), model.EncodedSize+1))
	case Zstd:
		return c.zdec.DecodeAll(packed, nil)
	}
	return packed, nil
}
