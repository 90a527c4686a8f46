// Package notation renders boards in standard chess text formats.
package notation

import (
	"github.com/notnil/chess"

	"github.com/benbeisheim/emailchess-backend/internal/model"
)

var pieceTypes = map[model.PieceKind]chess.PieceType{
	model.Pawn:   chess.Pawn,
	model.Rook:   chess.Rook,
	model.Knight: chess.Knight,
	model.Bishop: chess.Bishop,
	model.Queen:  chess.Queen,
	model.King:   chess.King,
}

func square(sq model.Square) chess.Square {
	// Row 0 is rank 8.
	rank := chess.Rank(model.BoardSize - 1 - int(sq.Row))
	file := chess.File(sq.Col)
	return chess.Square(int(rank)*8 + int(file))
}

func color(s model.Side) chess.Color {
	if s == model.White {
		return chess.White
	}
	return chess.Black
}

func toChess(b *model.Board) *chess.Board {
	m := make(map[chess.Square]chess.Piece, model.NumPieces)
	for _, p := range b.LivePieces() {
		m[square(p.Square)] = chess.NewPiece(pieceTypes[p.Kind], color(p.Side))
	}
	return chess.NewBoard(m)
}

// FEN returns the piece placement field of the board's FEN.
func FEN(b *model.Board) string {
	return toChess(b).String()
}

// Diagram returns a text drawing of the board, rank 8 at the top.
func Diagram(b *model.Board) string {
	return toChess(b).Draw()
}
