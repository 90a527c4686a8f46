package service

import "errors"

var (
	ErrGameNotFound = errors.New("game not found")
	ErrGameExists   = errors.New("game already exists")
	ErrGameFull     = errors.New("game is full")
	ErrNotInGame    = errors.New("player not in game")
	ErrNotYourPiece = errors.New("not your piece")
	ErrNoPiece      = errors.New("no piece at from square")
	ErrOffBoard     = errors.New("square is off the board")
)
