package model

import "errors"

var (
	ErrGameOver        = errors.New("game is over")
	ErrOutOfBounds     = errors.New("square out of bounds")
	ErrNoPiece         = errors.New("no piece at from square")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrIllegalMove     = errors.New("illegal move")
	ErrSelfCheck       = errors.New("move leaves king in check")
	ErrInvalidPosition = errors.New("invalid position")
)
