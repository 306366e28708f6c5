package service

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameOver      = errors.New("game is over")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrIllegalMove   = errors.New("illegal move")
	ErrOutOfBounds   = errors.New("square out of bounds")
	ErrInvalidMode   = errors.New("invalid game mode")
	ErrInvalidColor  = errors.New("invalid color")
	ErrOpponentsTurn = errors.New("the computer is to move")
)
