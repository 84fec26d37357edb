package model

import "errors"

// Common errors used across the application
var (
	// Auth errors
	ErrNotAuthenticated   = errors.New("user not authenticated")
	ErrInvalidCredentials = errors.New("user or password is incorrect")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	// Presence errors
	ErrGamerNotFound   = errors.New("gamer not found")
	ErrPlayersNotFound = errors.New("players not found")
	ErrPeerUnavailable = errors.New("user is no longer available")

	// Game errors
	ErrGameNotFound    = errors.New("game not found")
	ErrNotYourTurn     = errors.New("it is not your turn")
	ErrCellOccupied    = errors.New("cell already selected")
	ErrInvalidPosition = errors.New("invalid board position")
	ErrNotInGame       = errors.New("player is not part of this game")
)
