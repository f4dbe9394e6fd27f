package service

import "errors"

// Client-fault validation errors
var (
	ErrUnsupportedGameType = errors.New("unsupported game type")
	ErrBadPlayerCount      = errors.New("num_players must be between 4 and 12")
	ErrMissingGameConfig   = errors.New("game_config is required")
	ErrRoomFull            = errors.New("room is full")
	ErrRoomNotJoinable     = errors.New("room is not accepting players")
	ErrNotHost             = errors.New("only the host can do that")
	ErrNotAllReady         = errors.New("all players must be ready")
	ErrRoomNotFilled       = errors.New("room must be full to start")
	ErrRoleCountMismatch   = errors.New("role counts do not match the player count")
	ErrEmptyLocationPool   = errors.New("no locations available")
)

// Not-found errors, recoverable by the client
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrUserNotFound = errors.New("user not found")
	ErrNotInRoom    = errors.New("user is not in this room")
	ErrGameNotFound = errors.New("game not found")
)

// Conflict errors
var (
	ErrGameAlreadyStarted = errors.New("game already started")
	ErrEmailTaken         = errors.New("email already registered")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
