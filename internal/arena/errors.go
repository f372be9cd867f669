package arena

import "errors"

var (
	ErrAlreadyStarted = errors.New("match already started")
	ErrEmptyName      = errors.New("player name must not be empty")
	ErrMatchFull      = errors.New("match is full")
	ErrNameTaken      = errors.New("player name already taken")
	ErrNoPlayers      = errors.New("match has no players")
	ErrNotHuman       = errors.New("player is not human-controlled")
	ErrUnknownPlayer  = errors.New("unknown player")
)
