package game

import "errors"

// Sequencing errors: a transition was called in the wrong phase or with the
// wrong encounter slot occupancy.
var (
	ErrWrongPhase        = errors.New("wrong turn phase")
	ErrEncounterActive   = errors.New("an encounter is already active")
	ErrNoActiveEncounter = errors.New("no active encounter")
)

// Content errors: referenced data is missing what the operation needs.
var (
	ErrPlayerNotFound   = errors.New("player not found")
	ErrMissingTarget    = errors.New("encounter has no target for intention")
	ErrMissingCharm     = errors.New("encounter has no charm branch")
	ErrInsufficientCoin = errors.New("insufficient coin")
)

// Resource and construction errors.
var (
	ErrDeckExhausted = errors.New("encounter deck exhausted")
	ErrNoPlayers     = errors.New("game must have at least one player")
	ErrMissingRng    = errors.New("an rng is required")
)

// Host errors.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrActionNotAllowed = errors.New("action not allowed")
)
