// Package app is the facade that turns HTTP requests into operations on a
// World, a player Registry, and a leaderboard Store, under one lock. It is
// the only place in the module that knows about all three.
package app

import "errors"

var (
	// ErrInvalidToken means the Authorization header was missing or not
	// shaped like a bearer token (not 32 lowercase hex characters).
	ErrInvalidToken = errors.New("app: invalid authorization token")

	// ErrUnknownToken means the header was well-formed but names no live
	// player.
	ErrUnknownToken = errors.New("app: unknown authorization token")

	// ErrUnknownMap means the requested map id is not in the catalog.
	ErrUnknownMap = errors.New("app: unknown map")

	// ErrDuplicateName means another live dog in the target session
	// already has the requested name.
	ErrDuplicateName = errors.New("app: player name already in use")

	// ErrEmptyName means a join request supplied a blank name.
	ErrEmptyName = errors.New("app: player name must not be empty")

	// ErrInvalidMove means an action request's move value was not one of
	// the four directions or the empty (stand) string.
	ErrInvalidMove = errors.New("app: invalid move")
)
