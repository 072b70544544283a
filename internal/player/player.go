// Package player tracks the players connected to a running server: their
// bearer tokens, which dog and session they control, and the Retired record
// written for a player whose dog was pulled from a session for idling too
// long.
package player

import "errors"

// ErrUnknownToken is returned by Registry.ByToken for a well-formed token
// that does not belong to any live player. Distinguishing this from a
// malformed token is the caller's job -- it needs the raw header value,
// which the registry never sees.
var ErrUnknownToken = errors.New("player: unknown token")

// Player is one connected client: a name, the bearer token that
// authenticates it, and the session/dog pair it currently controls.
type Player struct {
	ID    int
	Name  string
	Token string
	MapID string
	DogID int
}
