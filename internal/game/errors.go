package game

import "errors"

var (
	// ErrDuplicateName is returned by Session.AddDog when another dog in
	// the same session already carries the requested name.
	ErrDuplicateName = errors.New("game: a dog with that name is already in this session")

	// ErrUnknownMap is returned when joining a map id absent from the
	// catalog.
	ErrUnknownMap = errors.New("game: unknown map")

	// ErrUnknownDog is returned when an action targets a dog id not
	// present in its session.
	ErrUnknownDog = errors.New("game: unknown dog")
)
