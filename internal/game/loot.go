package game

import "dogstory/internal/geom"

// Loot is a single collectible item lying on a session's map.
type Loot struct {
	ID   int
	Type int
	Pos  geom.Point
}
