// Package worldmap is the immutable map catalog: the loaded set of maps,
// their roads, buildings, offices, and loot-type tables. Nothing in this
// package mutates after Load returns.
package worldmap

import "dogstory/internal/geom"

// Road is either horizontal or vertical, with both endpoints on the integer
// lattice. Roads are inflated by RoadHalfWidth on every side (along their
// axis and perpendicular to it) for movement clamping and on-road tests.
type Road struct {
	Start geom.Point
	End   geom.Point
}

// RoadHalfWidth is the inflation applied to every side of a road's corridor
// (total corridor thickness 0.8, ±0.4 from each edge).
const RoadHalfWidth = 0.4

// IsHorizontal reports whether the road runs along the X axis (Y fixed).
func (r Road) IsHorizontal() bool {
	return r.Start.Y == r.End.Y
}

// IsVertical reports whether the road runs along the Y axis (X fixed).
func (r Road) IsVertical() bool {
	return r.Start.X == r.End.X
}

// Bounds returns the inclusive [min,max] corridor rectangle for the road,
// inflated by RoadHalfWidth on all four sides (along the axis as well as
// perpendicular to it).
func (r Road) Bounds() (minX, minY, maxX, maxY float64) {
	minX, maxX = r.Start.X, r.End.X
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	minY, maxY = r.Start.Y, r.End.Y
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	minX -= RoadHalfWidth
	maxX += RoadHalfWidth
	minY -= RoadHalfWidth
	maxY += RoadHalfWidth
	return
}

// Contains reports whether p lies within the road's inflated corridor.
func (r Road) Contains(p geom.Point) bool {
	minX, minY, maxX, maxY := r.Bounds()
	return p.X >= minX && p.X <= maxX && p.Y >= minY && p.Y <= maxY
}

// Building is an axis-aligned rectangle, decorative only (no collision role
// in the core simulation).
type Building struct {
	Pos    geom.Point
	Width  float64
	Height float64
}

// OfficeHalfWidth is the capture radius of an office for the purposes of the
// collision detector (half of 0.5).
const OfficeHalfWidth = 0.25

// Office is a delivery point: fixed position, unique id within its map.
type Office struct {
	ID     string
	Pos    geom.Point
	Offset geom.Point
}
