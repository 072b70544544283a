// Package geom provides the vector primitives and segment/circle collision
// test used to clamp dog movement to the road network and to detect loot
// and office pickups.
package geom

import "math"

// Point is a 2D point or vector in map units.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p scaled by k.
func (p Point) Scale(k float64) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// SqLen returns the squared length of p.
func (p Point) SqLen() float64 {
	return p.Dot(p)
}

// IntLattice rounds both coordinates to the nearest integer lattice point.
func (p Point) IntLattice() Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}
