package game

import (
	"dogstory/internal/geom"
	"dogstory/internal/worldmap"
)

// RoadIndex is an auxiliary lookup from integer lattice points to the roads
// incident to them, built once per session at construction. It is the only
// acceleration structure in the simulation; everything else is a linear
// scan over small per-session slices.
type RoadIndex struct {
	byPoint map[geom.Point][]worldmap.Road
}

// NewRoadIndex inserts, for every road, one entry per integer lattice point
// the road covers (inclusive of both endpoints).
func NewRoadIndex(roads []worldmap.Road) *RoadIndex {
	idx := &RoadIndex{byPoint: make(map[geom.Point][]worldmap.Road)}
	for _, r := range roads {
		for _, p := range latticePoints(r) {
			idx.byPoint[p] = append(idx.byPoint[p], r)
		}
	}
	return idx
}

func latticePoints(r worldmap.Road) []geom.Point {
	var pts []geom.Point
	if r.IsHorizontal() {
		x0, x1 := int(r.Start.X), int(r.End.X)
		if x0 > x1 {
			x0, x1 = x1, x0
		}
		for x := x0; x <= x1; x++ {
			pts = append(pts, geom.Point{X: float64(x), Y: r.Start.Y})
		}
		return pts
	}
	y0, y1 := int(r.Start.Y), int(r.End.Y)
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		pts = append(pts, geom.Point{X: r.Start.X, Y: float64(y)})
	}
	return pts
}

// RoadsAt returns the roads incident to the given integer lattice point.
func (idx *RoadIndex) RoadsAt(lattice geom.Point) []worldmap.Road {
	return idx.byPoint[lattice]
}

// ClampMove rounds start to its nearest lattice point, finds the roads
// incident to it, and returns the point on (or nearest to, on the road
// network) desired. If desired already lies in some incident road's
// inflated corridor it is returned unchanged; otherwise the closest
// axis-projected border point across all incident corridors is returned.
func (idx *RoadIndex) ClampMove(start, desired geom.Point) geom.Point {
	lattice := start.IntLattice()
	roads := idx.RoadsAt(lattice)
	if len(roads) == 0 {
		return start
	}

	best := clampToCorridor(roads[0], desired)
	bestDist := best.Sub(desired).SqLen()
	for _, r := range roads[1:] {
		candidate := clampToCorridor(r, desired)
		if d := candidate.Sub(desired).SqLen(); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

// clampToCorridor clamps p into road r's corridor independently on each
// axis -- both the segment's own extent and the perpendicular span are
// inflated by RoadHalfWidth, so a dog can run RoadHalfWidth past either end
// of the segment as well as to either side of it. When p is already inside
// the corridor this returns p unchanged.
func clampToCorridor(r worldmap.Road, p geom.Point) geom.Point {
	minX, minY, maxX, maxY := r.Bounds()
	x, y := p.X, p.Y
	if x < minX {
		x = minX
	} else if x > maxX {
		x = maxX
	}
	if y < minY {
		y = minY
	} else if y > maxY {
		y = maxY
	}
	return geom.Point{X: x, Y: y}
}

// IsOnRoad reports whether p lies within the inflated corridor of any road
// incident to its rounded lattice point. The tick algorithm does not call
// it; movement relies on ClampMove.
func (idx *RoadIndex) IsOnRoad(p geom.Point) bool {
	lattice := p.IntLattice()
	for _, r := range idx.RoadsAt(lattice) {
		if r.Contains(p) {
			return true
		}
	}
	return false
}
