package worldmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dogstory/internal/geom"
)

func TestRoadBoundsInflatesAllFourSides(t *testing.T) {
	r := Road{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}}

	minX, minY, maxX, maxY := r.Bounds()
	assert.InDelta(t, -RoadHalfWidth, minX, 1e-9)
	assert.InDelta(t, 10+RoadHalfWidth, maxX, 1e-9)
	assert.InDelta(t, -RoadHalfWidth, minY, 1e-9)
	assert.InDelta(t, RoadHalfWidth, maxY, 1e-9)

	assert.True(t, r.Contains(geom.Point{X: 10.4, Y: 0}))
	assert.False(t, r.Contains(geom.Point{X: 10.5, Y: 0}))
}
