package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryCollectPoint(t *testing.T) {
	t.Run("center hit at midpoint", func(t *testing.T) {
		res := TryCollectPoint(Point{0, 0}, Point{10, 0}, Point{5, 0})
		assert.InDelta(t, 0.5, res.Proj, 1e-9)
		assert.InDelta(t, 0, res.SqDistance, 1e-9)
		assert.True(t, res.IsCollected(0.1))
	})

	t.Run("off to the side beyond radius misses", func(t *testing.T) {
		res := TryCollectPoint(Point{0, 0}, Point{10, 0}, Point{5, 5})
		assert.False(t, res.IsCollected(0.6))
	})

	t.Run("projection outside segment is not collected", func(t *testing.T) {
		res := TryCollectPoint(Point{0, 0}, Point{10, 0}, Point{20, 0})
		assert.False(t, res.IsCollected(1))
		assert.Greater(t, res.Proj, 1.0)
	})
}

func TestFindGatherEvents(t *testing.T) {
	t.Run("skips stationary gatherers", func(t *testing.T) {
		gatherers := []Gatherer{{ID: 0, Start: Point{0, 0}, End: Point{0, 0}, Width: 0.3}}
		items := []Item{{ID: 0, Pos: Point{0, 0}, Width: 0}}
		events := FindGatherEvents(gatherers, items)
		assert.Empty(t, events)
	})

	t.Run("orders events by ascending time", func(t *testing.T) {
		gatherers := []Gatherer{{ID: 0, Start: Point{0, 0}, End: Point{10, 0}, Width: 0.3}}
		items := []Item{
			{ID: 0, Pos: Point{8, 0}, Width: 0},
			{ID: 1, Pos: Point{2, 0}, Width: 0},
		}
		events := FindGatherEvents(gatherers, items)
		require.Len(t, events, 2)
		assert.Equal(t, 1, events[0].ItemID)
		assert.Equal(t, 0, events[1].ItemID)
	})

	t.Run("ties keep pair enumeration order", func(t *testing.T) {
		gatherers := []Gatherer{
			{ID: 0, Start: Point{0, 0}, End: Point{10, 0}, Width: 0.3},
			{ID: 1, Start: Point{0, 1}, End: Point{10, 1}, Width: 0.3},
		}
		items := []Item{{ID: 0, Pos: Point{5, 0.5}, Width: 0.3}}
		events := FindGatherEvents(gatherers, items)
		require.Len(t, events, 2)
		assert.Equal(t, 0, events[0].GathererID)
		assert.Equal(t, 1, events[1].GathererID)
	})
}
