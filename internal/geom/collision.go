package geom

import "sort"

// CollectResult is the outcome of testing whether a moving gatherer swept
// over a stationary item.
type CollectResult struct {
	SqDistance float64 // squared perpendicular distance from item center to the segment
	Proj       float64 // projection ratio t of the closest point along a->b, in [0,1] when collected
}

// IsCollected reports whether the result represents an actual collection
// for a combined capture radius r (gatherer width + item width).
func (c CollectResult) IsCollected(r float64) bool {
	return c.Proj >= 0 && c.Proj <= 1 && c.SqDistance <= r*r
}

// TryCollectPoint computes the projection ratio of c onto segment a->b and
// the squared perpendicular distance from c to the line through a,b.
// The segment must be non-degenerate (a != b); callers must not call this
// for a stationary gatherer.
func TryCollectPoint(a, b, c Point) CollectResult {
	v := b.Sub(a)
	u := c.Sub(a)
	vLen2 := v.SqLen()
	proj := u.Dot(v) / vLen2
	sqDistance := u.SqLen() - (u.Dot(v)*u.Dot(v))/vLen2
	return CollectResult{SqDistance: sqDistance, Proj: proj}
}

// Gatherer is a moving disk associated with one dog for the duration of a
// single tick.
type Gatherer struct {
	ID    int
	Start Point
	End   Point
	Width float64
}

// IsStationary reports whether the gatherer did not move this tick; such
// gatherers must be skipped by FindGatherEvents.
func (g Gatherer) IsStationary() bool {
	return g.Start == g.End
}

// Item is a stationary disk: either a loot (low index range) or an office
// (everything at or past the loot count). Width distinguishes them only
// incidentally; callers distinguish by ID range against the loot count.
type Item struct {
	ID    int
	Pos   Point
	Width float64
}

// GatherEvent records one gatherer entering the capture radius of one item
// during a tick.
type GatherEvent struct {
	ItemID     int
	GathererID int
	SqDistance float64
	Time       float64 // projection ratio along the gatherer's path, in [0,1]
}

// FindGatherEvents tests every (gatherer, item) pair and returns the events
// where the gatherer's capture disk swept over the item, ordered by
// ascending Time (the canonical processing order for a tick). Ties are
// broken by pair enumeration order (gatherers outer loop, items inner loop),
// matching the input order exactly since Go's sort.SliceStable preserves it.
func FindGatherEvents(gatherers []Gatherer, items []Item) []GatherEvent {
	var events []GatherEvent
	for _, g := range gatherers {
		if g.IsStationary() {
			continue
		}
		for _, it := range items {
			res := TryCollectPoint(g.Start, g.End, it.Pos)
			if res.IsCollected(g.Width + it.Width) {
				events = append(events, GatherEvent{
					ItemID:     it.ID,
					GathererID: g.ID,
					SqDistance: res.SqDistance,
					Time:       res.Proj,
				})
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time < events[j].Time
	})
	return events
}
