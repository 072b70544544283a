package game

import "math"

// LootGenerator decides how many loot items to spawn on a tick. The period
// and probability come from the map catalog's lootGeneratorConfig; the
// accumulator is per session and is not reset by a tick that generates
// nothing, only by one that does.
//
// expected = (timeWithoutLoot / period) * shortage * probability
// generated = min(round(expected), shortage)
//
// This is a reconstruction: the retrieved original sources did not include
// the loot generator's translation unit, only its effect described in the
// configuration schema, so the formula above is derived from the
// probability/period parameters that schema exposes rather than ported line
// by line.
type LootGenerator struct {
	PeriodMs    int64
	Probability float64

	timeWithoutLootMs int64
}

// NewLootGenerator constructs a generator for one session.
func NewLootGenerator(periodMs int64, probability float64) *LootGenerator {
	return &LootGenerator{PeriodMs: periodMs, Probability: probability}
}

// Generate advances the internal clock by deltaMs and returns how many new
// loot items should be spawned given looterCount dogs and lootCount loot
// items already on the ground.
func (g *LootGenerator) Generate(deltaMs int64, looterCount, lootCount int) int {
	g.timeWithoutLootMs += deltaMs

	shortage := looterCount - lootCount
	if shortage <= 0 {
		return 0
	}

	if g.PeriodMs <= 0 {
		g.timeWithoutLootMs = 0
		return shortage
	}

	expected := (float64(g.timeWithoutLootMs) / float64(g.PeriodMs)) * float64(shortage) * g.Probability
	generated := int(math.Round(expected))
	if generated > shortage {
		generated = shortage
	}
	if generated < 0 {
		generated = 0
	}
	if generated > 0 {
		g.timeWithoutLootMs = 0
	}
	return generated
}
