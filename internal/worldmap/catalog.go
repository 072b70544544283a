package worldmap

import "fmt"

// LootGeneratorConfig parameterizes the per-session loot spawn process.
type LootGeneratorConfig struct {
	PeriodMs    int64
	Probability float64
}

// Catalog is the immutable, load-once set of maps plus world-wide defaults.
type Catalog struct {
	DefaultDogSpeed    float64
	DefaultBagCapacity int
	RetirementTimeMs   int64
	LootGenerator      LootGeneratorConfig

	order []string
	byID  map[string]*Map
}

// NewCatalog returns an empty catalog seeded with world defaults; maps are
// added with Add.
func NewCatalog(defaultDogSpeed float64, defaultBagCapacity int, retirementTimeMs int64, lootGen LootGeneratorConfig) *Catalog {
	return &Catalog{
		DefaultDogSpeed:    defaultDogSpeed,
		DefaultBagCapacity: defaultBagCapacity,
		RetirementTimeMs:   retirementTimeMs,
		LootGenerator:      lootGen,
		byID:               make(map[string]*Map),
	}
}

// Add registers a map. Fails if the map id or any office id within it is a
// duplicate.
func (c *Catalog) Add(m *Map) error {
	if _, exists := c.byID[m.ID]; exists {
		return fmt.Errorf("duplicate map: %s", m.ID)
	}
	seen := make(map[string]struct{}, len(m.Offices))
	for _, o := range m.Offices {
		if _, dup := seen[o.ID]; dup {
			return fmt.Errorf("duplicate warehouse: %s", o.ID)
		}
		seen[o.ID] = struct{}{}
	}
	if m.DogSpeed == 0 {
		m.DogSpeed = c.DefaultDogSpeed
	}
	if m.BagCapacity == 0 {
		m.BagCapacity = c.DefaultBagCapacity
	}
	c.byID[m.ID] = m
	c.order = append(c.order, m.ID)
	return nil
}

// Find returns the map with the given id, or nil.
func (c *Catalog) Find(id string) *Map {
	return c.byID[id]
}

// All returns every map in load order.
func (c *Catalog) All() []*Map {
	maps := make([]*Map, 0, len(c.order))
	for _, id := range c.order {
		maps = append(maps, c.byID[id])
	}
	return maps
}
