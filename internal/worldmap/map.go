package worldmap

import "encoding/json"

// Map is the immutable description of one map, loaded once at startup.
type Map struct {
	ID            string
	Name          string
	Roads         []Road
	Buildings     []Building
	Offices       []Office
	DogSpeed      float64
	BagCapacity   int
	LootScores    []int           // position = loot type index
	LootTypesJSON json.RawMessage // verbatim client-facing loot-type descriptors
}

// LootTypeCount returns the number of loot types registered for this map.
func (m *Map) LootTypeCount() int {
	return len(m.LootScores)
}

// ScoreFor returns the score value of a loot type index, or 0 if out of
// range (callers are expected to only pass indices bounded by
// LootTypeCount at generation time).
func (m *Map) ScoreFor(lootType int) int {
	if lootType < 0 || lootType >= len(m.LootScores) {
		return 0
	}
	return m.LootScores[lootType]
}

// FindOffice returns the office with the given id, or nil.
func (m *Map) FindOffice(id string) *Office {
	for i := range m.Offices {
		if m.Offices[i].ID == id {
			return &m.Offices[i]
		}
	}
	return nil
}

// ToJSON renders the client-facing map payload for GET /api/v1/maps/{id}.
func (m *Map) ToJSON() map[string]interface{} {
	roads := make([]map[string]interface{}, 0, len(m.Roads))
	for _, r := range m.Roads {
		road := map[string]interface{}{"x0": r.Start.X, "y0": r.Start.Y}
		if r.IsHorizontal() {
			road["x1"] = r.End.X
		} else {
			road["y1"] = r.End.Y
		}
		roads = append(roads, road)
	}

	buildings := make([]map[string]interface{}, 0, len(m.Buildings))
	for _, b := range m.Buildings {
		buildings = append(buildings, map[string]interface{}{
			"x": b.Pos.X, "y": b.Pos.Y, "w": b.Width, "h": b.Height,
		})
	}

	offices := make([]map[string]interface{}, 0, len(m.Offices))
	for _, o := range m.Offices {
		offices = append(offices, map[string]interface{}{
			"id": o.ID, "x": o.Pos.X, "y": o.Pos.Y,
			"offsetX": o.Offset.X, "offsetY": o.Offset.Y,
		})
	}

	var lootTypes interface{} = []interface{}{}
	if len(m.LootTypesJSON) > 0 {
		lootTypes = json.RawMessage(m.LootTypesJSON)
	}

	return map[string]interface{}{
		"id":        m.ID,
		"name":      m.Name,
		"roads":     roads,
		"buildings": buildings,
		"offices":   offices,
		"lootTypes": lootTypes,
	}
}

// Summary renders the {id,name} shape used by GET /api/v1/maps.
func (m *Map) Summary() map[string]string {
	return map[string]string{"id": m.ID, "name": m.Name}
}
