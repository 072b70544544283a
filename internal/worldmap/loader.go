package worldmap

import (
	"encoding/json"
	"fmt"
	"os"

	"dogstory/internal/geom"
)

const (
	defaultBagCapacity     = 3
	defaultRetirementTimeS = 60.0
)

type rawRoad struct {
	X0 float64  `json:"x0"`
	Y0 float64  `json:"y0"`
	X1 *float64 `json:"x1"`
	Y1 *float64 `json:"y1"`
}

type rawBuilding struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

type rawOffice struct {
	ID      string  `json:"id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

type rawLootType struct {
	Value int `json:"value"`
}

type rawMap struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	DogSpeed    *float64        `json:"dogSpeed"`
	BagCapacity *int            `json:"bagCapacity"`
	Roads       []rawRoad       `json:"roads"`
	Buildings   []rawBuilding   `json:"buildings"`
	Offices     []rawOffice     `json:"offices"`
	LootTypes   json.RawMessage `json:"lootTypes"`
}

type rawLootGeneratorConfig struct {
	Period      float64 `json:"period"`
	Probability float64 `json:"probability"`
}

type rawGame struct {
	DefaultDogSpeed    *float64               `json:"defaultDogSpeed"`
	DefaultBagCapacity *int                   `json:"defaultBagCapacity"`
	DogRetirementTime  *float64               `json:"dogRetirementTime"`
	LootGeneratorConf  rawLootGeneratorConfig `json:"lootGeneratorConfig"`
	Maps               []rawMap               `json:"maps"`
}

// Load reads and validates the game config file at path, returning a fully
// populated Catalog. Duplicate map ids and duplicate office ids within a map
// are load errors; every map must declare at least one loot type.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}

	var raw rawGame
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if raw.DefaultDogSpeed == nil {
		return nil, fmt.Errorf("config file missing required field defaultDogSpeed")
	}
	defaultDogSpeed := *raw.DefaultDogSpeed

	defaultBag := defaultBagCapacity
	if raw.DefaultBagCapacity != nil {
		defaultBag = *raw.DefaultBagCapacity
	}

	retirementSeconds := defaultRetirementTimeS
	if raw.DogRetirementTime != nil {
		retirementSeconds = *raw.DogRetirementTime
	}
	if retirementSeconds < 0 {
		return nil, fmt.Errorf("dogRetirementTime must not be negative")
	}
	retirementMs := int64(retirementSeconds * 1000)

	lootGen := LootGeneratorConfig{
		PeriodMs:    int64(raw.LootGeneratorConf.Period * 1000.0),
		Probability: raw.LootGeneratorConf.Probability,
	}

	catalog := NewCatalog(defaultDogSpeed, defaultBag, retirementMs, lootGen)

	for _, rm := range raw.Maps {
		m, err := loadMap(rm, defaultDogSpeed, defaultBag)
		if err != nil {
			return nil, fmt.Errorf("loading map %q: %w", rm.ID, err)
		}
		if err := catalog.Add(m); err != nil {
			return nil, err
		}
	}

	return catalog, nil
}

func loadMap(rm rawMap, defaultDogSpeed float64, defaultBag int) (*Map, error) {
	if rm.ID == "" {
		return nil, fmt.Errorf("map missing id")
	}

	m := &Map{
		ID:          rm.ID,
		Name:        rm.Name,
		DogSpeed:    defaultDogSpeed,
		BagCapacity: defaultBag,
	}
	if rm.DogSpeed != nil {
		m.DogSpeed = *rm.DogSpeed
	}
	if rm.BagCapacity != nil {
		m.BagCapacity = *rm.BagCapacity
	}

	for _, rr := range rm.Roads {
		start := geom.Point{X: rr.X0, Y: rr.Y0}
		var end geom.Point
		switch {
		case rr.X1 != nil:
			end = geom.Point{X: *rr.X1, Y: rr.Y0}
		case rr.Y1 != nil:
			end = geom.Point{X: rr.X0, Y: *rr.Y1}
		default:
			return nil, fmt.Errorf("road missing both x1 and y1")
		}
		m.Roads = append(m.Roads, Road{Start: start, End: end})
	}

	for _, rb := range rm.Buildings {
		m.Buildings = append(m.Buildings, Building{
			Pos:    geom.Point{X: rb.X, Y: rb.Y},
			Width:  rb.W,
			Height: rb.H,
		})
	}

	for _, ro := range rm.Offices {
		m.Offices = append(m.Offices, Office{
			ID:     ro.ID,
			Pos:    geom.Point{X: ro.X, Y: ro.Y},
			Offset: geom.Point{X: ro.OffsetX, Y: ro.OffsetY},
		})
	}

	var lootTypes []rawLootType
	if len(rm.LootTypes) > 0 {
		if err := json.Unmarshal(rm.LootTypes, &lootTypes); err != nil {
			return nil, fmt.Errorf("parsing lootTypes: %w", err)
		}
	}
	if len(lootTypes) < 1 {
		return nil, fmt.Errorf("map must contain at least one loot type")
	}
	for _, lt := range lootTypes {
		m.LootScores = append(m.LootScores, lt.Value)
	}
	m.LootTypesJSON = rm.LootTypes

	return m, nil
}
