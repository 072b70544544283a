package game

import (
	"math/rand"

	"dogstory/internal/geom"
	"dogstory/internal/worldmap"
)

// DogCaptureWidth is the half-width of a dog's collection disk, summed with
// an item's own width to produce the combined capture radius used by
// geom.FindGatherEvents.
const DogCaptureWidth = 0.3

// Session is one running instance of a map: its dogs, its loot, and the
// road index used to clamp movement. The catalog's Map is immutable and
// shared across sessions; everything mutable lives here.
type Session struct {
	MapID          string
	Map            *worldmap.Map
	roads          *RoadIndex
	lootGen        *LootGenerator
	randomizeSpawn bool
	rng            *rand.Rand

	dogs      map[int]*Dog
	dogOrder  []int
	nextDogID int

	loots      map[int]*Loot
	lootOrder  []int
	nextLootID int
}

// NewSession builds a session for m. randomizeSpawn controls whether new
// dogs appear at a random point on a random road (true) or always at the
// first road's start (false, the default used by integration tests and any
// deterministic replay).
func NewSession(m *worldmap.Map, lootGen *LootGenerator, randomizeSpawn bool, rng *rand.Rand) *Session {
	return &Session{
		MapID:          m.ID,
		Map:            m,
		roads:          NewRoadIndex(m.Roads),
		lootGen:        lootGen,
		randomizeSpawn: randomizeSpawn,
		rng:            rng,
		dogs:           make(map[int]*Dog),
		loots:          make(map[int]*Loot),
	}
}

// AddDog creates a new dog named name at this session's spawn point. Fails
// with ErrDuplicateName if another live dog in the session already has that
// name.
func (s *Session) AddDog(name string) (*Dog, error) {
	for _, id := range s.dogOrder {
		if s.dogs[id].Name == name {
			return nil, ErrDuplicateName
		}
	}

	pos := s.spawnPoint()
	id := s.nextDogID
	s.nextDogID++

	dog := NewDog(id, name, pos, s.Map.BagCapacity)
	s.dogs[id] = dog
	s.dogOrder = append(s.dogOrder, id)

	s.pushFreshLoot()
	return dog, nil
}

// pushFreshLoot spawns one loot item of a uniformly random type at a random
// road point. Called once per join, independent of the loot generator's
// own tick-driven spawning.
func (s *Session) pushFreshLoot() {
	typeCount := s.Map.LootTypeCount()
	if typeCount == 0 {
		return
	}
	id := s.nextLootID
	s.nextLootID++
	loot := &Loot{
		ID:   id,
		Type: s.rng.Intn(typeCount),
		Pos:  s.randomRoadPoint(),
	}
	s.loots[id] = loot
	s.lootOrder = append(s.lootOrder, id)
}

func (s *Session) spawnPoint() geom.Point {
	if len(s.Map.Roads) == 0 {
		return geom.Point{}
	}
	if !s.randomizeSpawn {
		return s.Map.Roads[0].Start
	}
	return s.randomRoadPoint()
}

// randomRoadPoint picks a road uniformly, then a uniform point along it.
func (s *Session) randomRoadPoint() geom.Point {
	if len(s.Map.Roads) == 0 {
		return geom.Point{}
	}
	road := s.Map.Roads[s.rng.Intn(len(s.Map.Roads))]
	t := s.rng.Float64()
	return geom.Point{
		X: road.Start.X + (road.End.X-road.Start.X)*t,
		Y: road.Start.Y + (road.End.Y-road.Start.Y)*t,
	}
}

// Dog returns the dog with the given id, or nil.
func (s *Session) Dog(id int) *Dog {
	return s.dogs[id]
}

// Dogs returns every live dog in join order.
func (s *Session) Dogs() []*Dog {
	out := make([]*Dog, 0, len(s.dogOrder))
	for _, id := range s.dogOrder {
		out = append(out, s.dogs[id])
	}
	return out
}

// Loots returns every unpicked loot item in spawn order.
func (s *Session) Loots() []*Loot {
	out := make([]*Loot, 0, len(s.lootOrder))
	for _, id := range s.lootOrder {
		out = append(out, s.loots[id])
	}
	return out
}

// RemoveDog deletes a dog from the session -- used by retirement once a
// player has been idle past the retirement threshold.
func (s *Session) RemoveDog(id int) {
	if _, ok := s.dogs[id]; !ok {
		return
	}
	delete(s.dogs, id)
	for i, got := range s.dogOrder {
		if got == id {
			s.dogOrder = append(s.dogOrder[:i], s.dogOrder[i+1:]...)
			break
		}
	}
}

// Action applies a movement command to one dog. move is one of "U", "D",
// "L", "R" or "" (stand).
func (s *Session) Action(dogID int, move string) error {
	dog, ok := s.dogs[dogID]
	if !ok {
		return ErrUnknownDog
	}
	dog.SetDirection(move, s.Map.DogSpeed)
	return nil
}

// Tick advances the session by deltaMs: moves every dog along its current
// heading, clamped to the road network, spawns new loot, then resolves
// gather events (pick-up and office drop-off) in time order.
func (s *Session) Tick(deltaMs int64) {
	for _, dog := range s.Dogs() {
		moving := !dog.IsStationary()
		desired := dog.DesiredEnd(deltaMs)
		clamped := s.roads.ClampMove(dog.Pos, desired)
		dog.ApplyPosition(clamped)

		if clamped != desired {
			dog.StopMove()
		}

		if moving {
			dog.IdleMs = 0
		} else {
			dog.IdleMs += deltaMs
		}
		dog.PlayTimeMs += deltaMs
	}

	s.generateLoot(deltaMs)
	s.resolveGatherEvents()
}

func (s *Session) generateLoot(deltaMs int64) {
	count := s.lootGen.Generate(deltaMs, len(s.dogOrder), len(s.lootOrder))
	for i := 0; i < count; i++ {
		s.pushFreshLoot()
	}
}

func (s *Session) resolveGatherEvents() {
	lootList := s.Loots()

	gatherers := make([]geom.Gatherer, 0, len(s.dogOrder))
	for _, dog := range s.Dogs() {
		gatherers = append(gatherers, geom.Gatherer{
			ID:    dog.ID,
			Start: dog.PrevPos,
			End:   dog.Pos,
			Width: DogCaptureWidth,
		})
	}

	items := make([]geom.Item, 0, len(lootList)+len(s.Map.Offices))
	for i, l := range lootList {
		items = append(items, geom.Item{ID: i, Pos: l.Pos, Width: 0})
	}
	officeBase := len(lootList)
	for i, o := range s.Map.Offices {
		items = append(items, geom.Item{
			ID:    officeBase + i,
			Pos:   o.Pos.Add(o.Offset),
			Width: worldmap.OfficeHalfWidth,
		})
	}

	events := geom.FindGatherEvents(gatherers, items)
	pickedUp := make(map[int]bool, len(lootList))

	for _, ev := range events {
		dog := s.dogs[ev.GathererID]
		if dog == nil {
			continue
		}
		if ev.ItemID < officeBase {
			if pickedUp[ev.ItemID] {
				continue
			}
			loot := lootList[ev.ItemID]
			if dog.PickUp(*loot) {
				pickedUp[ev.ItemID] = true
				delete(s.loots, loot.ID)
			}
			continue
		}
		dog.EmptyBag(s.Map.ScoreFor)
	}

	if len(pickedUp) == 0 {
		return
	}
	remaining := s.lootOrder[:0]
	for _, id := range s.lootOrder {
		if _, ok := s.loots[id]; ok {
			remaining = append(remaining, id)
		}
	}
	s.lootOrder = remaining
}

// State is the part of a Session that must survive a snapshot/restore
// cycle: every live dog and loot, plus the counters needed to keep minting
// fresh ids after restore.
type State struct {
	MapID             string
	Dogs              []Dog
	Loots             []Loot
	LootAccumulatorMs int64
	NextDogID         int
	NextLootID        int
}

// State captures a deep copy of the session suitable for serialization.
func (s *Session) State() State {
	dogs := make([]Dog, 0, len(s.dogOrder))
	for _, d := range s.Dogs() {
		dogs = append(dogs, *d)
	}
	loots := make([]Loot, 0, len(s.lootOrder))
	for _, l := range s.Loots() {
		loots = append(loots, *l)
	}
	return State{
		MapID:             s.MapID,
		Dogs:              dogs,
		Loots:             loots,
		LootAccumulatorMs: s.lootGen.timeWithoutLootMs,
		NextDogID:         s.nextDogID,
		NextLootID:        s.nextLootID,
	}
}

// Restore replaces the session's live dogs and loot with st, restoring the
// loot generator's accumulator and the id counters so newly joined dogs and
// newly spawned loot keep minting unique ids.
func (s *Session) Restore(st State) {
	s.dogs = make(map[int]*Dog, len(st.Dogs))
	s.dogOrder = s.dogOrder[:0]
	for i := range st.Dogs {
		d := st.Dogs[i]
		s.dogs[d.ID] = &d
		s.dogOrder = append(s.dogOrder, d.ID)
	}

	s.loots = make(map[int]*Loot, len(st.Loots))
	s.lootOrder = s.lootOrder[:0]
	for i := range st.Loots {
		l := st.Loots[i]
		s.loots[l.ID] = &l
		s.lootOrder = append(s.lootOrder, l.ID)
	}

	s.lootGen.timeWithoutLootMs = st.LootAccumulatorMs
	s.nextDogID = st.NextDogID
	s.nextLootID = st.NextLootID
}

// IdleDogs returns the dogs whose idle time has reached or exceeded
// thresholdMs -- candidates for retirement.
func (s *Session) IdleDogs(thresholdMs int64) []*Dog {
	var out []*Dog
	for _, dog := range s.Dogs() {
		if dog.IdleMs >= thresholdMs {
			out = append(out, dog)
		}
	}
	return out
}
