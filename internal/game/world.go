package game

import (
	"math/rand"

	"dogstory/internal/worldmap"
)

// TickObserver is notified after every session has been ticked. Retirement
// sweeps are wired in as a tick observer rather than a special case, so the
// World has no built-in notion of idle players at all.
type TickObserver func(deltaMs int64)

// World owns one Session per map, created lazily on first join. It has no
// locking of its own -- callers (internal/app's Application) serialize
// access to it the way the rest of this module serializes access to shared
// state, one writer at a time.
type World struct {
	catalog        *worldmap.Catalog
	randomizeSpawn bool
	rng            *rand.Rand

	sessions map[string]*Session
	order    []string

	observers []TickObserver
}

// NewWorld constructs a World backed by catalog. rng seeds a separate
// generator for every session it creates; each session uses its own for
// spawn points, loot types and loot positions.
func NewWorld(catalog *worldmap.Catalog, randomizeSpawn bool, rng *rand.Rand) *World {
	return &World{
		catalog:        catalog,
		randomizeSpawn: randomizeSpawn,
		rng:            rng,
		sessions:       make(map[string]*Session),
	}
}

// OnTick registers an observer invoked after every World.Tick, in
// registration order.
func (w *World) OnTick(obs TickObserver) {
	w.observers = append(w.observers, obs)
}

// Join finds or creates the session for mapID and adds a new dog named name
// to it. Fails with ErrUnknownMap if mapID is not in the catalog, or
// ErrDuplicateName if the session already has a dog with that name.
func (w *World) Join(mapID, name string) (*Session, *Dog, error) {
	session, err := w.sessionFor(mapID)
	if err != nil {
		return nil, nil, err
	}
	dog, err := session.AddDog(name)
	if err != nil {
		return nil, nil, err
	}
	return session, dog, nil
}

func (w *World) sessionFor(mapID string) (*Session, error) {
	if s, ok := w.sessions[mapID]; ok {
		return s, nil
	}
	m := w.catalog.Find(mapID)
	if m == nil {
		return nil, ErrUnknownMap
	}
	lootGen := NewLootGenerator(w.catalog.LootGenerator.PeriodMs, w.catalog.LootGenerator.Probability)
	session := NewSession(m, lootGen, w.randomizeSpawn, rand.New(rand.NewSource(w.rng.Int63())))
	w.sessions[mapID] = session
	w.order = append(w.order, mapID)
	return session, nil
}

// Session returns the live session for mapID, or nil if none has been
// created yet.
func (w *World) Session(mapID string) *Session {
	return w.sessions[mapID]
}

// Sessions returns every live session in first-created order.
func (w *World) Sessions() []*Session {
	out := make([]*Session, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.sessions[id])
	}
	return out
}

// Tick advances every session by deltaMs, then runs the registered tick
// observers in order.
func (w *World) Tick(deltaMs int64) {
	for _, id := range w.order {
		w.sessions[id].Tick(deltaMs)
	}
	for _, obs := range w.observers {
		obs(deltaMs)
	}
}

// State captures every live session for serialization, keyed by map id.
func (w *World) State() map[string]State {
	out := make(map[string]State, len(w.order))
	for _, id := range w.order {
		out[id] = w.sessions[id].State()
	}
	return out
}

// Restore recreates a session (via the catalog) for every map id present in
// states and replaces its live dogs and loot with the saved state. Unknown
// map ids are skipped rather than treated as fatal, since a catalog can be
// reloaded with fewer maps between restarts.
func (w *World) Restore(states map[string]State) {
	for mapID, st := range states {
		session, err := w.sessionFor(mapID)
		if err != nil {
			continue
		}
		session.Restore(st)
	}
}
