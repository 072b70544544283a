package app

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"

	"dogstory/internal/game"
	"dogstory/internal/leaderboard"
	"dogstory/internal/player"
	"dogstory/internal/snapshot"
	"dogstory/internal/worldmap"
)

// Application is the single-writer entry point for every game operation:
// joining, acting, ticking, and querying. One mutex serializes all of it,
// the same way the rest of this module gives each piece of shared state
// exactly one writer at a time.
type Application struct {
	mu sync.Mutex

	catalog      *worldmap.Catalog
	world        *game.World
	players      *player.Registry
	leaderboard  leaderboard.Store
	retirementMs int64
}

// New constructs an Application over catalog. leaderboardStore may be nil,
// in which case retired players are simply dropped (used by tests that do
// not care about the durable leaderboard).
func New(catalog *worldmap.Catalog, randomizeSpawn bool, rng *rand.Rand, leaderboardStore leaderboard.Store) *Application {
	world := game.NewWorld(catalog, randomizeSpawn, rng)
	a := &Application{
		catalog:      catalog,
		world:        world,
		players:      player.NewRegistry(),
		leaderboard:  leaderboardStore,
		retirementMs: catalog.RetirementTimeMs,
	}
	world.OnTick(a.retireIdlePlayersLocked)
	return a
}

// Join adds a new player named name to mapID's session, minting a bearer
// token. If a player with this (name, mapID) already exists, its identity
// is reused and it is simply handed a fresh token. Fails with
// ErrEmptyName or ErrUnknownMap (wrapped).
func (a *Application) Join(name, mapID string) (*player.Player, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if existing := a.players.FindByNameAndMap(name, mapID); existing != nil {
		return a.players.Rejoin(existing)
	}

	_, dog, err := a.world.Join(mapID, name)
	if err != nil {
		switch {
		case errors.Is(err, game.ErrUnknownMap):
			return nil, fmt.Errorf("%w: %s", ErrUnknownMap, mapID)
		case errors.Is(err, game.ErrDuplicateName):
			return nil, ErrDuplicateName
		default:
			return nil, err
		}
	}

	p, err := a.players.Join(name, mapID, dog.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Authenticate parses a raw Authorization header value and resolves it to
// a live player. An empty or malformed header yields ErrInvalidToken; a
// well-formed but unrecognized token yields ErrUnknownToken.
func (a *Application) Authenticate(authHeader string) (*player.Player, error) {
	token, ok := parseBearerToken(authHeader)
	if !ok {
		return nil, ErrInvalidToken
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authenticateLocked(token)
}

func (a *Application) authenticateLocked(token string) (*player.Player, error) {
	p, err := a.players.ByToken(token)
	if err != nil {
		return nil, ErrUnknownToken
	}
	return p, nil
}

// Action applies a movement command from the player identified by token.
func (a *Application) Action(authHeader, move string) error {
	if !isValidMove(move) {
		return ErrInvalidMove
	}

	token, ok := parseBearerToken(authHeader)
	if !ok {
		return ErrInvalidToken
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.authenticateLocked(token)
	if err != nil {
		return err
	}

	session := a.world.Session(p.MapID)
	if session == nil {
		return fmt.Errorf("%w: %s", ErrUnknownMap, p.MapID)
	}
	return session.Action(p.DogID, move)
}

// StateView is the externally visible shape of one session: every dog's
// position, bag, and score, plus every unpicked loot item.
type StateView struct {
	Dogs  []game.Dog
	Loots []game.Loot
}

// State returns the authenticated player's session view.
func (a *Application) State(authHeader string) (StateView, error) {
	token, ok := parseBearerToken(authHeader)
	if !ok {
		return StateView{}, ErrInvalidToken
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.authenticateLocked(token)
	if err != nil {
		return StateView{}, err
	}

	session := a.world.Session(p.MapID)
	if session == nil {
		return StateView{}, fmt.Errorf("%w: %s", ErrUnknownMap, p.MapID)
	}

	dogs := make([]game.Dog, 0, len(session.Dogs()))
	for _, d := range session.Dogs() {
		dogs = append(dogs, *d)
	}
	loots := make([]game.Loot, 0, len(session.Loots()))
	for _, l := range session.Loots() {
		loots = append(loots, *l)
	}
	return StateView{Dogs: dogs, Loots: loots}, nil
}

// Players returns every live player name in the authenticated caller's
// session, keyed by dog id.
func (a *Application) Players(authHeader string) (map[int]string, error) {
	token, ok := parseBearerToken(authHeader)
	if !ok {
		return nil, ErrInvalidToken
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	p, err := a.authenticateLocked(token)
	if err != nil {
		return nil, err
	}

	out := make(map[int]string)
	for _, other := range a.players.All() {
		if other.MapID == p.MapID {
			out[other.DogID] = other.Name
		}
	}
	return out, nil
}

// Tick advances every session by deltaMs and runs the idle-retirement
// sweep. It is meant to be driven by a single ticker goroutine in the
// owning process.
func (a *Application) Tick(deltaMs int64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.world.Tick(deltaMs)
}

// Stats returns the current live session, player, and unpicked-loot counts
// across the whole world, for exposition as gauges.
func (a *Application) Stats() (sessions, players, loots int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions = len(a.world.Sessions())
	players = len(a.players.All())
	for _, session := range a.world.Sessions() {
		loots += len(session.Loots())
	}
	return sessions, players, loots
}

// retireIdlePlayersLocked is registered as a World tick observer, so it
// always runs -- retirement is not conditional on whether snapshotting is
// configured. It is invoked from within World.Tick, which Application.Tick
// calls while already holding a.mu, so it must not lock again.
func (a *Application) retireIdlePlayersLocked(int64) {
	for _, session := range a.world.Sessions() {
		for _, dog := range session.IdleDogs(a.retirementMs) {
			owner := a.findOwnerLocked(session.MapID, dog.ID)
			if owner == nil {
				continue
			}

			if a.leaderboard != nil {
				retired := player.Retired{ID: owner.ID, Name: owner.Name, Score: dog.Score, PlayTimeMs: dog.PlayTimeMs}
				if err := a.leaderboard.Save(retired); err != nil {
					log.Printf("app: saving retired player %q: %v", owner.Name, err)
				}
			}

			session.RemoveDog(dog.ID)
			a.players.Remove(owner.ID)
		}
	}
}

// findOwnerLocked finds the player controlling dogID within mapID's
// session. Retirement only ever removes a dog from its own session, never
// rescans other sessions looking for a match.
func (a *Application) findOwnerLocked(mapID string, dogID int) *player.Player {
	for _, p := range a.players.All() {
		if p.MapID == mapID && p.DogID == dogID {
			return p
		}
	}
	return nil
}

// Records returns a page of the durable leaderboard, highest score first.
func (a *Application) Records(limit, offset int) ([]leaderboard.Entry, error) {
	if a.leaderboard == nil {
		return nil, nil
	}
	return a.leaderboard.Top(limit, offset)
}

// Maps returns the {id,name} summary of every map in the catalog.
func (a *Application) Maps() []map[string]string {
	var out []map[string]string
	for _, m := range a.catalog.All() {
		out = append(out, m.Summary())
	}
	return out
}

// Map returns the full client-facing payload for one map, or nil if mapID
// is not in the catalog.
func (a *Application) Map(mapID string) map[string]interface{} {
	m := a.catalog.Find(mapID)
	if m == nil {
		return nil
	}
	return m.ToJSON()
}

// Snapshot persists every live session and player to path.
func (a *Application) Snapshot(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return snapshot.Save(path, a.world.State(), a.players.State())
}

// Restore loads path (if present) and replaces the application's live
// sessions and players with its contents. Call this once, before serving
// any request.
func (a *Application) Restore(path string) error {
	sessions, players, err := snapshot.Load(path)
	if err != nil {
		return err
	}
	if sessions == nil && players == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.world.Restore(sessions)
	a.players.Restore(players)
	return nil
}
