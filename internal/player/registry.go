package player

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
)

// tokenBytes is the byte length fed to hex.EncodeToString, producing a
// 32-character hex token.
const tokenBytes = 16

// Registry owns every live Player and the token -> player lookup used to
// authenticate requests. It is the join table between a bearer token and
// the (session, dog) pair that token controls.
type Registry struct {
	mu sync.Mutex

	nextID int
	byID   map[int]*Player
	order  []int // live id set, in join order

	byToken map[string]*Player
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[int]*Player),
		byToken: make(map[string]*Player),
	}
}

// Join mints a fresh bearer token and registers a new player controlling
// dogID within mapID's session.
func (r *Registry) Join(name, mapID string, dogID int) (*Player, error) {
	token, err := mintToken()
	if err != nil {
		return nil, fmt.Errorf("player: minting token: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID
	r.nextID++

	p := &Player{ID: id, Name: name, Token: token, MapID: mapID, DogID: dogID}
	r.byID[id] = p
	r.order = append(r.order, id)
	r.byToken[token] = p
	return p, nil
}

// FindByNameAndMap returns the live player named name within mapID, or nil
// if none is registered. Used to reuse an existing player's identity on a
// repeat join rather than minting a new one.
func (r *Registry) FindByNameAndMap(name, mapID string) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.order {
		p := r.byID[id]
		if p.Name == name && p.MapID == mapID {
			return p
		}
	}
	return nil
}

// Rejoin mints a fresh bearer token for an already-registered player,
// invalidating whatever token it held before.
func (r *Registry) Rejoin(p *Player) (*Player, error) {
	token, err := mintToken()
	if err != nil {
		return nil, fmt.Errorf("player: minting token: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.byToken, p.Token)
	p.Token = token
	r.byToken[token] = p
	return p, nil
}

// ByToken looks up the player owning token. Returns ErrUnknownToken if no
// live player holds it.
func (r *Registry) ByToken(token string) (*Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byToken[token]
	if !ok {
		return nil, ErrUnknownToken
	}
	return p, nil
}

// Get returns the player with the given id, or nil.
func (r *Registry) Get(id int) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// All returns every live player, enumerated from the live id set rather
// than a 0..N scan so that removed ids leave no gaps to skip over.
func (r *Registry) All() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// Remove deletes a player from the registry (both the id and token
// indexes) and returns it, or nil if the id was not live.
func (r *Registry) Remove(id int) *Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return nil
	}
	delete(r.byID, id)
	delete(r.byToken, p.Token)
	for i, got := range r.order {
		if got == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p
}

// State returns a copy of every live player, for serialization.
func (r *Registry) State() []Player {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Player, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Restore replaces the registry's contents with players, rebuilding the
// token index and advancing the id counter past the highest restored id.
func (r *Registry) Restore(players []Player) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID = make(map[int]*Player, len(players))
	r.byToken = make(map[string]*Player, len(players))
	r.order = r.order[:0]
	r.nextID = 0

	for i := range players {
		p := players[i]
		r.byID[p.ID] = &p
		r.byToken[p.Token] = &p
		r.order = append(r.order, p.ID)
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
}

func mintToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
