package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dogstory/internal/geom"
	"dogstory/internal/worldmap"
)

func straightMap() *worldmap.Map {
	return &worldmap.Map{
		ID:          "m1",
		Name:        "Test Map",
		DogSpeed:    2.0,
		BagCapacity: 2,
		LootScores:  []int{10, 20},
		Roads: []worldmap.Road{
			{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}},
		},
		Offices: []worldmap.Office{
			{ID: "o1", Pos: geom.Point{X: 0, Y: 0}, Offset: geom.Point{X: 0, Y: 0}},
		},
	}
}

func newTestSession(m *worldmap.Map) *Session {
	lootGen := NewLootGenerator(0, 1)
	return NewSession(m, lootGen, false, rand.New(rand.NewSource(1)))
}

func TestSessionAddDog(t *testing.T) {
	s := newTestSession(straightMap())

	dog, err := s.AddDog("rex")
	require.NoError(t, err)
	assert.Equal(t, geom.Point{X: 0, Y: 0}, dog.Pos)

	_, err = s.AddDog("rex")
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = s.AddDog("fido")
	require.NoError(t, err)
	assert.Len(t, s.Dogs(), 2)
}

func TestSessionTickMovesAlongRoad(t *testing.T) {
	s := newTestSession(straightMap())
	dog, err := s.AddDog("rex")
	require.NoError(t, err)

	require.NoError(t, s.Action(dog.ID, "R"))
	s.Tick(1000)

	assert.InDelta(t, 2.0, dog.Pos.X, 1e-9)
	assert.InDelta(t, 0.0, dog.Pos.Y, 1e-9)
	assert.Equal(t, East, dog.Dir)
}

func TestSessionTickStandKeepsDirection(t *testing.T) {
	s := newTestSession(straightMap())
	dog, err := s.AddDog("rex")
	require.NoError(t, err)
	require.NoError(t, s.Action(dog.ID, "R"))
	require.NoError(t, s.Action(dog.ID, ""))

	s.Tick(1000)

	assert.Equal(t, East, dog.Dir)
	assert.True(t, dog.IsStationary())
	assert.Equal(t, int64(1000), dog.IdleMs)
}

func TestSessionClampsMoveOffRoad(t *testing.T) {
	s := newTestSession(straightMap())
	dog, err := s.AddDog("rex")
	require.NoError(t, err)
	dog.Pos = geom.Point{X: 5, Y: 0}

	require.NoError(t, s.Action(dog.ID, "D"))
	s.Tick(100000)

	assert.InDelta(t, worldmap.RoadHalfWidth, dog.Pos.Y, 1e-9)
}

func TestSessionClampStopsDogWithoutIdleTime(t *testing.T) {
	s := newTestSession(straightMap())
	dog, err := s.AddDog("rex")
	require.NoError(t, err)
	dog.Pos = geom.Point{X: 2, Y: 0}

	require.NoError(t, s.Action(dog.ID, "R"))
	s.Tick(10000)

	assert.InDelta(t, 10+worldmap.RoadHalfWidth, dog.Pos.X, 1e-9)
	assert.InDelta(t, 0, dog.Pos.Y, 1e-9)
	assert.True(t, dog.IsStationary())
	assert.Equal(t, East, dog.Dir)
	assert.Equal(t, int64(0), dog.IdleMs)
}

func TestSessionAddDogSpawnsOneLoot(t *testing.T) {
	s := newTestSession(straightMap())
	_, err := s.AddDog("rex")
	require.NoError(t, err)

	assert.Len(t, s.Loots(), 1)
}

func TestSessionPickUpAndDeliverLoot(t *testing.T) {
	s := newTestSession(straightMap())
	dog, err := s.AddDog("rex")
	require.NoError(t, err)

	s.loots[0] = &Loot{ID: 0, Type: 0, Pos: geom.Point{X: 1, Y: 0}}
	s.lootOrder = []int{0}

	require.NoError(t, s.Action(dog.ID, "R"))
	s.Tick(1000)

	require.Len(t, dog.Bag, 1)
	assert.Empty(t, s.Loots())

	require.NoError(t, s.Action(dog.ID, "L"))
	s.Tick(1000)

	assert.Empty(t, dog.Bag)
	assert.Equal(t, 10, dog.Score)
}

func TestSessionIdleDogs(t *testing.T) {
	s := newTestSession(straightMap())
	dog, err := s.AddDog("rex")
	require.NoError(t, err)

	s.Tick(5000)
	assert.Empty(t, s.IdleDogs(10000))

	s.Tick(10000)
	assert.Equal(t, []*Dog{dog}, s.IdleDogs(10000))
}
