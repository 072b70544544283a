package app

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dogstory/internal/geom"
	"dogstory/internal/worldmap"
)

func testCatalog(t *testing.T) *worldmap.Catalog {
	t.Helper()
	catalog := worldmap.NewCatalog(2.0, 3, 60000, worldmap.LootGeneratorConfig{PeriodMs: 5000, Probability: 0.5})
	require.NoError(t, catalog.Add(&worldmap.Map{
		ID:          "map1",
		Name:        "Map 1",
		DogSpeed:    2.0,
		BagCapacity: 3,
		LootScores:  []int{10},
		Roads: []worldmap.Road{
			{Start: geom.Point{X: 0, Y: 0}, End: geom.Point{X: 10, Y: 0}},
		},
	}))
	return catalog
}

func newTestApp(t *testing.T) *Application {
	return New(testCatalog(t), false, rand.New(rand.NewSource(1)), nil)
}

func TestJoinAndAuthenticate(t *testing.T) {
	a := newTestApp(t)

	p, err := a.Join("rex", "map1")
	require.NoError(t, err)
	assert.Equal(t, "rex", p.Name)

	found, err := a.Authenticate("Bearer " + p.Token)
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	rejoined, err := a.Join("rex", "map1")
	require.NoError(t, err)
	assert.Equal(t, p.ID, rejoined.ID)
	assert.NotEqual(t, p.Token, rejoined.Token)

	_, err = a.Authenticate("Bearer " + p.Token)
	assert.ErrorIs(t, err, ErrUnknownToken)

	_, err = a.Join("spot", "unknown-map")
	assert.ErrorIs(t, err, ErrUnknownMap)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	a := newTestApp(t)

	_, err := a.Authenticate("")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Authenticate("Bearer not-hex")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Authenticate("Bearer " + "0123456789abcdef0123456789abcdef")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestActionMovesDog(t *testing.T) {
	a := newTestApp(t)
	p, err := a.Join("rex", "map1")
	require.NoError(t, err)

	require.NoError(t, a.Action("Bearer "+p.Token, "R"))
	a.Tick(1000)

	state, err := a.State("Bearer " + p.Token)
	require.NoError(t, err)
	require.Len(t, state.Dogs, 1)
	assert.InDelta(t, 2.0, state.Dogs[0].Pos.X, 1e-9)
}

func TestRetirementRemovesIdlePlayer(t *testing.T) {
	a := newTestApp(t)
	p, err := a.Join("rex", "map1")
	require.NoError(t, err)

	a.Tick(60000)
	a.Tick(1)

	_, err = a.Authenticate("Bearer " + p.Token)
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestMapsAndMapLookup(t *testing.T) {
	a := newTestApp(t)
	assert.Len(t, a.Maps(), 1)
	assert.NotNil(t, a.Map("map1"))
	assert.Nil(t, a.Map("nope"))
}
