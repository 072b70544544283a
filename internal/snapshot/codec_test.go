package snapshot

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dogstory/internal/game"
	"dogstory/internal/geom"
	"dogstory/internal/player"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.gob")

	sessions := map[string]game.State{
		"map1": {
			MapID: "map1",
			Dogs: []game.Dog{
				{ID: 0, Name: "rex", Pos: geom.Point{X: 1, Y: 2}, BagCapacity: 3, Score: 10, PlayTimeMs: 5000, IdleMs: 1000},
			},
			Loots:             []game.Loot{{ID: 0, Type: 1, Pos: geom.Point{X: 3, Y: 4}}},
			LootAccumulatorMs: 250,
			NextDogID:         1,
			NextLootID:        1,
		},
	}
	players := []player.Player{
		{ID: 0, Name: "rex", Token: "abc123", MapID: "map1", DogID: 0},
	}

	require.NoError(t, Save(path, sessions, players))

	gotSessions, gotPlayers, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sessions, gotSessions)
	assert.Equal(t, players, gotPlayers)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.gob")
	sessions, players, err := Load(path)
	require.NoError(t, err)
	assert.Nil(t, sessions)
	assert.Nil(t, players)
}

func TestLoadUpgradesVersion1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "v1.gob")

	v1 := payloadV1{
		Sessions: map[string]sessionStateV1{
			"map1": {
				MapID:      "map1",
				Dogs:       []dogV1{{ID: 0, Name: "rex", BagCapacity: 3, Score: 7}},
				NextDogID:  1,
				NextLootID: 0,
			},
		},
	}
	writeRaw(t, path, header{Version: Version1, WriterID: "writer-a"}, v1)

	sessions, _, err := Load(path)
	require.NoError(t, err)
	dog := sessions["map1"].Dogs[0]
	assert.Equal(t, "rex", dog.Name)
	assert.Equal(t, 7, dog.Score)
	assert.Equal(t, int64(0), dog.PlayTimeMs)
	assert.Equal(t, int64(0), dog.IdleMs)
}

func writeRaw(t *testing.T, path string, h header, p payloadV1) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	enc := gob.NewEncoder(f)
	require.NoError(t, enc.Encode(h))
	require.NoError(t, enc.Encode(p))
}
