// Package snapshot persists and restores the full in-memory game state --
// every live session's dogs and loot plus the player registry -- to a
// single file, so a server restart picks up exactly where it left off.
package snapshot

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"

	"dogstory/internal/game"
	"dogstory/internal/geom"
	"dogstory/internal/player"
)

// Schema versions. Version1 predates per-dog lifetime tracking: a file
// written by it has no PlayTimeMs or IdleMs for any dog, and Load fills
// both with zero on upgrade. CurrentVersion is always what Save writes.
const (
	Version1 = 1
	Version2 = 2

	CurrentVersion = Version2
)

type header struct {
	Version  int
	WriterID string
}

// dogV1 is the version-1 wire shape of game.Dog, missing the two fields
// added for idle-retirement bookkeeping.
type dogV1 struct {
	ID          int
	Name        string
	Pos         geom.Point
	PrevPos     geom.Point
	Speed       geom.Point
	Dir         game.Direction
	Bag         []game.Loot
	BagCapacity int
	Score       int
}

type sessionStateV1 struct {
	MapID             string
	Dogs              []dogV1
	Loots             []game.Loot
	LootAccumulatorMs int64
	NextDogID         int
	NextLootID        int
}

type payloadV1 struct {
	Sessions map[string]sessionStateV1
	Players  []player.Player
}

type payloadV2 struct {
	Sessions map[string]game.State
	Players  []player.Player
}

// Save atomically writes sessions and players to path, tagged with a fresh
// writer-instance id. It writes to a temp file and renames into place so a
// crash mid-write never leaves a corrupt snapshot at path.
func Save(path string, sessions map[string]game.State, players []player.Player) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("snapshot: creating temp file: %w", err)
	}

	enc := gob.NewEncoder(f)
	h := header{Version: CurrentVersion, WriterID: uuid.NewString()}
	if err := enc.Encode(h); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: encoding header: %w", err)
	}
	if err := enc.Encode(payloadV2{Sessions: sessions, Players: players}); err != nil {
		f.Close()
		return fmt.Errorf("snapshot: encoding payload: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("snapshot: closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("snapshot: installing snapshot file: %w", err)
	}
	return nil
}

// Load reads a snapshot file at path. A missing file is not an error --
// it returns nil, nil, nil, the signal for a cold start. A present but
// corrupt or unrecognized-version file is fatal.
func Load(path string) (map[string]game.State, []player.Player, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot: opening file: %w", err)
	}
	defer f.Close()

	dec := gob.NewDecoder(f)

	var h header
	if err := dec.Decode(&h); err != nil {
		return nil, nil, fmt.Errorf("snapshot: decoding header: %w", err)
	}

	switch h.Version {
	case Version1:
		var p payloadV1
		if err := dec.Decode(&p); err != nil {
			return nil, nil, fmt.Errorf("snapshot: decoding version 1 payload: %w", err)
		}
		return upgradeV1(p.Sessions), p.Players, nil
	case Version2:
		var p payloadV2
		if err := dec.Decode(&p); err != nil {
			return nil, nil, fmt.Errorf("snapshot: decoding version 2 payload: %w", err)
		}
		return p.Sessions, p.Players, nil
	default:
		return nil, nil, fmt.Errorf("snapshot: unsupported schema version %d", h.Version)
	}
}

func upgradeV1(in map[string]sessionStateV1) map[string]game.State {
	out := make(map[string]game.State, len(in))
	for mapID, st := range in {
		dogs := make([]game.Dog, 0, len(st.Dogs))
		for _, d := range st.Dogs {
			dogs = append(dogs, game.Dog{
				ID:          d.ID,
				Name:        d.Name,
				Pos:         d.Pos,
				PrevPos:     d.PrevPos,
				Speed:       d.Speed,
				Dir:         d.Dir,
				Bag:         d.Bag,
				BagCapacity: d.BagCapacity,
				Score:       d.Score,
				// PlayTimeMs and IdleMs are unknown for a version-1 dog;
				// it restarts its idle clock from zero.
			})
		}
		out[mapID] = game.State{
			MapID:             st.MapID,
			Dogs:              dogs,
			Loots:             st.Loots,
			LootAccumulatorMs: st.LootAccumulatorMs,
			NextDogID:         st.NextDogID,
			NextLootID:        st.NextLootID,
		}
	}
	return out
}
