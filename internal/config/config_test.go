package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("TICK_PERIOD_MS", "250")
	t.Setenv("RANDOMIZE_SPAWN_POINTS", "true")

	cfg := SimFromEnv()
	assert.Equal(t, 250, cfg.TickPeriodMs)
	assert.True(t, cfg.RandomizeSpawn)
}

func TestSimFromEnvFallsBackToDefaults(t *testing.T) {
	os.Unsetenv("TICK_PERIOD_MS")
	os.Unsetenv("RANDOMIZE_SPAWN_POINTS")

	cfg := SimFromEnv()
	assert.Equal(t, DefaultSim(), cfg)
}

func TestPersistenceFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("MAP_CONFIG_PATH", "/tmp/config.json")
	t.Setenv("STATE_FILE_PATH", "/tmp/state.gob")
	t.Setenv("SAVE_STATE_PERIOD", "30")
	t.Setenv("LEADERBOARD_DB_URL", "/tmp/board.db")

	cfg := PersistenceFromEnv()
	assert.Equal(t, "/tmp/config.json", cfg.MapConfigPath)
	assert.Equal(t, "/tmp/state.gob", cfg.StateFilePath)
	assert.Equal(t, 30, cfg.SaveStatePeriod)
	assert.Equal(t, "/tmp/board.db", cfg.LeaderboardDBURL)
}

func TestServerFromEnvOverridesDefaults(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("RATE_LIMIT_RPS", "50")
	t.Setenv("RATE_LIMIT_BURST", "100")

	cfg := ServerFromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 50.0, cfg.RequestsPerSec)
	assert.Equal(t, 100, cfg.RateLimitBurst)
}
