package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, 20, c.Game.Width)
	assert.Equal(t, 15, c.Game.Height)
	assert.Equal(t, "memory", c.Leaderboard.Backend)
	assert.Equal(t, "localhost:8080", c.SpectateAddress())

	interval, err := c.TickInterval()
	require.NoError(t, err)
	assert.Equal(t, 120*time.Millisecond, interval)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadFile(t *testing.T) {
	src := `
game {
  width         = 30
  height        = 12
  tick_interval = "80ms"
  seed          = 99
}

bot "fast" {
  strategy = "greedy"
}

bot "random" {}

leaderboard {
  backend    = "redis"
  redis_addr = "cache:6379"
}

spectate {
  port = 9000
  bot  = "fast"
}
`
	path := filepath.Join(t.TempDir(), "snake.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	assert.Equal(t, 30, c.Game.Width)
	assert.Equal(t, 12, c.Game.Height)
	assert.Equal(t, int64(99), c.Game.Seed)
	assert.Equal(t, "replays", c.Game.ReplayDir)

	require.Len(t, c.Bots, 2)
	assert.Equal(t, "greedy", c.BotStrategy("fast"))
	assert.Equal(t, "random", c.BotStrategy("random"))
	assert.Equal(t, "cautious", c.BotStrategy("cautious"))

	assert.Equal(t, "redis", c.Leaderboard.Backend)
	assert.Equal(t, "cache:6379", c.Leaderboard.RedisAddr)
	assert.Equal(t, "snake:leaderboard", c.Leaderboard.Key)
	assert.Equal(t, "localhost:9000", c.SpectateAddress())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`game {`), "broken.hcl")
	assert.Error(t, err)

	_, err = Parse([]byte(`game { colour = "green" }`), "unknown.hcl")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Game.Width = -1 }},
		{"bad interval", func(c *Config) { c.Game.TickInterval = "soon" }},
		{"interval too short", func(c *Config) { c.Game.TickInterval = "1ms" }},
		{"unknown bot strategy", func(c *Config) { c.Bots = []BotSettings{{Name: "x", Strategy: "psychic"}} }},
		{"unknown spectate bot", func(c *Config) { c.Spectate.Bot = "psychic" }},
		{"unknown backend", func(c *Config) { c.Leaderboard.Backend = "postgres" }},
		{"bad port", func(c *Config) { c.Spectate.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			assert.ErrorIs(t, c.Validate(), ErrInvalidConfig)
		})
	}
}
