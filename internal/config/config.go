// Package config loads the HCL configuration shared by the snake commands.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/snake/internal/bot"
)

// DefaultFile is looked up when no --config flag is given.
const DefaultFile = "snake.hcl"

const minTickInterval = 10 * time.Millisecond

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the complete configuration.
type Config struct {
	Game        GameSettings
	Bots        []BotSettings
	Leaderboard LeaderboardSettings
	Spectate    SpectateSettings
}

// GameSettings controls the board and the host loop.
type GameSettings struct {
	Width        int    `hcl:"width,optional"`
	Height       int    `hcl:"height,optional"`
	TickInterval string `hcl:"tick_interval,optional"`
	Seed         int64  `hcl:"seed,optional"`
	LogLevel     string `hcl:"log_level,optional"`
	LogFile      string `hcl:"log_file,optional"`
	ReplayDir    string `hcl:"replay_dir,optional"`
}

// BotSettings names an autopilot strategy.
type BotSettings struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
}

// LeaderboardSettings selects where finished games are ranked.
type LeaderboardSettings struct {
	Backend   string `hcl:"backend,optional"`
	RedisAddr string `hcl:"redis_addr,optional"`
	Key       string `hcl:"key,optional"`
	Size      int    `hcl:"size,optional"`
}

// SpectateSettings configures the websocket frame feed.
type SpectateSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
	Bot     string `hcl:"bot,optional"`
}

// file mirrors Config with optional blocks; gohcl treats non-pointer blocks
// as required.
type file struct {
	Game        *GameSettings        `hcl:"game,block"`
	Bots        []BotSettings        `hcl:"bot,block"`
	Leaderboard *LeaderboardSettings `hcl:"leaderboard,block"`
	Spectate    *SpectateSettings    `hcl:"spectate,block"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads filename, falling back to Default when it does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}
	return decode(f.Body)
}

// Parse decodes HCL source held in memory. filename only appears in diagnostics.
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL: %s", diags.Error())
	}
	return decode(f.Body)
}

func decode(body hcl.Body) (*Config, error) {
	var raw file
	if diags := gohcl.DecodeBody(body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	c := &Config{Bots: raw.Bots}
	if raw.Game != nil {
		c.Game = *raw.Game
	}
	if raw.Leaderboard != nil {
		c.Leaderboard = *raw.Leaderboard
	}
	if raw.Spectate != nil {
		c.Spectate = *raw.Spectate
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Game.Width == 0 {
		c.Game.Width = 20
	}
	if c.Game.Height == 0 {
		c.Game.Height = 15
	}
	if c.Game.TickInterval == "" {
		c.Game.TickInterval = "120ms"
	}
	if c.Game.LogLevel == "" {
		c.Game.LogLevel = "info"
	}
	if c.Game.LogFile == "" {
		c.Game.LogFile = "snake.log"
	}
	if c.Game.ReplayDir == "" {
		c.Game.ReplayDir = "replays"
	}

	for i := range c.Bots {
		if c.Bots[i].Strategy == "" {
			c.Bots[i].Strategy = c.Bots[i].Name
		}
	}

	if c.Leaderboard.Backend == "" {
		c.Leaderboard.Backend = "memory"
	}
	if c.Leaderboard.RedisAddr == "" {
		c.Leaderboard.RedisAddr = "localhost:6379"
	}
	if c.Leaderboard.Key == "" {
		c.Leaderboard.Key = "snake:leaderboard"
	}
	if c.Leaderboard.Size == 0 {
		c.Leaderboard.Size = 10
	}

	if c.Spectate.Address == "" {
		c.Spectate.Address = "localhost"
	}
	if c.Spectate.Port == 0 {
		c.Spectate.Port = 8080
	}
	if c.Spectate.Bot == "" {
		c.Spectate.Bot = "cautious"
	}
}

// Validate reports the first problem found in c.
func (c *Config) Validate() error {
	if c.Game.Width <= 0 || c.Game.Height <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Game.Width, c.Game.Height)
	}

	interval, err := c.TickInterval()
	if err != nil {
		return err
	}
	if interval < minTickInterval {
		return fmt.Errorf("%w: tick_interval must be at least %s, got %s", ErrInvalidConfig, minTickInterval, interval)
	}

	for _, b := range c.Bots {
		if !bot.Known(b.Strategy) {
			return fmt.Errorf("%w: bot %s: unknown strategy %q", ErrInvalidConfig, b.Name, b.Strategy)
		}
	}
	if !bot.Known(c.BotStrategy(c.Spectate.Bot)) {
		return fmt.Errorf("%w: spectate: unknown strategy %q", ErrInvalidConfig, c.Spectate.Bot)
	}

	switch c.Leaderboard.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("%w: leaderboard: unknown backend %q", ErrInvalidConfig, c.Leaderboard.Backend)
	}
	if c.Leaderboard.Size < 1 {
		return fmt.Errorf("%w: leaderboard: size must be positive", ErrInvalidConfig)
	}

	if c.Spectate.Port < 1 || c.Spectate.Port > 65535 {
		return fmt.Errorf("%w: invalid port: %d", ErrInvalidConfig, c.Spectate.Port)
	}

	return nil
}

// TickInterval parses Game.TickInterval.
func (c *Config) TickInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("%w: tick_interval: %v", ErrInvalidConfig, err)
	}
	return d, nil
}

// SpectateAddress returns host:port for the spectator server.
func (c *Config) SpectateAddress() string {
	return fmt.Sprintf("%s:%d", c.Spectate.Address, c.Spectate.Port)
}

// BotStrategy resolves a configured bot name to its strategy name. Names
// that are not configured are treated as strategy names themselves.
func (c *Config) BotStrategy(name string) string {
	for _, b := range c.Bots {
		if b.Name == name {
			return b.Strategy
		}
	}
	return name
}
