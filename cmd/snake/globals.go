package main

import (
	"fmt"

	"github.com/lox/snake/internal/config"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `short:"c" default:"snake.hcl" type:"path" help:"HCL config file (optional)"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
}

// load reads the config file and applies global overrides.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", g.Config, err)
	}
	if g.LogLevel != "" {
		cfg.Game.LogLevel = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
