package main

import (
	"os"
	"time"

	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/snake/internal/leaderboard"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/spectate"
)

// ServeCmd streams exhibition games over websockets.
type ServeCmd struct {
	Addr     string        `help:"Listen address (overrides config)"`
	Bot      string        `help:"Configured bot or strategy name (overrides config)"`
	Pause    time.Duration `default:"2s" help:"Pause between games"`
	Interval time.Duration `help:"Tick interval (overrides config)"`
	Seed     *int64        `help:"Seed of the first game (optional)"`
	Record   bool          `help:"Save replays and submit finished games to the leaderboard"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Game.LogLevel)
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.SpectateAddress()
	}
	botName := c.Bot
	if botName == "" {
		botName = cfg.Spectate.Bot
	}
	interval := c.Interval
	if interval == 0 {
		if interval, err = cfg.TickInterval(); err != nil {
			return err
		}
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	hub := spectate.NewHub(logger)
	loop := spectate.LoopConfig{
		Width:    cfg.Game.Width,
		Height:   cfg.Game.Height,
		Seed:     seedOrNow(c.Seed, cfg.Game.Seed),
		Strategy: cfg.BotStrategy(botName),
		Interval: interval,
		Pause:    c.Pause,
		Clock:    quartz.NewReal(),
		Logger:   logger,
	}
	if c.Record {
		store, err := leaderboard.Open(ctx, cfg.Leaderboard, cfg.Game.ReplayDir)
		if err != nil {
			return err
		}
		defer store.Close()

		loop.OnGame = func(r *replay.Replay) {
			path, err := record(ctx, cfg.Game.ReplayDir, store, r, botName)
			if err != nil {
				logger.Error("Failed to record game", "id", r.ID, "error", err)
				return
			}
			logger.Debug("Game recorded", "id", r.ID, "path", path)
		}
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return spectate.ListenAndServe(ctx, addr, hub)
	})
	eg.Go(func() error {
		defer cancel()
		return spectate.Loop(ctx, loop, hub)
	})
	return eg.Wait()
}
