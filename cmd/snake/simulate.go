package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/simulator"
)

// SimulateCmd plays many headless games.
type SimulateCmd struct {
	Games    int    `short:"n" default:"1000" help:"Number of games to play"`
	Bot      string `default:"greedy" help:"Configured bot or strategy name"`
	Width    int    `help:"Board width (overrides config)"`
	Height   int    `help:"Board height (overrides config)"`
	Seed     *int64 `help:"Seed of the first game (optional)"`
	MaxSteps int    `help:"Stop a game after this many steps (0 = width*height*8)"`
	Workers  int    `short:"w" help:"Parallel workers (0 = GOMAXPROCS)"`
	SaveBest bool   `help:"Save a replay of the best game"`
}

func (c *SimulateCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger, err := newLogger(os.Stderr, cfg.Game.LogLevel)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	seed := seedOrNow(c.Seed, cfg.Game.Seed)
	sim := simulator.New(simulator.Config{
		Games:    c.Games,
		Strategy: cfg.BotStrategy(c.Bot),
		Width:    pick(c.Width, cfg.Game.Width),
		Height:   pick(c.Height, cfg.Game.Height),
		Seed:     seed,
		MaxSteps: c.MaxSteps,
		Workers:  c.Workers,
		Logger:   logger,
	})

	start := time.Now()
	report, err := sim.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Print(report.Stats.Summary())
	fmt.Printf("Elapsed:      %s (%.0f games/sec)\n", elapsed.Round(time.Millisecond), float64(c.Games)/elapsed.Seconds())

	if c.SaveBest && report.Best != nil {
		path, err := replay.Save(cfg.Game.ReplayDir, report.Best)
		if err != nil {
			return err
		}
		fmt.Printf("Best replay:  %s\n", path)
	}
	return nil
}
