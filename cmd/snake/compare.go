package main

import (
	"errors"
	"os"

	"github.com/lox/snake/internal/regression"
)

var errRegression = errors.New("challenger is a significant regression")

// CompareCmd pits a challenger strategy against a baseline on shared seeds.
type CompareCmd struct {
	Baseline     string  `arg:"" help:"Baseline bot or strategy"`
	Challenger   string  `arg:"" help:"Challenger bot or strategy"`
	Games        int     `short:"n" default:"500" help:"Games per strategy"`
	Width        int     `help:"Board width (overrides config)"`
	Height       int     `help:"Board height (overrides config)"`
	Seed         *int64  `help:"Seed of the first game (optional)"`
	MaxSteps     int     `help:"Stop a game after this many steps (0 = width*height*8)"`
	Workers      int     `short:"w" help:"Parallel workers (0 = GOMAXPROCS)"`
	Significance float64 `default:"0.05" help:"Significance level for the verdict"`
	JSON         bool    `help:"Print the report as JSON"`
	Strict       bool    `help:"Exit non-zero when the challenger is a significant regression"`
}

func (c *CompareCmd) Run(g *Globals) error {
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

	result, err := regression.Run(ctx, regression.Config{
		Baseline:          cfg.BotStrategy(c.Baseline),
		Challenger:        cfg.BotStrategy(c.Challenger),
		Games:             c.Games,
		Width:             pick(c.Width, cfg.Game.Width),
		Height:            pick(c.Height, cfg.Game.Height),
		Seed:              seedOrNow(c.Seed, cfg.Game.Seed),
		MaxSteps:          c.MaxSteps,
		Workers:           c.Workers,
		SignificanceLevel: c.Significance,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if c.JSON {
		err = regression.WriteJSON(os.Stdout, result)
	} else {
		err = regression.WriteSummary(os.Stdout, result)
	}
	if err != nil {
		return err
	}

	if c.Strict && result.Verdict.Recommendation == "reject" {
		return errRegression
	}
	return nil
}
