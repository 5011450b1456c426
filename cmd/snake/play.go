package main

import (
	"context"
	"fmt"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/gameid"
	"github.com/lox/snake/internal/leaderboard"
	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/runner"
	"github.com/lox/snake/internal/snake"
	"github.com/lox/snake/internal/tui"
)

// PlayCmd runs an interactive game.
type PlayCmd struct {
	Width    int           `help:"Board width (overrides config)"`
	Height   int           `help:"Board height (overrides config)"`
	Interval time.Duration `help:"Tick interval (overrides config)"`
	Seed     *int64        `help:"Deterministic seed (optional)"`
	Bot      string        `help:"Let a configured bot or strategy play instead"`
	Player   string        `default:"player" help:"Name recorded on the leaderboard"`
	NoSave   bool          `help:"Do not write a replay or leaderboard entry"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	width, height := pick(c.Width, cfg.Game.Width), pick(c.Height, cfg.Game.Height)

	interval := c.Interval
	if interval == 0 {
		if interval, err = cfg.TickInterval(); err != nil {
			return err
		}
	}

	logger, closeLog, err := newFileLogger(cfg.Game.LogFile, cfg.Game.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	seed := seedOrNow(c.Seed, cfg.Game.Seed)
	game, err := snake.New(width, height, randutil.NewSource(seed))
	if err != nil {
		return err
	}

	strategy := ""
	opts := []runner.Option{}
	if c.Bot != "" {
		strategy = cfg.BotStrategy(c.Bot)
		s, err := bot.New(strategy, randutil.New(seed))
		if err != nil {
			return err
		}
		opts = append(opts, runner.WithController(s))
	}

	id := gameid.Generate()
	rec := replay.NewRecorder(id, seed, width, height, strategy)
	opts = append(opts, runner.WithRecorder(rec))

	r := runner.New(game, quartz.NewReal(), interval, logger, opts...)
	logger.Info("Starting game", "id", id, "seed", seed, "board", fmt.Sprintf("%dx%d", width, height), "interval", interval)

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := tui.Run(ctx, r, logger, "snake"); err != nil {
		return err
	}

	rep := rec.Replay()
	rep.Result = r.Result()
	fmt.Printf("Length %d after %d ticks (%s)\n", rep.Result.Length, rep.Result.Ticks, rep.Result.Cause)

	if c.NoSave {
		return nil
	}

	ctx = context.Background()
	store, err := leaderboard.Open(ctx, cfg.Leaderboard, cfg.Game.ReplayDir)
	if err != nil {
		logger.Warn("Leaderboard unavailable", "error", err)
	} else {
		defer store.Close()
	}
	path, err := record(ctx, cfg.Game.ReplayDir, store, rep, c.Player)
	if path != "" {
		fmt.Printf("Replay: %s\n", path)
	}
	return err
}

// record saves the replay and, when store is not nil, submits the game to
// the leaderboard. It returns the replay path.
func record(ctx context.Context, dir string, store leaderboard.Store, rep *replay.Replay, player string) (string, error) {
	rep.Player = player
	path, err := replay.Save(dir, rep)
	if err != nil {
		return "", fmt.Errorf("saving replay: %w", err)
	}
	if store == nil {
		return path, nil
	}

	return path, store.Submit(ctx, leaderboard.EntryOf(rep))
}

func pick(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	return configured
}

// seedOrNow prefers the flag, then a non-zero configured seed, then the clock.
func seedOrNow(flag *int64, configured int64) int64 {
	if flag != nil {
		return *flag
	}
	if configured != 0 {
		return configured
	}
	return time.Now().UnixNano()
}
