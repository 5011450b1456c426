package spectate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/gameid"
	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/runner"
	"github.com/lox/snake/internal/snake"
)

// LoopConfig describes the exhibition games played for spectators.
type LoopConfig struct {
	Width    int
	Height   int
	Seed     int64
	Strategy string
	Interval time.Duration
	Pause    time.Duration // between games
	MaxSteps int           // 0 means width*height*8
	MaxGames int           // 0 means until ctx is cancelled
	Clock    quartz.Clock
	Logger   *log.Logger

	// OnGame is called with the replay of every finished game.
	OnGame func(*replay.Replay)
}

// Loop plays bot-driven games back to back and broadcasts every frame to
// hub. Game n is seeded with Seed+n. It returns nil once MaxGames have been
// played or ctx is cancelled.
func Loop(ctx context.Context, cfg LoopConfig, hub *Hub) error {
	if cfg.Clock == nil {
		cfg.Clock = quartz.NewReal()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = cfg.Width * cfg.Height * 8
	}
	if !bot.Known(cfg.Strategy) {
		return fmt.Errorf("spectate: %w: %q", bot.ErrUnknownStrategy, cfg.Strategy)
	}
	logger := cfg.Logger.WithPrefix("loop")

	for n := 0; cfg.MaxGames == 0 || n < cfg.MaxGames; n++ {
		rep, err := playOne(ctx, cfg, hub, n, logger)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if cfg.OnGame != nil {
			cfg.OnGame(rep)
		}

		if cfg.Pause > 0 {
			t := cfg.Clock.NewTimer(cfg.Pause, "loop", "pause")
			select {
			case <-ctx.Done():
				t.Stop()
				return nil
			case <-t.C:
			}
		}
	}
	return nil
}

func playOne(ctx context.Context, cfg LoopConfig, hub *Hub, n int, logger *log.Logger) (*replay.Replay, error) {
	seed := cfg.Seed + int64(n)

	game, err := snake.New(cfg.Width, cfg.Height, randutil.NewSource(seed))
	if err != nil {
		return nil, err
	}
	strategy, err := bot.New(cfg.Strategy, randutil.New(seed))
	if err != nil {
		return nil, err
	}

	id := gameid.Generate()
	rec := replay.NewRecorder(id, seed, cfg.Width, cfg.Height, cfg.Strategy)
	r := runner.New(game, cfg.Clock, cfg.Interval, cfg.Logger,
		runner.WithController(strategy),
		runner.WithRecorder(rec),
		runner.WithMaxSteps(cfg.MaxSteps))

	r.OnFrame(func(f runner.Frame) {
		msg, err := FrameMessage(f)
		if err != nil {
			logger.Error("Failed to encode frame", "error", err)
			return
		}
		if err := hub.Broadcast(msg); err != nil {
			logger.Error("Broadcast failed", "error", err)
		}
	})

	start, err := NewMessage(MessageTypeGameStart, GameStartData{
		Game: n, ID: id, Seed: seed, Strategy: cfg.Strategy, Width: cfg.Width, Height: cfg.Height,
	})
	if err != nil {
		return nil, err
	}
	if err := hub.Broadcast(start); err != nil {
		return nil, err
	}
	logger.Info("Game started", "game", n, "id", id, "seed", seed, "spectators", hub.Clients())

	if err := r.Run(ctx); err != nil {
		return nil, err
	}

	res := r.Result()
	over, err := NewMessage(MessageTypeGameOver, GameOverData{
		Game: n, ID: id, Length: res.Length, Steps: res.Steps, Cause: res.Cause.String(),
	})
	if err != nil {
		return nil, err
	}
	if err := hub.Broadcast(over); err != nil {
		return nil, err
	}
	logger.Info("Game over", "game", n, "length", res.Length, "cause", res.Cause)

	return rec.Replay(), nil
}
