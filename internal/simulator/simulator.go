// Package simulator plays many headless games with an autopilot strategy
// and aggregates the outcomes.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/gameid"
	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/runner"
	"github.com/lox/snake/internal/snake"
	"github.com/lox/snake/internal/statistics"
)

// strategySalt keeps the bot's random stream independent of food placement.
const strategySalt = 0x5eed

var ErrNoGames = errors.New("simulator: no games to play")

// Config holds configuration for running simulations
type Config struct {
	Games    int
	Strategy string
	Width    int
	Height   int
	Seed     int64
	MaxSteps int // 0 means width*height*8
	Workers  int // 0 means GOMAXPROCS
	Logger   *log.Logger
}

// Simulator runs batches of bot-driven games.
type Simulator struct {
	config Config
	logger *log.Logger
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Workers <= 0 {
		config.Workers = runtime.GOMAXPROCS(0)
	}
	if config.MaxSteps <= 0 {
		config.MaxSteps = config.Width * config.Height * 8
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	return &Simulator{config: config, logger: config.Logger.WithPrefix("simulator")}
}

// Report is the outcome of a batch.
type Report struct {
	Stats *statistics.Statistics
	Best  *replay.Replay // replay of the longest snake
}

// Run plays every game and returns the aggregated report. Game i is seeded
// with Seed+i, so a batch is reproducible regardless of worker count.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.config.Games <= 0 {
		return nil, ErrNoGames
	}
	if !bot.Known(s.config.Strategy) {
		return nil, fmt.Errorf("%w: %q", bot.ErrUnknownStrategy, s.config.Strategy)
	}

	s.logger.Info("Starting simulation",
		"games", s.config.Games,
		"strategy", s.config.Strategy,
		"board", fmt.Sprintf("%dx%d", s.config.Width, s.config.Height),
		"workers", s.config.Workers)

	results := make([]statistics.GameResult, s.config.Games)

	var (
		bestMu sync.Mutex
		best   *replay.Replay
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for i := 0; i < s.config.Games; i++ {
		seed := s.config.Seed + int64(i)
		g.Go(func() error {
			result, rec, err := s.playGame(ctx, seed)
			if err != nil {
				return fmt.Errorf("game %d (seed %d): %w", i, seed, err)
			}
			results[i] = result

			bestMu.Lock()
			if best == nil || isBetter(rec.Result, best.Result, seed, best.Seed) {
				best = rec
			}
			bestMu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats := &statistics.Statistics{}
	for _, r := range results {
		stats.Add(r)
	}
	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	s.logger.Info("Simulation complete", "games", stats.Games, "meanLength", stats.Mean(), "best", stats.Best.Length)
	return &Report{Stats: stats, Best: best}, nil
}

// isBetter orders replays by length, then speed, then seed so the choice of
// best replay does not depend on goroutine scheduling.
func isBetter(a, b replay.Result, seedA, seedB int64) bool {
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	if a.Ticks != b.Ticks {
		return a.Ticks < b.Ticks
	}
	return seedA < seedB
}

func (s *Simulator) playGame(ctx context.Context, seed int64) (statistics.GameResult, *replay.Replay, error) {
	game, err := snake.New(s.config.Width, s.config.Height, randutil.NewSource(seed))
	if err != nil {
		return statistics.GameResult{}, nil, err
	}

	strategy, err := bot.New(s.config.Strategy, randutil.New(seed^strategySalt))
	if err != nil {
		return statistics.GameResult{}, nil, err
	}

	id := gameid.NewGenerator(gameid.WithRandSource(randutil.NewSource(seed))).Generate()
	rec := replay.NewRecorder(id, seed, s.config.Width, s.config.Height, s.config.Strategy)

	r := runner.New(game, quartz.NewReal(), 0, s.logger,
		runner.WithController(strategy),
		runner.WithRecorder(rec),
		runner.WithMaxSteps(s.config.MaxSteps))

	for steps := 0; !r.Step(); steps++ {
		if steps%256 == 0 {
			if err := ctx.Err(); err != nil {
				return statistics.GameResult{}, nil, err
			}
		}
	}

	res := r.Result()
	s.logger.Debug("Game finished", "seed", seed, "length", res.Length, "cause", res.Cause)

	return statistics.GameResult{
		Seed:     seed,
		Length:   res.Length,
		Ticks:    res.Ticks,
		Cause:    res.Cause,
		Strategy: s.config.Strategy,
	}, rec.Replay(), nil
}
