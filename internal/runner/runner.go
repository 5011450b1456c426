// Package runner drives a snake game on a fixed tick interval. It is the
// single owner of the game: every tick, direction request and snapshot goes
// through its mutex, so input handlers and renderers may run on other
// goroutines.
package runner

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/snake"
)

// errStopped ends the ticker once the game is over.
var errStopped = errors.New("runner stopped")

// Frame is an immutable snapshot of the game published after each step.
type Frame struct {
	Step      int              `json:"step"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Body      []snake.Position `json:"body"`
	Food      snake.Position   `json:"food"`
	Direction snake.Direction  `json:"direction"`
	Length    int              `json:"length"`
	Finished  bool             `json:"finished"`
	Cause     snake.Cause      `json:"cause"`
}

// Head returns the first body segment.
func (f Frame) Head() snake.Position {
	if len(f.Body) == 0 {
		return snake.Position{}
	}
	return f.Body[0]
}

// Option configures a Runner.
type Option func(*Runner)

// WithMaxSteps stops the loop after n steps even if the game is still active.
func WithMaxSteps(n int) Option {
	return func(r *Runner) { r.maxSteps = n }
}

// WithController lets a strategy pick the direction before every step.
func WithController(s bot.Strategy) Option {
	return func(r *Runner) { r.controller = s }
}

// WithRecorder records every direction request and the final result.
func WithRecorder(rec *replay.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// Runner owns a game and advances it.
type Runner struct {
	mu       sync.Mutex
	game     *snake.Game
	steps    int
	stopped  bool
	maxSteps int

	clock    quartz.Clock
	interval time.Duration
	logger   *log.Logger

	controller  bot.Strategy
	recorder    *replay.Recorder
	subscribers []func(Frame)
}

// New creates a runner for game ticking every interval on clock.
func New(game *snake.Game, clock quartz.Clock, interval time.Duration, logger *log.Logger, opts ...Option) *Runner {
	r := &Runner{
		game:     game,
		clock:    clock,
		interval: interval,
		logger:   logger.WithPrefix("runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnFrame registers fn to receive a frame after every step. Callbacks run on
// the ticking goroutine after the lock is released.
func (r *Runner) OnFrame(fn func(Frame)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers = append(r.subscribers, fn)
}

// Start schedules the ticker and returns a function that blocks until the
// loop ends. The ticker is registered before Start returns.
func (r *Runner) Start(ctx context.Context) func() error {
	r.logger.Debug("Starting tick loop", "interval", r.interval, "maxSteps", r.maxSteps)

	w := r.clock.TickerFunc(ctx, r.interval, func() error {
		if r.Step() {
			return errStopped
		}
		return nil
	}, "runner")

	return func() error {
		err := w.Wait()
		if errors.Is(err, errStopped) {
			return nil
		}
		return err
	}
}

// Run ticks until the game finishes, the step limit is reached or ctx is
// cancelled. Only cancellation is reported as an error.
func (r *Runner) Run(ctx context.Context) error {
	return r.Start(ctx)()
}

// Step advances the game once and reports whether the loop should stop.
func (r *Runner) Step() bool {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return true
	}

	if r.controller != nil {
		r.request(r.controller.Next(r.game))
	}
	r.game.Tick()
	r.steps++

	frame := r.snapshotLocked()
	limitReached := r.maxSteps > 0 && r.steps >= r.maxSteps
	r.stopped = r.game.Finished() || limitReached
	if r.stopped && r.recorder != nil {
		r.recorder.Finish(r.game, r.steps)
	}
	subscribers := append([]func(Frame)(nil), r.subscribers...)
	stopped := r.stopped
	r.mu.Unlock()

	for _, fn := range subscribers {
		fn(frame)
	}

	if frame.Finished {
		r.logger.Debug("Game over", "cause", frame.Cause, "length", frame.Length, "steps", frame.Step)
	} else if limitReached {
		r.logger.Debug("Step limit reached", "length", frame.Length, "steps", frame.Step)
	}
	return stopped
}

// RequestDirection forwards a direction change to the game.
func (r *Runner) RequestDirection(d snake.Direction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.request(d)
}

func (r *Runner) request(d snake.Direction) {
	if r.stopped || r.game.Finished() {
		return
	}
	if r.recorder != nil {
		r.recorder.Record(r.steps, d)
	}
	r.game.RequestDirectionChange(d)
}

// Snapshot returns the current frame.
func (r *Runner) Snapshot() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Steps returns the number of steps taken so far.
func (r *Runner) Steps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.steps
}

// Stopped reports whether the loop has ended.
func (r *Runner) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}

// Result summarises the game for replays and leaderboards.
func (r *Runner) Result() replay.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return replay.ResultOf(r.game, r.steps)
}

func (r *Runner) snapshotLocked() Frame {
	return FrameOf(r.game, r.steps)
}

// FrameOf captures g after step calls to Tick.
func FrameOf(g *snake.Game, step int) Frame {
	return Frame{
		Step:      step,
		Width:     g.Width(),
		Height:    g.Height(),
		Body:      g.Body(),
		Food:      g.Food(),
		Direction: g.Direction(),
		Length:    g.Len(),
		Finished:  g.Finished(),
		Cause:     g.Cause(),
	}
}
