package runner

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/randutil"
	"github.com/lox/snake/internal/replay"
	"github.com/lox/snake/internal/snake"
)

const interval = 100 * time.Millisecond

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func newGame(t *testing.T, width, height int, seed int64) *snake.Game {
	t.Helper()
	g, err := snake.New(width, height, randutil.NewSource(seed))
	require.NoError(t, err)
	return g
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRunnerTicksOnClock(t *testing.T) {
	ctx := testContext(t)
	mClock := quartz.NewMock(t)

	r := New(newGame(t, 10, 10, 1), mClock, interval, testLogger())

	runCtx, stop := context.WithCancel(ctx)
	wait := r.Start(runCtx)

	for i := 0; i < 3; i++ {
		mClock.Advance(interval).MustWait(ctx)
	}

	frame := r.Snapshot()
	assert.Equal(t, 3, frame.Step)
	assert.Equal(t, snake.Position{X: 4, Y: 5}, frame.Head())
	assert.False(t, frame.Finished)

	stop()
	assert.ErrorIs(t, wait(), context.Canceled)
}

func TestRunnerStopsWhenGameEnds(t *testing.T) {
	ctx := testContext(t)
	mClock := quartz.NewMock(t)

	g := newGame(t, 5, 5, 1)
	rec := replay.NewRecorder("test", 1, 5, 5, "")
	r := New(g, mClock, interval, testLogger(), WithRecorder(rec))

	var frames []Frame
	var mu sync.Mutex
	r.OnFrame(func(f Frame) {
		mu.Lock()
		defer mu.Unlock()
		frames = append(frames, f)
	})

	wait := r.Start(ctx)
	// (2,2) -> (1,2) -> (0,2) -> wall
	for i := 0; i < 3; i++ {
		mClock.Advance(interval).MustWait(ctx)
	}

	require.NoError(t, wait())
	assert.True(t, r.Stopped())
	assert.Equal(t, snake.CauseWall, r.Snapshot().Cause)

	mu.Lock()
	require.Len(t, frames, 3)
	assert.True(t, frames[2].Finished)
	mu.Unlock()

	result := rec.Replay().Result
	assert.Equal(t, 3, result.Steps)
	assert.True(t, result.Finished)
	assert.NoError(t, replay.Verify(rec.Replay()))
}

func TestRunnerRecordsRequests(t *testing.T) {
	g := newGame(t, 10, 10, 3)
	rec := replay.NewRecorder("test", 3, 10, 10, "")
	r := New(g, quartz.NewMock(t), interval, testLogger(), WithRecorder(rec), WithMaxSteps(6))

	r.RequestDirection(snake.Up)
	r.Step()
	r.Step()
	r.RequestDirection(snake.Left)
	for !r.Step() {
	}

	recorded := rec.Replay()
	assert.Equal(t, []replay.Input{
		{Step: 0, Direction: snake.Up},
		{Step: 2, Direction: snake.Left},
	}, recorded.Inputs)
	assert.Equal(t, 6, recorded.Result.Steps)
	assert.False(t, recorded.Result.Finished)
	assert.NoError(t, replay.Verify(recorded))

	// Requests after the loop stopped are neither applied nor recorded.
	r.RequestDirection(snake.Down)
	assert.Len(t, rec.Replay().Inputs, 2)
	assert.True(t, r.Step())
	assert.Equal(t, 6, r.Steps())
}

func TestRunnerWithController(t *testing.T) {
	g := newGame(t, 10, 10, 4)
	rec := replay.NewRecorder("test", 4, 10, 10, "greedy")
	r := New(g, quartz.NewMock(t), interval, testLogger(),
		WithController(bot.Greedy{}), WithRecorder(rec), WithMaxSteps(200))

	for !r.Step() {
	}

	assert.Greater(t, r.Snapshot().Length, 1)
	assert.Len(t, rec.Replay().Inputs, r.Steps())
	assert.NoError(t, replay.Verify(rec.Replay()))

	result := r.Result()
	assert.Equal(t, r.Steps(), result.Steps)
}
