package simulator

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/replay"
)

func testConfig(strategy string) Config {
	return Config{
		Games:    12,
		Strategy: strategy,
		Width:    8,
		Height:   8,
		Seed:     100,
		Workers:  4,
		Logger:   log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel}),
	}
}

func TestRun(t *testing.T) {
	for _, strategy := range bot.Names() {
		t.Run(strategy, func(t *testing.T) {
			report, err := New(testConfig(strategy)).Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, 12, report.Stats.Games)
			assert.GreaterOrEqual(t, report.Stats.Mean(), 1.0)

			require.NotNil(t, report.Best)
			assert.Equal(t, report.Stats.Best.Length, report.Best.Result.Length)
			assert.Equal(t, strategy, report.Best.Strategy)
			assert.NoError(t, replay.Verify(report.Best))
		})
	}
}

func TestRunIsReproducible(t *testing.T) {
	cfg := testConfig("random")
	a, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	cfg.Workers = 1
	b, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a.Stats.Values, b.Stats.Values)
	assert.Equal(t, a.Best.Seed, b.Best.Seed)
	assert.Equal(t, a.Best.Inputs, b.Best.Inputs)
}

func TestRunStepLimit(t *testing.T) {
	cfg := testConfig("cautious")
	cfg.MaxSteps = 3

	report, err := New(cfg).Run(context.Background())
	require.NoError(t, err)

	for _, v := range report.Stats.Values {
		assert.LessOrEqual(t, v, 2.0)
	}
	assert.Equal(t, 3*cfg.Games, report.Stats.TotalTicks)
}

func TestRunErrors(t *testing.T) {
	cfg := testConfig("greedy")
	cfg.Games = 0
	_, err := New(cfg).Run(context.Background())
	assert.ErrorIs(t, err, ErrNoGames)

	cfg = testConfig("psychic")
	_, err = New(cfg).Run(context.Background())
	assert.ErrorIs(t, err, bot.ErrUnknownStrategy)

	cfg = testConfig("greedy")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
