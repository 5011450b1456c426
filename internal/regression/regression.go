// Package regression compares two autopilot strategies on the same seeds and
// decides whether the challenger is a significant improvement.
package regression

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/snake/internal/bot"
	"github.com/lox/snake/internal/simulator"
)

var ErrSameStrategy = errors.New("regression: baseline and challenger are the same strategy")

// Config describes a comparison run.
type Config struct {
	Baseline          string
	Challenger        string
	Games             int
	Width             int
	Height            int
	Seed              int64
	MaxSteps          int
	Workers           int
	SignificanceLevel float64 // defaults to 0.05
	Logger            *log.Logger
}

// StrategyResult is one side of the comparison.
type StrategyResult struct {
	Strategy  string            `json:"strategy"`
	Length    StatisticalResult `json:"length"`
	MeanTicks float64           `json:"mean_ticks"`
	Best      int               `json:"best"`
}

// HeadToHead counts per-seed outcomes from the challenger's point of view.
type HeadToHead struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

// Verdict is the decision drawn from the comparison.
type Verdict struct {
	Significant    bool    `json:"significant"`
	PValue         float64 `json:"p_value"`
	EffectSize     string  `json:"effect_size"`
	Direction      string  `json:"direction"`      // improvement, regression or neutral
	Recommendation string  `json:"recommendation"` // accept, reject or inconclusive
}

// Result is the full comparison report.
type Result struct {
	Games      int                   `json:"games"`
	Seed       int64                 `json:"seed"`
	Width      int                   `json:"width"`
	Height     int                   `json:"height"`
	Baseline   StrategyResult        `json:"baseline"`
	Challenger StrategyResult        `json:"challenger"`
	Comparison StatisticalComparison `json:"comparison"`
	HeadToHead HeadToHead            `json:"head_to_head"`
	Verdict    Verdict               `json:"verdict"`
	Duration   time.Duration         `json:"duration_ns"`
}

// Run plays Games games per strategy, game i of both sides sharing seed
// Seed+i, and compares final lengths.
func Run(ctx context.Context, config Config) (*Result, error) {
	if config.Baseline == config.Challenger {
		return nil, ErrSameStrategy
	}
	for _, name := range []string{config.Baseline, config.Challenger} {
		if !bot.Known(name) {
			return nil, fmt.Errorf("%w: %q", bot.ErrUnknownStrategy, name)
		}
	}
	if config.SignificanceLevel <= 0 {
		config.SignificanceLevel = 0.05
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	logger := config.Logger.WithPrefix("regression")

	start := time.Now()
	logger.Info("Comparing strategies", "baseline", config.Baseline, "challenger", config.Challenger, "games", config.Games)

	base, err := simulate(ctx, config, config.Baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline: %w", err)
	}
	chal, err := simulate(ctx, config, config.Challenger)
	if err != nil {
		return nil, fmt.Errorf("challenger: %w", err)
	}

	result := &Result{
		Games:      config.Games,
		Seed:       config.Seed,
		Width:      config.Width,
		Height:     config.Height,
		Baseline:   summarise(config.Baseline, base),
		Challenger: summarise(config.Challenger, chal),
		HeadToHead: headToHead(base.Stats.Values, chal.Stats.Values),
	}
	result.Comparison = CompareStatistics(result.Baseline.Length, result.Challenger.Length)
	result.Verdict = calculateVerdict(result.Comparison, config.SignificanceLevel)
	result.Duration = time.Since(start)

	logger.Info("Comparison complete",
		"difference", result.Comparison.Difference,
		"p", result.Comparison.PValue,
		"direction", result.Verdict.Direction)
	return result, nil
}

func simulate(ctx context.Context, config Config, strategy string) (*simulator.Report, error) {
	return simulator.New(simulator.Config{
		Games:    config.Games,
		Strategy: strategy,
		Width:    config.Width,
		Height:   config.Height,
		Seed:     config.Seed,
		MaxSteps: config.MaxSteps,
		Workers:  config.Workers,
		Logger:   config.Logger,
	}).Run(ctx)
}

func summarise(strategy string, r *simulator.Report) StrategyResult {
	return StrategyResult{
		Strategy:  strategy,
		Length:    CalculateStatistics(r.Stats.Values),
		MeanTicks: r.Stats.MeanTicks(),
		Best:      r.Stats.Best.Length,
	}
}

// headToHead pairs games by seed. Both slices are in seed order.
func headToHead(baseline, challenger []float64) HeadToHead {
	var h HeadToHead
	for i := range min(len(baseline), len(challenger)) {
		switch {
		case challenger[i] > baseline[i]:
			h.Wins++
		case challenger[i] < baseline[i]:
			h.Losses++
		default:
			h.Ties++
		}
	}
	return h
}

func calculateVerdict(c StatisticalComparison, alpha float64) Verdict {
	v := Verdict{
		Significant:    c.PValue < alpha,
		PValue:         c.PValue,
		EffectSize:     interpretEffectSize(c.EffectSize),
		Direction:      "neutral",
		Recommendation: "inconclusive",
	}

	switch {
	case c.Difference > 0:
		v.Direction = "improvement"
		if v.Significant {
			v.Recommendation = "accept"
		}
	case c.Difference < 0:
		v.Direction = "regression"
		if v.Significant {
			v.Recommendation = "reject"
		}
	}
	return v
}
