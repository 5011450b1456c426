package statistics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/lox/snake/internal/snake"
)

// GameResult is the outcome of one finished (or tick-limited) game.
type GameResult struct {
	Seed     int64       // seed the game was built from (for replay)
	Length   int         // final snake length
	Ticks    int         // ticks that moved the snake
	Cause    snake.Cause // CauseNone when the tick limit stopped the game
	Strategy string
}

// Statistics aggregates final snake lengths over many games.
type Statistics struct {
	Games   int
	SumLen  float64
	SumLen2 float64 // sum of squares for variance
	Values  []float64

	TotalTicks int
	Causes     map[snake.Cause]int

	Best GameResult
}

// Add incorporates a result.
func (s *Statistics) Add(r GameResult) {
	length := float64(r.Length)
	s.Games++
	s.SumLen += length
	s.SumLen2 += length * length
	s.Values = append(s.Values, length)
	s.TotalTicks += r.Ticks

	if s.Causes == nil {
		s.Causes = make(map[snake.Cause]int)
	}
	s.Causes[r.Cause]++

	if s.Games == 1 || better(r, s.Best) {
		s.Best = r
	}
}

// better ranks longer snakes first, then the one that got there in fewer ticks.
func better(a, b GameResult) bool {
	if a.Length != b.Length {
		return a.Length > b.Length
	}
	return a.Ticks < b.Ticks
}

// Mean returns the average final length.
func (s *Statistics) Mean() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.SumLen / float64(s.Games)
}

// Variance returns the sample variance of final lengths.
func (s *Statistics) Variance() float64 {
	if s.Games < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumLen2 - float64(s.Games)*mean*mean) / float64(s.Games-1)
}

func (s *Statistics) StdDev() float64 {
	return math.Sqrt(math.Max(s.Variance(), 0))
}

// StdError returns the standard error of the mean.
func (s *Statistics) StdError() float64 {
	if s.Games == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Games))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Median returns the median final length.
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the interpolated value at p (0.0 to 1.0).
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// MeanTicks returns the average game duration in ticks.
func (s *Statistics) MeanTicks() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.TotalTicks) / float64(s.Games)
}

// Validate checks the aggregates are consistent with each other.
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}
	if len(s.Values) != s.Games {
		return fmt.Errorf("values array length (%d) does not match games count (%d)", len(s.Values), s.Games)
	}

	total := 0
	for _, n := range s.Causes {
		total += n
	}
	if total != s.Games {
		return fmt.Errorf("cause total (%d) does not match games count (%d)", total, s.Games)
	}

	for _, v := range s.Values {
		if v < 1 {
			return fmt.Errorf("invalid snake length %.0f", v)
		}
	}
	return nil
}

// Summary renders a short multi-line report.
func (s *Statistics) Summary() string {
	var b strings.Builder
	lo, hi := s.ConfidenceInterval95()

	fmt.Fprintf(&b, "Games:        %d\n", s.Games)
	fmt.Fprintf(&b, "Mean length:  %.2f ± %.2f (95%% CI [%.2f, %.2f])\n", s.Mean(), s.StdError()*1.96, lo, hi)
	fmt.Fprintf(&b, "Median:       %.1f  p90: %.1f\n", s.Median(), s.Percentile(0.9))
	fmt.Fprintf(&b, "Mean ticks:   %.1f\n", s.MeanTicks())
	fmt.Fprintf(&b, "Best:         length %d in %d ticks (seed %d)\n", s.Best.Length, s.Best.Ticks, s.Best.Seed)

	causes := []snake.Cause{snake.CauseWall, snake.CauseSelf, snake.CauseBoardFull, snake.CauseNone}
	parts := make([]string, 0, len(causes))
	for _, c := range causes {
		label := c.String()
		if c == snake.CauseNone {
			label = "tick-limit"
		}
		parts = append(parts, fmt.Sprintf("%s=%d", label, s.Causes[c]))
	}
	fmt.Fprintf(&b, "Endings:      %s\n", strings.Join(parts, " "))

	return b.String()
}
