package regression

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON outputs the report as JSON
func WriteJSON(w io.Writer, r *Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// WriteSummary outputs a human-readable summary
func WriteSummary(w io.Writer, r *Result) error {
	var sb strings.Builder

	sb.WriteString("\nStrategy Comparison\n")
	sb.WriteString("===================\n")
	sb.WriteString(fmt.Sprintf("Baseline:   %s\n", r.Baseline.Strategy))
	sb.WriteString(fmt.Sprintf("Challenger: %s\n", r.Challenger.Strategy))
	sb.WriteString(fmt.Sprintf("Board: %dx%d  Games: %d  Seeds: %d..%d\n",
		r.Width, r.Height, r.Games, r.Seed, r.Seed+int64(r.Games)-1))
	sb.WriteString(fmt.Sprintf("Duration: %.1fs\n\n", r.Duration.Seconds()))

	for _, s := range []StrategyResult{r.Baseline, r.Challenger} {
		sb.WriteString(fmt.Sprintf("%-12s mean length %6.2f ± %.2f  [%.2f, %.2f]  best %d  mean ticks %.1f\n",
			s.Strategy, s.Length.Mean, s.Length.StdDev, s.Length.CI95Low, s.Length.CI95High, s.Best, s.MeanTicks))
	}

	c := r.Comparison
	sb.WriteString(fmt.Sprintf("\nDifference: %+.2f (95%% CI [%+.2f, %+.2f])\n", c.Difference, c.CI95Low, c.CI95High))
	sb.WriteString(fmt.Sprintf("t = %.3f  p = %.4f  d = %.3f (%s)\n", c.TStatistic, c.PValue, c.EffectSize, r.Verdict.EffectSize))
	sb.WriteString(fmt.Sprintf("Head to head: %d wins, %d losses, %d ties\n",
		r.HeadToHead.Wins, r.HeadToHead.Losses, r.HeadToHead.Ties))

	status := "not significant"
	if r.Verdict.Significant {
		status = "significant"
	}
	sb.WriteString(fmt.Sprintf("\nVerdict: %s (%s), recommendation: %s\n", r.Verdict.Direction, status, r.Verdict.Recommendation))

	_, err := fmt.Fprint(w, sb.String())
	return err
}
