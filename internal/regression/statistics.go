package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// StatisticalResult summarises one sample of final lengths.
type StatisticalResult struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	CI95Low    float64 `json:"ci95_low"`
	CI95High   float64 `json:"ci95_high"`
	SampleSize int     `json:"sample_size"`
}

// StatisticalComparison contains the results of comparing two samples
type StatisticalComparison struct {
	Difference float64 `json:"difference"`  // challenger mean minus baseline mean
	StdError   float64 `json:"std_error"`   // standard error of the difference
	TStatistic float64 `json:"t_statistic"` // Welch's t
	PValue     float64 `json:"p_value"`     // two-tailed
	EffectSize float64 `json:"effect_size"` // Cohen's d
	CI95Low    float64 `json:"ci95_low"`
	CI95High   float64 `json:"ci95_high"`
}

// CalculateStatistics summarises values.
func CalculateStatistics(values []float64) StatisticalResult {
	n := len(values)
	if n == 0 {
		return StatisticalResult{}
	}

	mean, stdDev := stat.MeanStdDev(values, nil)
	if n < 2 {
		stdDev = 0
	}
	lo, hi := calculateCI95(mean, stdDev, n)

	return StatisticalResult{
		Mean:       mean,
		StdDev:     stdDev,
		CI95Low:    lo,
		CI95High:   hi,
		SampleSize: n,
	}
}

// CompareStatistics runs Welch's t-test of challenger against baseline.
func CompareStatistics(baseline, challenger StatisticalResult) StatisticalComparison {
	difference := challenger.Mean - baseline.Mean

	pooledStdDev := calculatePooledStdDev(
		baseline.StdDev, baseline.SampleSize,
		challenger.StdDev, challenger.SampleSize,
	)

	effectSize := 0.0
	if pooledStdDev > 0 {
		effectSize = difference / pooledStdDev
	}

	se := math.Sqrt(standardErrorSquared(baseline) + standardErrorSquared(challenger))

	tStat := 0.0
	if se > 0 {
		tStat = difference / se
	}

	df := calculateWelchDF(
		baseline.StdDev, baseline.SampleSize,
		challenger.StdDev, challenger.SampleSize,
	)

	pValue := calculatePValue(tStat, df)
	if se == 0 {
		// Identical constant samples are indistinguishable; differing
		// constant samples are as different as they can be.
		pValue = 1
		if difference != 0 {
			pValue = 0
		}
	}

	tCritical := distuv.StudentsT{Nu: df, Mu: 0, Sigma: 1}.Quantile(0.975)
	margin := tCritical * se

	return StatisticalComparison{
		Difference: difference,
		StdError:   se,
		TStatistic: tStat,
		PValue:     pValue,
		EffectSize: effectSize,
		CI95Low:    difference - margin,
		CI95High:   difference + margin,
	}
}

func standardErrorSquared(r StatisticalResult) float64 {
	if r.SampleSize == 0 {
		return 0
	}
	return r.StdDev * r.StdDev / float64(r.SampleSize)
}

// calculatePooledStdDev calculates pooled standard deviation for two groups
func calculatePooledStdDev(sd1 float64, n1 int, sd2 float64, n2 int) float64 {
	if n1+n2 <= 2 {
		return 0
	}
	pooledVar := (float64(n1-1)*sd1*sd1 + float64(n2-1)*sd2*sd2) / float64(n1+n2-2)
	return math.Sqrt(pooledVar)
}

// calculateWelchDF calculates degrees of freedom using Welch's approximation
func calculateWelchDF(sd1 float64, n1 int, sd2 float64, n2 int) float64 {
	if n1 <= 1 || n2 <= 1 {
		return 1
	}

	v1 := sd1 * sd1 / float64(n1)
	v2 := sd2 * sd2 / float64(n2)

	denominator := (v1*v1)/float64(n1-1) + (v2*v2)/float64(n2-1)
	if denominator == 0 {
		return float64(n1 + n2 - 2)
	}
	return (v1 + v2) * (v1 + v2) / denominator
}

// calculatePValue returns the two-tailed p-value for t with df degrees of freedom.
func calculatePValue(tStat, df float64) float64 {
	if df <= 0 {
		return 1
	}
	tDist := distuv.StudentsT{Nu: df, Mu: 0, Sigma: 1}
	return 2 * (1 - tDist.CDF(math.Abs(tStat)))
}

// calculateCI95 calculates 95% confidence interval using t-distribution
func calculateCI95(mean, stdDev float64, n int) (float64, float64) {
	if n <= 1 {
		return mean, mean
	}
	se := stdDev / math.Sqrt(float64(n))
	tCritical := distuv.StudentsT{Nu: float64(n - 1), Mu: 0, Sigma: 1}.Quantile(0.975)
	margin := tCritical * se
	return mean - margin, mean + margin
}

// interpretEffectSize provides a human-readable interpretation
func interpretEffectSize(d float64) string {
	absD := math.Abs(d)
	switch {
	case absD < 0.2:
		return "negligible"
	case absD < 0.5:
		return "small"
	case absD < 0.8:
		return "medium"
	default:
		return "large"
	}
}
