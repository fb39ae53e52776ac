package primitives

import (
	"math"

	"gocohort/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// TTestResult is the outcome of an independent two-sample Student t-test
type TTestResult struct {
	Statistic float64
	PValue    float64
	DF        float64
}

// StudentTTest compares two means assuming equal variances (pooled), two-sided
func StudentTTest(a, b []float64) (TTestResult, error) {
	n1, n2 := len(a), len(b)
	if n1 < 2 || n2 < 2 {
		return TTestResult{}, core.NewInsufficientDataError("t-test", 2, int(math.Min(float64(n1), float64(n2))))
	}

	m1, _ := stats.Mean(a)
	m2, _ := stats.Mean(b)
	v1, _ := stats.SampleVariance(a)
	v2, _ := stats.SampleVariance(b)

	df := float64(n1 + n2 - 2)
	pooled := (float64(n1-1)*v1 + float64(n2-1)*v2) / df
	if pooled == 0 {
		return TTestResult{DF: df}, core.ErrZeroVariance
	}

	t := (m1 - m2) / math.Sqrt(pooled*(1/float64(n1)+1/float64(n2)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := math.Min(1, 2*dist.Survival(math.Abs(t)))
	return TTestResult{Statistic: t, PValue: p, DF: df}, nil
}
