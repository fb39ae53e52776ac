package analysis

import (
	"gocohort/adapters/stats/primitives"
	"gocohort/domain/report"
)

// NormalityChecker reports Shapiro-Wilk for a partition. The result is
// informational: nothing downstream branches on it.
type NormalityChecker struct{}

// NewNormalityChecker creates a normality checker
func NewNormalityChecker() *NormalityChecker {
	return &NormalityChecker{}
}

// Check runs Shapiro-Wilk; fewer than three values or constant values fail with insufficient data
func (c *NormalityChecker) Check(values []float64) (report.NormalityResult, error) {
	res, err := primitives.ShapiroWilk(values)
	if err != nil {
		return report.NormalityResult{N: len(values)}, err
	}
	return report.NormalityResult{N: res.N, W: res.W, PValue: res.PValue}, nil
}
