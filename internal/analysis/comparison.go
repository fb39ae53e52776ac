package analysis

import (
	"gocohort/adapters/stats/primitives"
	"gocohort/domain/battery"
	"gocohort/domain/report"
)

// ComparisonEngine runs Mann-Whitney U comparisons and Spearman correlations.
//
// Ties take mid-ranks. With both samples of size 8 or less and no ties the
// exact null distribution is used; otherwise the normal approximation with
// tie-corrected variance and a 0.5 continuity correction.
type ComparisonEngine struct{}

// NewComparisonEngine creates a comparison engine
func NewComparisonEngine() *ComparisonEngine {
	return &ComparisonEngine{}
}

// Compare tests sample a against sample b in direction dir
func (e *ComparisonEngine) Compare(a, b []float64, dir battery.Direction) (report.TestResult, error) {
	res, err := primitives.MannWhitneyU(a, b, dir)
	if err != nil {
		return report.TestResult{Alternative: dir, N1: len(a), N2: len(b)}, err
	}
	return report.TestResult{
		U:           res.U,
		PValue:      res.PValue,
		Alternative: res.Alternative,
		Method:      res.Method,
		N1:          res.N1,
		N2:          res.N2,
	}, nil
}

// Correlate computes Spearman rho of paired samples with a two-sided p-value
func (e *ComparisonEngine) Correlate(x, y []float64) (float64, float64, int, error) {
	res, err := primitives.Spearman(x, y)
	if err != nil {
		return 0, 0, res.N, err
	}
	return res.Rho, res.PValue, res.N, nil
}
