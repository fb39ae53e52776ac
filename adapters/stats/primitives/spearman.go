package primitives

import (
	"fmt"
	"math"

	"gocohort/domain/core"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SpearmanResult is the outcome of a Spearman rank correlation
type SpearmanResult struct {
	Rho    float64
	PValue float64
	N      int
}

// Spearman computes the rank correlation of paired samples.
// Pairs containing NaN are dropped; at least three pairs must remain.
func Spearman(x, y []float64) (SpearmanResult, error) {
	if len(x) != len(y) {
		return SpearmanResult{}, fmt.Errorf("spearman: length mismatch %d != %d", len(x), len(y))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	n := len(xs)
	res := SpearmanResult{N: n}
	if n < 3 {
		return res, core.NewInsufficientDataError("spearman", 3, n)
	}
	if allEqual(xs) || allEqual(ys) {
		return res, core.ErrZeroVariance
	}

	rho := stat.Correlation(Rank(xs), Rank(ys), nil)
	rho = math.Max(-1, math.Min(1, rho))
	res.Rho = rho

	// a perfect monotone fit has an infinite t statistic
	if math.Abs(rho) >= 1 {
		res.PValue = 0
		return res, nil
	}

	df := float64(n - 2)
	t := rho * math.Sqrt(df/((1+rho)*(1-rho)))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	res.PValue = math.Min(1, 2*dist.Survival(math.Abs(t)))
	return res, nil
}
