package primitives

import (
	"math"

	"gocohort/domain/battery"
	"gocohort/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// Method names how a Mann-Whitney p-value was obtained
const (
	MethodExact      = "exact"
	MethodAsymptotic = "asymptotic"
)

// exactLimit is the largest per-sample size that uses the exact null distribution
const exactLimit = 8

// MannWhitneyResult is the outcome of a Mann-Whitney U test
type MannWhitneyResult struct {
	U           float64 // statistic for the first sample
	PValue      float64
	Alternative battery.Direction
	Method      string
	N1          int
	N2          int
}

// MannWhitneyU compares two independent samples.
// greater tests whether a is stochastically larger than b, less the reverse.
func MannWhitneyU(a, b []float64, alt battery.Direction) (MannWhitneyResult, error) {
	n1, n2 := len(a), len(b)
	res := MannWhitneyResult{Alternative: alt, N1: n1, N2: n2}

	if !alt.Valid() {
		return res, core.ErrInvalidDirection
	}
	if n1 < 2 || n2 < 2 {
		got := n1
		if n2 < got {
			got = n2
		}
		return res, core.NewInsufficientDataError("mann-whitney", 2, got)
	}
	if hasNaN(a) || hasNaN(b) {
		return res, core.NewInsufficientDataError("mann-whitney (NaN present)", 2, 0)
	}

	pooled := make([]float64, 0, n1+n2)
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)
	ranks := Rank(pooled)

	r1 := 0.0
	for _, r := range ranks[:n1] {
		r1 += r
	}
	fn1, fn2 := float64(n1), float64(n2)
	u1 := r1 - fn1*(fn1+1)/2
	u2 := fn1*fn2 - u1
	res.U = u1

	var u float64
	switch alt {
	case battery.Greater:
		u = u1
	case battery.Less:
		u = u2
	default:
		u = math.Max(u1, u2)
	}

	ties := TieSizes(pooled)
	if n1 <= exactLimit && n2 <= exactLimit && len(ties) == 0 {
		res.Method = MethodExact
		res.PValue = exactUpperTail(n1, n2, u)
	} else {
		res.Method = MethodAsymptotic
		p, err := asymptoticUpperTail(n1, n2, u, ties)
		if err != nil {
			return res, err
		}
		res.PValue = p
	}

	if alt == battery.TwoSided {
		res.PValue *= 2
	}
	res.PValue = math.Min(math.Max(res.PValue, 0), 1)
	return res, nil
}

// asymptoticUpperTail is P(U >= u) under the normal approximation with
// tie-corrected variance and a 0.5 continuity correction
func asymptoticUpperTail(n1, n2 int, u float64, ties []int) (float64, error) {
	fn1, fn2 := float64(n1), float64(n2)
	n := fn1 + fn2

	tieTerm := 0.0
	for _, t := range ties {
		ft := float64(t)
		tieTerm += ft*ft*ft - ft
	}

	variance := fn1 * fn2 / 12 * ((n + 1) - tieTerm/(n*(n-1)))
	if variance <= 0 {
		return 0, core.ErrZeroVariance
	}

	mu := fn1 * fn2 / 2
	z := (u - mu - 0.5) / math.Sqrt(variance)
	return distuv.UnitNormal.Survival(z), nil
}

// exactUpperTail is P(U >= u) under the exact permutation distribution
func exactUpperTail(n1, n2 int, u float64) float64 {
	counts := uDistribution(n1, n2)

	total := 0.0
	tail := 0.0
	threshold := int(math.Ceil(u - 1e-9))
	for k, c := range counts {
		total += c
		if k >= threshold {
			tail += c
		}
	}
	return tail / total
}

// uDistribution counts arrangements producing each U value for sample sizes n1, n2
// using c(u; m, n) = c(u-n; m-1, n) + c(u; m, n-1)
func uDistribution(n1, n2 int) []float64 {
	// prev[j] holds the distribution for (i-1, j); cur for (i, j)
	prev := make([][]float64, n2+1)
	for j := 0; j <= n2; j++ {
		prev[j] = []float64{1}
	}

	for i := 1; i <= n1; i++ {
		cur := make([][]float64, n2+1)
		cur[0] = []float64{1}
		for j := 1; j <= n2; j++ {
			dist := make([]float64, i*j+1)
			for k, c := range prev[j] {
				dist[k+j] += c
			}
			for k, c := range cur[j-1] {
				dist[k] += c
			}
			cur[j] = dist
		}
		prev = cur
	}
	return prev[n2]
}
