package primitives

import (
	"gocohort/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"
)

// LeveneResult is the outcome of a Brown-Forsythe (median-centred Levene) test
type LeveneResult struct {
	Statistic float64
	PValue    float64
	DF1       float64
	DF2       float64
}

// Levene tests equality of variances across groups using absolute deviations from each group median
func Levene(groups ...[]float64) (LeveneResult, error) {
	k := len(groups)
	if k < 2 {
		return LeveneResult{}, core.NewInsufficientDataError("levene groups", 2, k)
	}

	total := 0
	deviations := make([][]float64, k)
	groupMeans := make([]float64, k)
	for i, g := range groups {
		if len(g) < 2 {
			return LeveneResult{}, core.NewInsufficientDataError("levene", 2, len(g))
		}
		med, err := stats.Median(g)
		if err != nil {
			return LeveneResult{}, core.NewInsufficientDataError("levene", 2, 0)
		}
		z := make([]float64, len(g))
		for j, v := range g {
			d := v - med
			if d < 0 {
				d = -d
			}
			z[j] = d
		}
		deviations[i] = z
		groupMeans[i], _ = stats.Mean(z)
		total += len(g)
	}

	grand := 0.0
	for i, z := range deviations {
		grand += groupMeans[i] * float64(len(z))
	}
	grand /= float64(total)

	between := 0.0
	within := 0.0
	for i, z := range deviations {
		d := groupMeans[i] - grand
		between += float64(len(z)) * d * d
		for _, v := range z {
			e := v - groupMeans[i]
			within += e * e
		}
	}
	if within == 0 {
		return LeveneResult{}, core.ErrZeroVariance
	}

	df1 := float64(k - 1)
	df2 := float64(total - k)
	w := (df2 / df1) * between / within

	f := distuv.F{D1: df1, D2: df2}
	return LeveneResult{Statistic: w, PValue: f.Survival(w), DF1: df1, DF2: df2}, nil
}
