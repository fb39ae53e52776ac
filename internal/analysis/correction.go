package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Correction is a multiple-comparison adjustment policy
type Correction string

const (
	CorrectionNone       Correction = "none"
	CorrectionBonferroni Correction = "bonferroni"
	CorrectionHolm       Correction = "holm"
	CorrectionBH         Correction = "bh"
)

// ParseCorrection validates a policy name
func ParseCorrection(s string) (Correction, error) {
	switch c := Correction(s); c {
	case CorrectionNone, CorrectionBonferroni, CorrectionHolm, CorrectionBH:
		return c, nil
	default:
		return "", fmt.Errorf("unknown correction %q", s)
	}
}

// Adjust returns adjusted p-values in input order, or nil for CorrectionNone
func Adjust(pvals []float64, policy Correction) []float64 {
	m := len(pvals)
	if policy == CorrectionNone || m == 0 {
		return nil
	}

	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return pvals[order[a]] < pvals[order[b]] })

	adjusted := make([]float64, m)
	switch policy {
	case CorrectionBonferroni:
		for i, p := range pvals {
			adjusted[i] = math.Min(1, p*float64(m))
		}

	case CorrectionHolm:
		// step-down: running maximum of (m-rank)*p
		running := 0.0
		for rank, i := range order {
			v := math.Min(1, float64(m-rank)*pvals[i])
			running = math.Max(running, v)
			adjusted[i] = running
		}

	case CorrectionBH:
		// step-up: running minimum of m/rank*p from the largest p down
		running := 1.0
		for rank := m - 1; rank >= 0; rank-- {
			i := order[rank]
			v := math.Min(1, pvals[i]*float64(m)/float64(rank+1))
			running = math.Min(running, v)
			adjusted[i] = running
		}
	}
	return adjusted
}
