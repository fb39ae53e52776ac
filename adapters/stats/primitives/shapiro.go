package primitives

import (
	"math"
	"sort"

	"gocohort/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// ShapiroResult is the outcome of a Shapiro-Wilk normality test
type ShapiroResult struct {
	W      float64
	PValue float64
	N      int
}

// Royston (1995) AS R94 polynomial coefficients
var (
	swG  = []float64{-2.273, 0.459}
	swC1 = []float64{0.0, 0.221157, -0.147981, -2.07119, 4.434685, -2.706056}
	swC2 = []float64{0.0, 0.042981, -0.293762, -1.752461, 5.682633, -3.582633}
	swC3 = []float64{0.544, -0.39978, 0.025054, -6.714e-4}
	swC4 = []float64{1.3822, -0.77857, 0.062767, -0.0020322}
	swC5 = []float64{-1.5861, -0.31082, -0.083751, 0.0038915}
	swC6 = []float64{-0.4803, -0.082676, 0.0030302}
)

// ShapiroWilk tests the null hypothesis that data was drawn from a normal distribution.
// Needs at least three values that are not all equal.
func ShapiroWilk(data []float64) (ShapiroResult, error) {
	n := len(data)
	if n < 3 {
		return ShapiroResult{N: n}, core.NewInsufficientDataError("shapiro-wilk", 3, n)
	}
	if hasNaN(data) {
		return ShapiroResult{N: n}, core.NewInsufficientDataError("shapiro-wilk (NaN present)", 3, 0)
	}

	x := make([]float64, n)
	copy(x, data)
	sort.Float64s(x)

	if x[n-1] == x[0] {
		return ShapiroResult{N: n}, core.ErrZeroVariance
	}

	a := shapiroCoefficients(n)

	// W = (sum a_i * (x_(n+1-i) - x_(i)))^2 / SS
	mean := 0.0
	for _, v := range x {
		mean += v
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	if ss == 0 {
		return ShapiroResult{N: n}, core.ErrZeroVariance
	}

	b := 0.0
	for i := 0; i < n/2; i++ {
		b += a[i] * (x[n-1-i] - x[i])
	}
	w := b * b / ss
	if w > 1 {
		w = 1
	}

	return ShapiroResult{W: w, PValue: shapiroPValue(w, n), N: n}, nil
}

// shapiroCoefficients returns the first n/2 weights, largest first
func shapiroCoefficients(n int) []float64 {
	half := n / 2
	a := make([]float64, half)
	if n == 3 {
		a[0] = math.Sqrt(0.5)
		return a
	}

	an := float64(n)
	m := make([]float64, half)
	summ2 := 0.0
	for i := 0; i < half; i++ {
		m[i] = distuv.UnitNormal.Quantile((float64(i+1) - 0.375) / (an + 0.25))
		summ2 += m[i] * m[i]
	}
	summ2 *= 2
	ssumm2 := math.Sqrt(summ2)
	rsn := 1 / math.Sqrt(an)

	a1 := poly(swC1, rsn) - m[0]/ssumm2

	var fac float64
	first := 1
	if n > 5 {
		first = 2
		a2 := -m[1]/ssumm2 + poly(swC2, rsn)
		fac = math.Sqrt((summ2 - 2*m[0]*m[0] - 2*m[1]*m[1]) / (1 - 2*a1*a1 - 2*a2*a2))
		a[1] = a2
	} else {
		fac = math.Sqrt((summ2 - 2*m[0]*m[0]) / (1 - 2*a1*a1))
	}
	a[0] = a1
	for i := first; i < half; i++ {
		a[i] = -m[i] / fac
	}
	return a
}

func shapiroPValue(w float64, n int) float64 {
	if n == 3 {
		p := 6 / math.Pi * (math.Asin(math.Sqrt(w)) - math.Pi/3)
		return math.Max(p, 0)
	}

	an := float64(n)
	y := math.Log(1 - w)
	var m, s float64
	if n <= 11 {
		gamma := poly(swG, an)
		if y >= gamma {
			return 1e-99
		}
		y = -math.Log(gamma - y)
		m = poly(swC3, an)
		s = math.Exp(poly(swC4, an))
	} else {
		xx := math.Log(an)
		m = poly(swC5, xx)
		s = math.Exp(poly(swC6, xx))
	}

	return distuv.UnitNormal.Survival((y - m) / s)
}
