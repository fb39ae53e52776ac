package primitives

import (
	"gocohort/domain/core"

	"github.com/montanaflynn/stats"
)

// Summary holds the descriptive statistics used in demographic tables
type Summary struct {
	N      int
	Mean   float64
	Std    float64 // sample standard deviation (n-1)
	Median float64
	Min    float64
	Max    float64
}

// Describe summarizes data; Std is zero for a single value
func Describe(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, core.NewInsufficientDataError("describe", 1, 0)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return Summary{}, err
	}
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)

	std := 0.0
	if len(data) > 1 {
		std, err = stats.StandardDeviationSample(data)
		if err != nil {
			return Summary{}, err
		}
	}

	return Summary{N: len(data), Mean: mean, Std: std, Median: median, Min: min, Max: max}, nil
}
