//go:build property
// +build property

package reshape

import (
	"fmt"
	"testing"

	"gocohort/domain/survey"
	"gocohort/internal/testkit"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestReshapeProperties checks the long table size and composite recovery for random tables
func TestReshapeProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("4N rows and recoverable composites", prop.ForAll(
		func(scores []int) bool {
			// every eight generated scores form one subject
			n := len(scores) / 8
			subjects := make([]survey.Subject, 0, n)
			for i := 0; i < n; i++ {
				s := scores[i*8 : i*8+8]
				cohort := testkit.CohortA
				if i%2 == 1 {
					cohort = testkit.CohortB
				}
				subjects = append(subjects, testkit.Subject(
					fmt.Sprintf("%d", i+1), cohort, 60+i,
					[4]float64{float64(s[0]), float64(s[1]), float64(s[2]), float64(s[3])},
					[4]float64{float64(s[4]), float64(s[5]), float64(s[6]), float64(s[7])},
				))
			}

			long, err := NewReshaper(survey.DefaultSchema(), nil).Reshape(testkit.Table(subjects...))
			if err != nil {
				return false
			}
			if long.Len() != 4*n {
				return false
			}

			total := 0.0
			for _, v := range scores[:n*8] {
				total += float64(v)
			}
			sum := 0.0
			for _, r := range long.Rows() {
				sum += r.Composite()
			}
			return sum == total
		},
		gen.SliceOf(gen.IntRange(1, 4)),
	))

	properties.TestingRun(t)
}
