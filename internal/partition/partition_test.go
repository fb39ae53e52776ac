package partition

import (
	"errors"
	"testing"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/survey"
	"gocohort/internal/reshape"
	"gocohort/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func longTable(t *testing.T, table *survey.WideTable) *survey.LongTable {
	t.Helper()
	long, err := reshape.NewReshaper(table.Schema, nil).Reshape(table)
	require.NoError(t, err)
	return long
}

func TestValues_CombinedStacksBehaviourThenEmotion(t *testing.T) {
	long := longTable(t, testkit.Table(
		testkit.Subject("1", testkit.CohortA, 60, [4]float64{1, 2, 3, 4}, [4]float64{5, 6, 7, 8}),
	))
	v := All(long)

	assert.Equal(t, []float64{1, 2, 3, 4}, Values(v, survey.MeasureBehaviour))
	assert.Equal(t, []float64{5, 6, 7, 8}, Values(v, survey.MeasureEmotion))
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7, 8}, Values(v, survey.MeasureCombined))
}

func TestEngine_MemoizesPartitions(t *testing.T) {
	e := NewEngine(longTable(t, testkit.Varied(4)), nil)
	key := battery.PartitionKey{Cohort: testkit.CohortA, Measure: survey.MeasureBehaviour, Context: survey.ContextDomestic}

	p1, err := e.Partition(key)
	require.NoError(t, err)
	p2, err := e.Partition(key)
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.Equal(t, 4, p1.N())
	for _, i := range p1.Rows() {
		row := e.Table().Row(i)
		assert.Equal(t, testkit.CohortA, row.Cohort)
		assert.Equal(t, survey.ContextDomestic, row.Context)
	}
}

func TestEngine_CombinedHasTwiceTheRows(t *testing.T) {
	e := NewEngine(longTable(t, testkit.Varied(3)), nil)

	p, err := e.Partition(battery.PartitionKey{Cohort: testkit.CohortB, Measure: survey.MeasureCombined})
	require.NoError(t, err)
	assert.Equal(t, 12, len(p.Rows()))
	assert.Equal(t, 24, p.N())
}

func TestEngine_ContextsPartitionTheOverall(t *testing.T) {
	e := NewEngine(longTable(t, testkit.Varied(5)), nil)

	for _, cohort := range testkit.Cohorts {
		for _, m := range survey.Measures {
			overall, err := e.Partition(battery.PartitionKey{Cohort: cohort, Measure: m})
			require.NoError(t, err)

			seen := make(map[int]survey.Context)
			total := 0
			for _, ctx := range survey.Contexts {
				p, err := e.Partition(battery.PartitionKey{Cohort: cohort, Measure: m, Context: ctx})
				require.NoError(t, err)
				for _, i := range p.Rows() {
					prev, dup := seen[i]
					assert.False(t, dup, "row %d in both %s and %s", i, prev, ctx)
					seen[i] = ctx
				}
				total += p.N()
			}

			assert.Equal(t, overall.N(), total)
			assert.ElementsMatch(t, overall.Rows(), keys(seen))
		}
	}
}

func TestEngine_EmptyAndInvalidPartitions(t *testing.T) {
	e := NewEngine(longTable(t, testkit.Table(
		testkit.Subject("1", testkit.CohortA, 60, [4]float64{1, 2, 3, 4}, [4]float64{1, 2, 3, 4}),
	)), nil)

	_, err := e.Partition(battery.PartitionKey{Cohort: testkit.CohortB, Measure: survey.MeasureEmotion})
	assert.True(t, errors.Is(err, core.ErrPartitionEmpty))

	_, err = e.Partition(battery.PartitionKey{Measure: survey.MeasureEmotion, Context: "kitchen"})
	assert.True(t, errors.Is(err, core.ErrUnknownContext))

	failures := e.Resolve([]battery.PartitionKey{
		{Measure: survey.MeasureCombined},
		{Cohort: testkit.CohortB, Measure: survey.MeasureCombined},
	})
	assert.Len(t, failures, 1)
}

func TestEngine_Observations(t *testing.T) {
	e := NewEngine(longTable(t, testkit.Varied(3)), nil)
	assert.Len(t, e.Observations(""), 24)
	for _, o := range e.Observations(testkit.CohortB) {
		assert.Equal(t, testkit.CohortB, o.Cohort)
	}
}

func keys(m map[int]survey.Context) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
