package battery

import (
	"errors"
	"strings"
	"testing"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cohorts = [2]survey.Cohort{"stroke", "control"}

func TestBuild_Counts(t *testing.T) {
	plan, err := Build(cohorts, "stroke")
	require.NoError(t, err)

	assert.Len(t, plan.Comparisons, 53)
	assert.Len(t, plan.Correlations, 9)

	perGroup := make(map[int]int)
	for _, c := range plan.Comparisons {
		perGroup[c.Group]++
	}
	assert.Equal(t, map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 1, 6: 3, 7: 3, 8: 3, 9: 3, 10: 18, 11: 18}, perGroup)

	// 2 cohorts x 3 measures x (overall + 4 contexts)
	assert.Len(t, plan.Keys(), 30)
}

func TestBuild_IdentifiersAreStable(t *testing.T) {
	plan, err := Build(cohorts, "stroke")
	require.NoError(t, err)

	for _, id := range []core.BatteryID{
		"g01/stroke_vs_control/combined/overall",
		"g02/stroke/behaviour_vs_emotion/overall",
		"g03/control/behaviour_vs_emotion/overall",
		"g04/stroke_vs_control/behaviour/overall",
		"g05/stroke_vs_control/emotion/overall",
		"g06/stroke_vs_control/combined/domestic",
		"g08/stroke_vs_control/behaviour/public",
		"g09/stroke_vs_control/emotion/traffic",
		"g10/stroke/combined/domestic_vs_nature",
		"g11/control/emotion/public_vs_traffic",
	} {
		_, ok := plan.Comparison(id)
		assert.True(t, ok, "missing %s", id)
	}

	assert.Equal(t, core.BatteryID("r/all/age_vs_composite"), plan.Correlations[0].ID)
	assert.Equal(t, core.BatteryID("r/control/age_vs_emotion"), plan.Correlations[8].ID)
}

func TestBuild_DirectionPolicy(t *testing.T) {
	plan, err := Build(cohorts, "stroke")
	require.NoError(t, err)

	for _, c := range plan.Comparisons {
		switch c.Kind {
		case battery.KindCrossCohort:
			assert.Equal(t, battery.Greater, c.Direction, c.ID)
			assert.Equal(t, survey.Cohort("stroke"), c.Left.Cohort, c.ID)
			assert.Equal(t, survey.Cohort("control"), c.Right.Cohort, c.ID)
			assert.Equal(t, c.Left.Measure, c.Right.Measure, c.ID)
			assert.Equal(t, c.Left.Context, c.Right.Context, c.ID)
		default:
			assert.Equal(t, battery.TwoSided, c.Direction, c.ID)
			assert.Equal(t, c.Left.Cohort, c.Right.Cohort, c.ID)
		}
	}

	flipped, err := Build(cohorts, "control")
	require.NoError(t, err)
	g01, _ := flipped.Comparison("g01/stroke_vs_control/combined/overall")
	assert.Equal(t, battery.Less, g01.Direction)
}

func TestBuild_SharedPartitionsUseIdenticalKeys(t *testing.T) {
	plan, err := Build(cohorts, "stroke")
	require.NoError(t, err)

	g07, _ := plan.Comparison("g06/stroke_vs_control/behaviour/domestic")
	g10, _ := plan.Comparison("g10/stroke/behaviour/domestic_vs_nature")
	assert.Equal(t, g07.Left, g10.Left)
	assert.Equal(t, "stroke/behaviour/domestic", g10.Left.String())
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build([2]survey.Cohort{"a", "a"}, "a")
	assert.True(t, errors.Is(err, core.ErrInvalidBattery))

	_, err = Build(cohorts, "nobody")
	assert.True(t, errors.Is(err, core.ErrInvalidBattery))
}

func TestValidate_RejectsTruncatedPlan(t *testing.T) {
	plan, err := Build(cohorts, "stroke")
	require.NoError(t, err)
	plan.Comparisons = plan.Comparisons[:52]
	err = Validate(plan)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "52 comparisons"))
}

func TestContextPairs(t *testing.T) {
	pairs := ContextPairs()
	require.Len(t, pairs, 6)
	assert.Equal(t, ContextPair{survey.ContextDomestic, survey.ContextNature}, pairs[0])
	assert.Equal(t, ContextPair{survey.ContextPublic, survey.ContextTraffic}, pairs[5])
}
