package reshape

import (
	"errors"
	"fmt"
	"testing"

	"gocohort/domain/core"
	"gocohort/domain/survey"
	"gocohort/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReshape_RoundTrip(t *testing.T) {
	table := testkit.Varied(5)
	long, err := NewReshaper(survey.DefaultSchema(), nil).Reshape(table)
	require.NoError(t, err)

	require.Equal(t, 4*len(table.Subjects), long.Len())
	assert.Equal(t, len(table.Subjects), long.SubjectCount())

	bySubject := make(map[core.SubjectID]survey.Subject)
	for _, s := range table.Subjects {
		bySubject[s.ID] = s
	}
	for _, obs := range long.Rows() {
		s := bySubject[obs.SubjectID]
		code := []string{"dom", "nature", "public", "traffic"}[obs.Context.Index()]
		want := s.Scores["behaviour_"+code] + s.Scores["emotion_"+code]
		assert.Equal(t, want, obs.Composite(), "subject %s context %s", obs.SubjectID, obs.Context)
		assert.Equal(t, s.Cohort, obs.Cohort)
		assert.Equal(t, s.Age, obs.Age)
	}
}

func TestReshape_OrderBySubjectThenContext(t *testing.T) {
	table := testkit.Table(
		testkit.Subject("10", testkit.CohortA, 70, [4]float64{1, 1, 1, 1}, [4]float64{1, 1, 1, 1}),
		testkit.Subject("2", testkit.CohortB, 65, [4]float64{2, 2, 2, 2}, [4]float64{2, 2, 2, 2}),
	)
	long, err := NewReshaper(survey.DefaultSchema(), nil).Reshape(table)
	require.NoError(t, err)

	var got []string
	for _, r := range long.Rows() {
		got = append(got, fmt.Sprintf("%s/%s", r.SubjectID, r.Context))
	}
	assert.Equal(t, []string{
		"2/domestic", "2/nature", "2/public", "2/traffic",
		"10/domestic", "10/nature", "10/public", "10/traffic",
	}, got)
}

func TestProject_DropsAdministrativeColumns(t *testing.T) {
	r := NewReshaper(survey.DefaultSchema(), nil)
	s := testkit.Subject("1", testkit.CohortA, 60, [4]float64{1, 2, 3, 4}, [4]float64{1, 2, 3, 4})
	s.Scores["unrelated"] = 9

	out := r.Project([]survey.Subject{s})
	require.Len(t, out, 1)
	assert.Nil(t, out[0].Extra)
	assert.Len(t, out[0].Scores, 8)
	assert.Len(t, s.Scores, 9, "input is not mutated")
}

func TestReshape_MismatchedRelabelFailsLoudly(t *testing.T) {
	schema := survey.DefaultSchema()
	// emotion domestic items relabeled to a context the behaviour family never uses
	schema.Relabels[survey.FamilyEmotion]["dom"] = survey.Context("home")

	_, err := NewReshaper(schema, nil).Reshape(testkit.Varied(2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrReshapeIntegrity))
	assert.True(t, errors.Is(err, core.ErrUnknownContext))
}

func TestReshape_DuplicateRelabelFailsLoudly(t *testing.T) {
	schema := survey.DefaultSchema()
	schema.Relabels[survey.FamilyEmotion]["dom"] = survey.ContextNature

	_, err := NewReshaper(schema, nil).Reshape(testkit.Varied(2))
	assert.True(t, errors.Is(err, core.ErrReshapeIntegrity))
}

func TestReshape_MissingItemFails(t *testing.T) {
	table := testkit.Varied(2)
	delete(table.Subjects[1].Scores, "emotion_public")

	_, err := NewReshaper(survey.DefaultSchema(), nil).Reshape(table)
	assert.True(t, errors.Is(err, core.ErrReshapeIntegrity))
}

func TestJoin_ReportsUnmatchedKeys(t *testing.T) {
	behaviour := []FamilyRow{
		{SubjectID: "1", Cohort: "stroke", Age: 60, Context: survey.ContextDomestic, Value: 1},
		{SubjectID: "1", Cohort: "stroke", Age: 60, Context: survey.ContextNature, Value: 2},
	}
	emotion := []FamilyRow{
		{SubjectID: "1", Cohort: "stroke", Age: 60, Context: survey.ContextDomestic, Value: 3},
		{SubjectID: "1", Cohort: "stroke", Age: 61, Context: survey.ContextNature, Value: 4},
	}

	_, err := Join(behaviour, emotion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrReshapeIntegrity))
	assert.Contains(t, err.Error(), "1 behaviour and 1 emotion")
}

func TestJoin_PairsFamilies(t *testing.T) {
	behaviour := []FamilyRow{{SubjectID: "1", Cohort: "stroke", Age: 60, Context: survey.ContextTraffic, Value: 2}}
	emotion := []FamilyRow{{SubjectID: "1", Cohort: "stroke", Age: 60, Context: survey.ContextTraffic, Value: 3}}

	obs, err := Join(behaviour, emotion)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, 2.0, obs[0].Behaviour)
	assert.Equal(t, 3.0, obs[0].Emotion)
}
