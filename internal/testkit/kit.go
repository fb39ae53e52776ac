package testkit

import (
	"fmt"

	"gocohort/domain/core"
	"gocohort/domain/survey"
)

// Default cohort labels used by fixtures
const (
	CohortA survey.Cohort = "stroke"
	CohortB survey.Cohort = "control"
)

// Cohorts is the fixture cohort pair
var Cohorts = [2]survey.Cohort{CohortA, CohortB}

// Subject builds a subject whose scores are given in canonical context order
func Subject(id string, cohort survey.Cohort, age int, behaviour, emotion [4]float64) survey.Subject {
	scores := make(map[string]float64, 8)
	schema := survey.DefaultSchema()
	for _, item := range schema.Items {
		ctx, _ := schema.ContextOf(item)
		switch item.Family {
		case survey.FamilyBehaviour:
			scores[item.Name] = behaviour[ctx.Index()]
		case survey.FamilyEmotion:
			scores[item.Name] = emotion[ctx.Index()]
		}
	}
	return survey.Subject{
		ID:     core.SubjectID(id),
		Cohort: cohort,
		Gender: "female",
		Age:    age,
		Scores: scores,
		Extra:  map[string]string{"country": "DE", "TIME_total": "300"},
	}
}

// Table wraps subjects in a wide table using the default schema
func Table(subjects ...survey.Subject) *survey.WideTable {
	return &survey.WideTable{Cohorts: Cohorts, Schema: survey.DefaultSchema(), Subjects: subjects}
}

// IdenticalScores is four subjects per cohort, all with behaviour [1,2,3,4]
// and emotion [4,3,2,1], so every composite equals 5
func IdenticalScores() *survey.WideTable {
	var subjects []survey.Subject
	for i := 0; i < 8; i++ {
		cohort := CohortA
		if i >= 4 {
			cohort = CohortB
		}
		subjects = append(subjects, Subject(
			fmt.Sprintf("%d", i+1), cohort, 60+i*3,
			[4]float64{1, 2, 3, 4}, [4]float64{4, 3, 2, 1},
		))
	}
	return Table(subjects...)
}

// Separated is a table where every cohort A score exceeds every cohort B score
func Separated(perCohort int) *survey.WideTable {
	var subjects []survey.Subject
	for i := 0; i < perCohort; i++ {
		jitter := float64(i%3) * 0.1
		subjects = append(subjects,
			Subject(fmt.Sprintf("%d", i+1), CohortA, 62+i,
				[4]float64{3.5 + jitter, 3.6 + jitter, 3.7 + jitter, 3.8 + jitter},
				[4]float64{3.4 + jitter, 3.5 + jitter, 3.9 + jitter, 3.3 + jitter}),
			Subject(fmt.Sprintf("%d", perCohort+i+1), CohortB, 64+i,
				[4]float64{1.1 + jitter, 1.2 + jitter, 1.3 + jitter, 1.4 + jitter},
				[4]float64{1.5 + jitter, 1.0 + jitter, 1.6 + jitter, 1.2 + jitter}),
		)
	}
	return Table(subjects...)
}

// Varied is a deterministic table with spread in every partition
func Varied(perCohort int) *survey.WideTable {
	var subjects []survey.Subject
	for i := 0; i < 2*perCohort; i++ {
		cohort := CohortA
		if i >= perCohort {
			cohort = CohortB
		}
		s := float64(i)
		subjects = append(subjects, Subject(
			fmt.Sprintf("%d", i+1), cohort, 60+(i*7)%25,
			[4]float64{1 + float64(i%4), 1 + float64((i+1)%4), 1 + float64((i*3)%4), 1 + float64((i+2)%4)},
			[4]float64{1 + float64((i*5)%4), 1 + float64(int(s/2)%4), 1 + float64((i+3)%4), 1 + float64((i*7+1)%4)},
		))
	}
	return Table(subjects...)
}
