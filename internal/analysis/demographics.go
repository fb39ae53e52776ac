package analysis

import (
	"fmt"

	"gocohort/adapters/stats/primitives"
	"gocohort/domain/core"
	"gocohort/domain/report"
	"gocohort/domain/survey"
)

// Demographics builds the subject-level demographic entries: counts by
// cohort and gender, age summaries, age normality per cohort, and the
// between-cohort Levene and t-test on age.
func Demographics(table *survey.WideTable) []report.DemographicEntry {
	var entries []report.DemographicEntry

	cohortCounts := make(map[string]float64)
	genderCounts := make(map[string]float64)
	crossCounts := make(map[string]float64)
	for _, s := range table.Subjects {
		cohortCounts[string(s.Cohort)]++
		genderCounts[string(s.Gender)]++
		crossCounts[fmt.Sprintf("%s/%s", s.Cohort, s.Gender)]++
	}
	entries = append(entries,
		report.DemographicEntry{ID: "demo/count/cohort", Label: "Subjects per cohort", Values: cohortCounts},
		report.DemographicEntry{ID: "demo/count/gender", Label: "Subjects per gender", Values: genderCounts},
		report.DemographicEntry{ID: "demo/count/cohort_gender", Label: "Subjects per cohort and gender", Values: crossCounts},
	)

	entries = append(entries, ageSummary("demo/age/overall", "Age, all subjects", ages(table.Subjects)))
	for _, c := range table.Cohorts {
		entries = append(entries, ageSummary(
			fmt.Sprintf("demo/age/%s", c),
			fmt.Sprintf("Age, %s", c),
			ages(table.CohortSubjects(c)),
		))
	}

	for _, c := range table.Cohorts {
		entry := report.DemographicEntry{
			ID:    fmt.Sprintf("demo/age_normality/%s", c),
			Label: fmt.Sprintf("Shapiro-Wilk on age, %s", c),
		}
		res, err := primitives.ShapiroWilk(ages(table.CohortSubjects(c)))
		if err != nil {
			entry.ErrKind, entry.Err = core.ErrorKind(err), err.Error()
		} else {
			entry.Statistic, entry.PValue = report.Float(res.W), report.Float(res.PValue)
			entry.Values = map[string]float64{"n": float64(res.N)}
		}
		entries = append(entries, entry)
	}

	a := ages(table.CohortSubjects(table.Cohorts[0]))
	b := ages(table.CohortSubjects(table.Cohorts[1]))

	levene := report.DemographicEntry{ID: "demo/age_levene", Label: "Levene (median) on age between cohorts"}
	if res, err := primitives.Levene(a, b); err != nil {
		levene.ErrKind, levene.Err = core.ErrorKind(err), err.Error()
	} else {
		levene.Statistic, levene.PValue = report.Float(res.Statistic), report.Float(res.PValue)
		levene.Values = map[string]float64{"df1": res.DF1, "df2": res.DF2}
	}

	ttest := report.DemographicEntry{ID: "demo/age_ttest", Label: "Student t-test on age between cohorts"}
	if res, err := primitives.StudentTTest(a, b); err != nil {
		ttest.ErrKind, ttest.Err = core.ErrorKind(err), err.Error()
	} else {
		ttest.Statistic, ttest.PValue = report.Float(res.Statistic), report.Float(res.PValue)
		ttest.Values = map[string]float64{"df": res.DF}
	}

	return append(entries, levene, ttest)
}

func ageSummary(id, label string, data []float64) report.DemographicEntry {
	entry := report.DemographicEntry{ID: id, Label: label}
	sum, err := primitives.Describe(data)
	if err != nil {
		entry.ErrKind, entry.Err = core.ErrorKind(err), err.Error()
		return entry
	}
	entry.Values = map[string]float64{
		"n":    float64(sum.N),
		"mean": sum.Mean,
		"std":  sum.Std,
		"min":  sum.Min,
		"max":  sum.Max,
	}
	return entry
}

func ages(subjects []survey.Subject) []float64 {
	out := make([]float64, len(subjects))
	for i, s := range subjects {
		out[i] = float64(s.Age)
	}
	return out
}
