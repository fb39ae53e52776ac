package analysis

import (
	"fmt"

	"gocohort/adapters/stats/primitives"
	"gocohort/domain/report"
	"gocohort/domain/survey"

	"github.com/montanaflynn/stats"
)

// DefaultScoreMax is the top of the rating scale
const DefaultScoreMax = 4

// ItemMedians returns the median of every item per cohort, cohorts outer
func ItemMedians(table *survey.WideTable) ([]report.ItemMedian, error) {
	var out []report.ItemMedian
	for _, c := range table.Cohorts {
		subjects := table.CohortSubjects(c)
		if len(subjects) == 0 {
			continue
		}
		for _, item := range table.Schema.ItemNames() {
			values := make([]float64, len(subjects))
			for i, s := range subjects {
				values[i] = s.Scores[item]
			}
			med, err := stats.Median(values)
			if err != nil {
				return nil, fmt.Errorf("median of %s for %s: %w", item, c, err)
			}
			out = append(out, report.ItemMedian{Cohort: c, Item: item, Median: med})
		}
	}
	return out, nil
}

// RiskPerceptions summarizes behaviour, emotion and composite per cohort over
// observation rows. CompositePercent is the mean composite as a share of the
// maximum composite (2*scoreMax), rounded to two places.
func RiskPerceptions(long *survey.LongTable, scoreMax float64) ([]report.RiskPerception, error) {
	if scoreMax <= 0 {
		scoreMax = DefaultScoreMax
	}
	rows := long.Rows()

	var out []report.RiskPerception
	for _, c := range long.Cohorts {
		var beh, emo, comp []float64
		for _, o := range rows {
			if o.Cohort != c {
				continue
			}
			beh = append(beh, o.Behaviour)
			emo = append(emo, o.Emotion)
			comp = append(comp, o.Composite())
		}
		if len(beh) == 0 {
			continue
		}

		b, err := primitives.Describe(beh)
		if err != nil {
			return nil, err
		}
		e, err := primitives.Describe(emo)
		if err != nil {
			return nil, err
		}
		meanComp, err := stats.Mean(comp)
		if err != nil {
			return nil, err
		}
		pct, err := stats.Round(meanComp/(2*scoreMax)*100, 2)
		if err != nil {
			return nil, err
		}

		out = append(out, report.RiskPerception{
			Cohort:           c,
			N:                len(beh),
			BehaviourMean:    b.Mean,
			BehaviourStd:     b.Std,
			EmotionMean:      e.Mean,
			EmotionStd:       e.Std,
			CompositeMean:    meanComp,
			CompositePercent: pct,
		})
	}
	return out, nil
}
