package render

import (
	"strings"
	"time"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/report"
	"gocohort/domain/run"
	"gocohort/domain/survey"
)

func fixtureReport() *report.Report {
	left := battery.PartitionKey{Cohort: "stroke", Measure: survey.MeasureCombined}
	right := battery.PartitionKey{Cohort: "control", Measure: survey.MeasureCombined}
	ctxLeft := battery.PartitionKey{Cohort: "stroke", Measure: survey.MeasureBehaviour, Context: survey.ContextDomestic}
	ctxRight := battery.PartitionKey{Cohort: "control", Measure: survey.MeasureBehaviour, Context: survey.ContextDomestic}

	return &report.Report{
		Manifest: run.Manifest{
			RunID:       "0190a3c2-0000-7000-8000-000000000001",
			DatasetHash: core.DatasetHash(strings.Repeat("a", 64)),
			BatteryHash: core.BatteryHash(strings.Repeat("b", 64)),
			ResultHash:  core.ResultHash(strings.Repeat("c", 64)),
			Correction:  "holm",
			Alpha:       0.05,
			CodeVersion: "0.1.0",
			CreatedAt:   core.NewTimestamp(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		},
		Cohorts:       [2]survey.Cohort{"stroke", "control"},
		Preprocessing: report.Preprocessing{RowsRead: 22, DroppedMissing: 1, DroppedAge: 1, Subjects: 20, Observations: 80},
		Demographics: []report.DemographicEntry{
			{ID: "demo/count/cohort", Label: "Subjects per cohort", Values: map[string]float64{"stroke": 10, "control": 10}},
			{ID: "demo/age_ttest", Label: "Student t-test on age between cohorts", Values: map[string]float64{"df": 18},
				Statistic: report.Float(-2.123456), PValue: report.Float(0.047812)},
			{ID: "demo/age_levene", Label: "Levene (median) on age between cohorts", ErrKind: "insufficient_data", Err: "levene: need 2, got 1"},
		},
		Comparisons: []report.ComparisonRecord{
			{
				ID: "g01/stroke_vs_control/combined/overall", Group: 1, Kind: battery.KindCrossCohort,
				Left: left, Right: right, Direction: battery.Greater,
				NormLeft:  report.NormalityResult{Partition: left.String(), N: 80, W: 0.91234567, PValue: 0.00012},
				NormRight: report.NormalityResult{Partition: right.String(), N: 80, W: 0.95, PValue: 0.2},
				Test:      &report.TestResult{U: 1234.5, PValue: 0.0000312, Alternative: battery.Greater, Method: "asymptotic", N1: 80, N2: 80},
				AdjustedP: report.Float(0.0016536),
			},
			{
				ID: "g06/stroke_vs_control/behaviour/domestic", Group: 6, Kind: battery.KindCrossCohort,
				Left: ctxLeft, Right: ctxRight, Direction: battery.Greater,
				NormLeft:  report.NormalityResult{Partition: ctxLeft.String(), N: 10, ErrKind: "insufficient_data", Err: "zero variance"},
				NormRight: report.NormalityResult{Partition: ctxRight.String(), N: 10, W: 0.8, PValue: 0.01},
				ErrKind:   "insufficient_data",
				Err:       "zero variance",
			},
		},
		Correlations: []report.CorrelationRecord{
			{ID: "r/all/age_vs_composite", Score: battery.ScoreComposite, N: 80, Rho: 0.25, PValue: 0.0253, AdjustedP: report.Float(0.2277)},
			{ID: "r/stroke/age_vs_composite", Cohort: "stroke", Score: battery.ScoreComposite, N: 40, ErrKind: "insufficient_data", Err: "zero variance"},
		},
		Descriptives: report.Descriptives{
			ItemMedians: []report.ItemMedian{
				{Cohort: "stroke", Item: "behaviour_dom", Median: 2},
				{Cohort: "control", Item: "behaviour_dom", Median: 1.5},
				{Cohort: "stroke", Item: "emotion_dom", Median: 3},
				{Cohort: "control", Item: "emotion_dom", Median: 3},
			},
			RiskPerception: []report.RiskPerception{
				{Cohort: "stroke", N: 40, BehaviourMean: 2.75, BehaviourStd: 0.8124, EmotionMean: 2.5, EmotionStd: 1, CompositeMean: 5.25, CompositePercent: 65.63},
				{Cohort: "control", N: 40, BehaviourMean: 2.1, BehaviourStd: 0.9, EmotionMean: 2.3333333, EmotionStd: 0.7777777, CompositeMean: 4.4333333, CompositePercent: 55.42},
			},
		},
	}
}
