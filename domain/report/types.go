package report

import (
	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/run"
	"gocohort/domain/survey"
)

// NormalityResult is a Shapiro-Wilk outcome for one partition
type NormalityResult struct {
	Partition string  `json:"partition" yaml:"partition"`
	N         int     `json:"n" yaml:"n"`
	W         float64 `json:"w" yaml:"w"`
	PValue    float64 `json:"p_value" yaml:"p_value"`
	ErrKind   string  `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Err       string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the check produced a statistic
func (n NormalityResult) OK() bool { return n.ErrKind == "" }

// TestResult is a Mann-Whitney U outcome
type TestResult struct {
	U           float64           `json:"u" yaml:"u"`
	PValue      float64           `json:"p_value" yaml:"p_value"`
	Alternative battery.Direction `json:"alternative" yaml:"alternative"`
	Method      string            `json:"method" yaml:"method"`
	N1          int               `json:"n1" yaml:"n1"`
	N2          int               `json:"n2" yaml:"n2"`
}

// ComparisonRecord is one battery comparison with the normality of both sides
type ComparisonRecord struct {
	ID        core.BatteryID       `json:"id" yaml:"id"`
	Group     int                  `json:"group" yaml:"group"`
	Kind      battery.Kind         `json:"kind" yaml:"kind"`
	Label     string               `json:"label" yaml:"label"`
	Left      battery.PartitionKey `json:"left" yaml:"left"`
	Right     battery.PartitionKey `json:"right" yaml:"right"`
	Direction battery.Direction    `json:"direction" yaml:"direction"`
	NormLeft  NormalityResult      `json:"normality_left" yaml:"normality_left"`
	NormRight NormalityResult      `json:"normality_right" yaml:"normality_right"`
	Test      *TestResult          `json:"test,omitempty" yaml:"test,omitempty"`
	AdjustedP *float64             `json:"adjusted_p,omitempty" yaml:"adjusted_p,omitempty"`
	ErrKind   string               `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Err       string               `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the comparison could not be computed
func (c ComparisonRecord) Failed() bool { return c.ErrKind != "" }

// PValue returns the raw p-value and whether one exists
func (c ComparisonRecord) PValue() (float64, bool) {
	if c.Test == nil {
		return 0, false
	}
	return c.Test.PValue, true
}

// CorrelationRecord is one Spearman correlation of age against a score
type CorrelationRecord struct {
	ID        core.BatteryID    `json:"id" yaml:"id"`
	Label     string            `json:"label" yaml:"label"`
	Cohort    survey.Cohort     `json:"cohort,omitempty" yaml:"cohort,omitempty"`
	Score     battery.ScoreKind `json:"score" yaml:"score"`
	N         int               `json:"n" yaml:"n"`
	Rho       float64           `json:"rho" yaml:"rho"`
	PValue    float64           `json:"p_value" yaml:"p_value"`
	AdjustedP *float64          `json:"adjusted_p,omitempty" yaml:"adjusted_p,omitempty"`
	ErrKind   string            `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Err       string            `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the correlation could not be computed
func (c CorrelationRecord) Failed() bool { return c.ErrKind != "" }

// DemographicEntry is one demographic statistic with a stable id
type DemographicEntry struct {
	ID        string             `json:"id" yaml:"id"`
	Label     string             `json:"label" yaml:"label"`
	Values    map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Statistic *float64           `json:"statistic,omitempty" yaml:"statistic,omitempty"`
	PValue    *float64           `json:"p_value,omitempty" yaml:"p_value,omitempty"`
	ErrKind   string             `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`
	Err       string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// ItemMedian is the median of one wide item within a cohort
type ItemMedian struct {
	Cohort survey.Cohort `json:"cohort" yaml:"cohort"`
	Item   string        `json:"item" yaml:"item"`
	Median float64       `json:"median" yaml:"median"`
}

// RiskPerception summarizes behaviour, emotion and composite for one cohort
type RiskPerception struct {
	Cohort           survey.Cohort `json:"cohort" yaml:"cohort"`
	N                int           `json:"n" yaml:"n"`
	BehaviourMean    float64       `json:"behaviour_mean" yaml:"behaviour_mean"`
	BehaviourStd     float64       `json:"behaviour_std" yaml:"behaviour_std"`
	EmotionMean      float64       `json:"emotion_mean" yaml:"emotion_mean"`
	EmotionStd       float64       `json:"emotion_std" yaml:"emotion_std"`
	CompositeMean    float64       `json:"composite_mean" yaml:"composite_mean"`
	CompositePercent float64       `json:"composite_percent" yaml:"composite_percent"`
}

// Descriptives holds the supplementary summary tables
type Descriptives struct {
	ItemMedians    []ItemMedian     `json:"item_medians" yaml:"item_medians"`
	RiskPerception []RiskPerception `json:"risk_perception" yaml:"risk_perception"`
}

// Preprocessing records what the ingestion filters removed
type Preprocessing struct {
	RowsRead       int `json:"rows_read" yaml:"rows_read"`
	DroppedMissing int `json:"dropped_incomplete" yaml:"dropped_incomplete"`
	DroppedAge     int `json:"dropped_age" yaml:"dropped_age"`
	Subjects       int `json:"subjects" yaml:"subjects"`
	Observations   int `json:"observations" yaml:"observations"`
}

// Report is the structured output consumed by renderers
type Report struct {
	Manifest      run.Manifest        `json:"manifest" yaml:"manifest"`
	Cohorts       [2]survey.Cohort    `json:"cohorts" yaml:"cohorts"`
	Preprocessing Preprocessing       `json:"preprocessing" yaml:"preprocessing"`
	Demographics  []DemographicEntry  `json:"demographics" yaml:"demographics"`
	Comparisons   []ComparisonRecord  `json:"comparisons" yaml:"comparisons"`
	Correlations  []CorrelationRecord `json:"correlations" yaml:"correlations"`
	Descriptives  Descriptives        `json:"descriptives" yaml:"descriptives"`
}

// Comparison looks up a comparison record by battery id
func (r *Report) Comparison(id core.BatteryID) (ComparisonRecord, bool) {
	for _, c := range r.Comparisons {
		if c.ID == id {
			return c, true
		}
	}
	return ComparisonRecord{}, false
}

// Correlation looks up a correlation record by battery id
func (r *Report) Correlation(id core.BatteryID) (CorrelationRecord, bool) {
	for _, c := range r.Correlations {
		if c.ID == id {
			return c, true
		}
	}
	return CorrelationRecord{}, false
}

// Failures counts records that carry an error
func (r *Report) Failures() int {
	n := 0
	for _, c := range r.Comparisons {
		if c.Failed() {
			n++
		}
	}
	for _, c := range r.Correlations {
		if c.Failed() {
			n++
		}
	}
	return n
}

// Float is a helper for optional numeric fields
func Float(v float64) *float64 { return &v }
