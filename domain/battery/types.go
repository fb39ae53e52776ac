package battery

import (
	"fmt"

	"gocohort/domain/core"
	"gocohort/domain/survey"
)

// Direction is the alternative hypothesis of a two-sample comparison
type Direction string

const (
	Greater  Direction = "greater"
	Less     Direction = "less"
	TwoSided Direction = "two-sided"
)

// Valid reports whether d is a known alternative
func (d Direction) Valid() bool {
	return d == Greater || d == Less || d == TwoSided
}

// Opposite flips a one-sided direction; two-sided is its own opposite
func (d Direction) Opposite() Direction {
	switch d {
	case Greater:
		return Less
	case Less:
		return Greater
	default:
		return d
	}
}

// ParseDirection parses "greater", "less" or "two-sided"
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", core.ErrInvalidDirection, s)
	}
	return d, nil
}

// PartitionKey names one cell of the cohort x measure x context lattice.
// An empty Cohort means all cohorts, an empty Context means no context filter.
type PartitionKey struct {
	Cohort  survey.Cohort  `json:"cohort,omitempty" yaml:"cohort,omitempty"`
	Measure survey.Measure `json:"measure" yaml:"measure"`
	Context survey.Context `json:"context,omitempty" yaml:"context,omitempty"`
}

// String renders cohort/measure/context with "all" and "*" for the rollups
func (k PartitionKey) String() string {
	cohort := string(k.Cohort)
	if cohort == "" {
		cohort = "all"
	}
	ctx := string(k.Context)
	if ctx == "" {
		ctx = "*"
	}
	return fmt.Sprintf("%s/%s/%s", cohort, k.Measure, ctx)
}

// Kind groups comparisons by the axis they contrast
type Kind string

const (
	KindCrossCohort    Kind = "cross_cohort"
	KindWithinMeasure  Kind = "within_cohort_measure"
	KindWithinContexts Kind = "within_cohort_context"
)

// ComparisonSpec is one two-sample entry of the battery
type ComparisonSpec struct {
	ID        core.BatteryID `json:"id" yaml:"id"`
	Group     int            `json:"group" yaml:"group"`
	Kind      Kind           `json:"kind" yaml:"kind"`
	Left      PartitionKey   `json:"left" yaml:"left"`
	Right     PartitionKey   `json:"right" yaml:"right"`
	Direction Direction      `json:"direction" yaml:"direction"`
	Label     string         `json:"label" yaml:"label"`
}

// ScoreKind is the score side of an age correlation
type ScoreKind string

const (
	ScoreComposite ScoreKind = "composite"
	ScoreBehaviour ScoreKind = "behaviour"
	ScoreEmotion   ScoreKind = "emotion"
)

// ScoreKinds lists correlation scores in battery order
var ScoreKinds = []ScoreKind{ScoreComposite, ScoreBehaviour, ScoreEmotion}

// Of extracts the score from an observation
func (s ScoreKind) Of(o survey.Observation) float64 {
	switch s {
	case ScoreBehaviour:
		return o.Behaviour
	case ScoreEmotion:
		return o.Emotion
	default:
		return o.Composite()
	}
}

// CorrelationSpec is one age correlation entry; empty Cohort means the whole sample
type CorrelationSpec struct {
	ID     core.BatteryID `json:"id" yaml:"id"`
	Cohort survey.Cohort  `json:"cohort,omitempty" yaml:"cohort,omitempty"`
	Score  ScoreKind      `json:"score" yaml:"score"`
	Label  string         `json:"label" yaml:"label"`
}

// Plan is the full, ordered battery for one study
type Plan struct {
	Cohorts      [2]survey.Cohort  `json:"cohorts" yaml:"cohorts"`
	Comparisons  []ComparisonSpec  `json:"comparisons" yaml:"comparisons"`
	Correlations []CorrelationSpec `json:"correlations" yaml:"correlations"`
}

// Keys returns every distinct partition referenced by the comparisons,
// in first-appearance order
func (p *Plan) Keys() []PartitionKey {
	seen := make(map[PartitionKey]bool)
	var keys []PartitionKey
	for _, c := range p.Comparisons {
		for _, k := range []PartitionKey{c.Left, c.Right} {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Comparison looks up a comparison by id
func (p *Plan) Comparison(id core.BatteryID) (ComparisonSpec, bool) {
	for _, c := range p.Comparisons {
		if c.ID == id {
			return c, true
		}
	}
	return ComparisonSpec{}, false
}

// Validate checks identifiers are unique and every entry is well formed
func (p *Plan) Validate() error {
	ids := make(map[core.BatteryID]bool)
	for _, c := range p.Comparisons {
		if c.ID == "" {
			return fmt.Errorf("%w: comparison without id", core.ErrInvalidBattery)
		}
		if ids[c.ID] {
			return fmt.Errorf("%w: duplicate id %s", core.ErrInvalidBattery, c.ID)
		}
		ids[c.ID] = true
		if !c.Direction.Valid() {
			return fmt.Errorf("%w: %s has direction %q", core.ErrInvalidBattery, c.ID, c.Direction)
		}
		if c.Left == c.Right {
			return fmt.Errorf("%w: %s compares %s with itself", core.ErrInvalidBattery, c.ID, c.Left)
		}
		if !c.Left.Measure.Valid() || !c.Right.Measure.Valid() {
			return fmt.Errorf("%w: %s has an unknown measure", core.ErrInvalidBattery, c.ID)
		}
	}
	for _, c := range p.Correlations {
		if ids[c.ID] {
			return fmt.Errorf("%w: duplicate id %s", core.ErrInvalidBattery, c.ID)
		}
		ids[c.ID] = true
	}
	return nil
}

// Hash fingerprints the plan so two runs can be checked for the same battery
func (p *Plan) Hash() core.BatteryHash {
	entries := make([]string, 0, len(p.Comparisons)+len(p.Correlations))
	for _, c := range p.Comparisons {
		entries = append(entries, fmt.Sprintf("%s|%s|%s|%s", c.ID, c.Left, c.Right, c.Direction))
	}
	for _, c := range p.Correlations {
		entries = append(entries, fmt.Sprintf("%s|%s|%s", c.ID, c.Cohort, c.Score))
	}
	return core.ComputeBatteryHash(entries)
}
