package battery

import (
	"fmt"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/survey"
)

// Fixed battery sizes
const (
	ComparisonCount  = 53
	CorrelationCount = 9
)

// ContextPair is an unordered pair of contexts
type ContextPair struct {
	First, Second survey.Context
}

// ContextPairs returns the six unordered context pairs in canonical order
func ContextPairs() []ContextPair {
	var pairs []ContextPair
	for i := 0; i < len(survey.Contexts); i++ {
		for j := i + 1; j < len(survey.Contexts); j++ {
			pairs = append(pairs, ContextPair{survey.Contexts[i], survey.Contexts[j]})
		}
	}
	return pairs
}

// Build enumerates the study battery for cohorts. Cross-cohort comparisons
// always place cohorts[0] on the left and are one-sided toward expectedHigher;
// within-cohort comparisons are two-sided.
func Build(cohorts [2]survey.Cohort, expectedHigher survey.Cohort) (*battery.Plan, error) {
	a, b := cohorts[0], cohorts[1]
	if a == "" || b == "" || a == b {
		return nil, fmt.Errorf("%w: cohorts must be two distinct labels, got %q and %q", core.ErrInvalidBattery, a, b)
	}

	cross := battery.Greater
	switch expectedHigher {
	case a:
	case b:
		cross = battery.Less
	default:
		return nil, fmt.Errorf("%w: expected-higher cohort %q is not one of %s, %s", core.ErrInvalidBattery, expectedHigher, a, b)
	}

	plan := &battery.Plan{Cohorts: cohorts}
	vs := fmt.Sprintf("%s_vs_%s", a, b)

	add := func(group int, kind battery.Kind, id string, left, right battery.PartitionKey, dir battery.Direction, label string) {
		plan.Comparisons = append(plan.Comparisons, battery.ComparisonSpec{
			ID:        core.BatteryID(fmt.Sprintf("g%02d/%s", group, id)),
			Group:     group,
			Kind:      kind,
			Left:      left,
			Right:     right,
			Direction: dir,
			Label:     label,
		})
	}
	key := func(c survey.Cohort, m survey.Measure, ctx survey.Context) battery.PartitionKey {
		return battery.PartitionKey{Cohort: c, Measure: m, Context: ctx}
	}

	// 1: overall composite, cohort against cohort
	add(1, battery.KindCrossCohort, vs+"/combined/overall",
		key(a, survey.MeasureCombined, ""), key(b, survey.MeasureCombined, ""), cross,
		fmt.Sprintf("%s vs %s, combined, overall", a, b))

	// 2-3: behaviour against emotion within each cohort
	for i, c := range cohorts {
		add(2+i, battery.KindWithinMeasure, fmt.Sprintf("%s/behaviour_vs_emotion/overall", c),
			key(c, survey.MeasureBehaviour, ""), key(c, survey.MeasureEmotion, ""), battery.TwoSided,
			fmt.Sprintf("%s: behaviour vs emotion, overall", c))
	}

	// 4-5: each family, cohort against cohort
	for i, m := range []survey.Measure{survey.MeasureBehaviour, survey.MeasureEmotion} {
		add(4+i, battery.KindCrossCohort, fmt.Sprintf("%s/%s/overall", vs, m),
			key(a, m, ""), key(b, m, ""), cross,
			fmt.Sprintf("%s vs %s, %s, overall", a, b, m))
	}

	// 6-9: one group per context, every measure
	for i, ctx := range survey.Contexts {
		for _, m := range survey.Measures {
			add(6+i, battery.KindCrossCohort, fmt.Sprintf("%s/%s/%s", vs, m, ctx),
				key(a, m, ctx), key(b, m, ctx), cross,
				fmt.Sprintf("%s vs %s, %s, %s", a, b, m, ctx))
		}
	}

	// 10-11: context pairs within each cohort
	for i, c := range cohorts {
		for _, m := range survey.Measures {
			for _, p := range ContextPairs() {
				add(10+i, battery.KindWithinContexts, fmt.Sprintf("%s/%s/%s_vs_%s", c, m, p.First, p.Second),
					key(c, m, p.First), key(c, m, p.Second), battery.TwoSided,
					fmt.Sprintf("%s: %s, %s vs %s", c, m, p.First, p.Second))
			}
		}
	}

	scopes := []survey.Cohort{"", a, b}
	for _, c := range scopes {
		scope := string(c)
		if c == "" {
			scope = "all"
		}
		for _, s := range battery.ScoreKinds {
			plan.Correlations = append(plan.Correlations, battery.CorrelationSpec{
				ID:     core.BatteryID(fmt.Sprintf("r/%s/age_vs_%s", scope, s)),
				Cohort: c,
				Score:  s,
				Label:  fmt.Sprintf("%s: age vs %s", scope, s),
			})
		}
	}

	if err := Validate(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Validate checks plan structure and the fixed battery sizes
func Validate(plan *battery.Plan) error {
	if err := plan.Validate(); err != nil {
		return err
	}
	if len(plan.Comparisons) != ComparisonCount {
		return fmt.Errorf("%w: %d comparisons, want %d", core.ErrInvalidBattery, len(plan.Comparisons), ComparisonCount)
	}
	if len(plan.Correlations) != CorrelationCount {
		return fmt.Errorf("%w: %d correlations, want %d", core.ErrInvalidBattery, len(plan.Correlations), CorrelationCount)
	}
	return nil
}
