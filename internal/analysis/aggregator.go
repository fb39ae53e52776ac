package analysis

import (
	"fmt"
	"sync"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/report"
	runner "gocohort/internal/battery"
)

// ResultAggregator collects battery records keyed by battery id.
// Arrival order is irrelevant; reads always follow plan order.
type ResultAggregator struct {
	plan *battery.Plan

	mu           sync.RWMutex
	comparisons  map[core.BatteryID]report.ComparisonRecord
	correlations map[core.BatteryID]report.CorrelationRecord
}

// NewResultAggregator creates an empty aggregator for plan
func NewResultAggregator(plan *battery.Plan) *ResultAggregator {
	return &ResultAggregator{
		plan:         plan,
		comparisons:  make(map[core.BatteryID]report.ComparisonRecord, len(plan.Comparisons)),
		correlations: make(map[core.BatteryID]report.CorrelationRecord, len(plan.Correlations)),
	}
}

// AddComparison stores a comparison record; ids outside the plan or seen twice are rejected
func (a *ResultAggregator) AddComparison(rec report.ComparisonRecord) error {
	if _, ok := a.plan.Comparison(rec.ID); !ok {
		return fmt.Errorf("comparison %s is not part of the battery", rec.ID)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, dup := a.comparisons[rec.ID]; dup {
		return fmt.Errorf("comparison %s already recorded", rec.ID)
	}
	a.comparisons[rec.ID] = rec
	return nil
}

// AddCorrelation stores a correlation record
func (a *ResultAggregator) AddCorrelation(rec report.CorrelationRecord) error {
	if !a.planHasCorrelation(rec.ID) {
		return fmt.Errorf("correlation %s is not part of the battery", rec.ID)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, dup := a.correlations[rec.ID]; dup {
		return fmt.Errorf("correlation %s already recorded", rec.ID)
	}
	a.correlations[rec.ID] = rec
	return nil
}

// AddOutcome stores every record of a battery run
func (a *ResultAggregator) AddOutcome(out *runner.Outcome) error {
	for _, c := range out.Comparisons {
		if err := a.AddComparison(c); err != nil {
			return err
		}
	}
	for _, c := range out.Correlations {
		if err := a.AddCorrelation(c); err != nil {
			return err
		}
	}
	return nil
}

func (a *ResultAggregator) planHasCorrelation(id core.BatteryID) bool {
	for _, c := range a.plan.Correlations {
		if c.ID == id {
			return true
		}
	}
	return false
}

// Lookup returns the comparison recorded under id
func (a *ResultAggregator) Lookup(id core.BatteryID) (report.ComparisonRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.comparisons[id]
	return rec, ok
}

// LookupCorrelation returns the correlation recorded under id
func (a *ResultAggregator) LookupCorrelation(id core.BatteryID) (report.CorrelationRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	rec, ok := a.correlations[id]
	return rec, ok
}

// Comparisons returns recorded comparisons in plan order
func (a *ResultAggregator) Comparisons() []report.ComparisonRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]report.ComparisonRecord, 0, len(a.comparisons))
	for _, spec := range a.plan.Comparisons {
		if rec, ok := a.comparisons[spec.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Correlations returns recorded correlations in plan order
func (a *ResultAggregator) Correlations() []report.CorrelationRecord {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]report.CorrelationRecord, 0, len(a.correlations))
	for _, spec := range a.plan.Correlations {
		if rec, ok := a.correlations[spec.ID]; ok {
			out = append(out, rec)
		}
	}
	return out
}

// Failures lists ids of records that carry an error, comparisons first
func (a *ResultAggregator) Failures() []core.BatteryID {
	var ids []core.BatteryID
	for _, c := range a.Comparisons() {
		if c.Failed() {
			ids = append(ids, c.ID)
		}
	}
	for _, c := range a.Correlations() {
		if c.Failed() {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Missing lists plan ids with no record yet
func (a *ResultAggregator) Missing() []core.BatteryID {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var ids []core.BatteryID
	for _, spec := range a.plan.Comparisons {
		if _, ok := a.comparisons[spec.ID]; !ok {
			ids = append(ids, spec.ID)
		}
	}
	for _, spec := range a.plan.Correlations {
		if _, ok := a.correlations[spec.ID]; !ok {
			ids = append(ids, spec.ID)
		}
	}
	return ids
}

// ApplyCorrection sets AdjustedP on every successful record. The comparison
// and correlation families are adjusted separately; raw p-values stay as they are.
func (a *ResultAggregator) ApplyCorrection(policy Correction) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var cmpIDs []core.BatteryID
	var cmpP []float64
	for _, spec := range a.plan.Comparisons {
		rec, ok := a.comparisons[spec.ID]
		if !ok {
			continue
		}
		rec.AdjustedP = nil
		a.comparisons[spec.ID] = rec
		if p, ok := rec.PValue(); ok && !rec.Failed() {
			cmpIDs = append(cmpIDs, spec.ID)
			cmpP = append(cmpP, p)
		}
	}
	for i, adj := range Adjust(cmpP, policy) {
		rec := a.comparisons[cmpIDs[i]]
		rec.AdjustedP = report.Float(adj)
		a.comparisons[cmpIDs[i]] = rec
	}

	var corIDs []core.BatteryID
	var corP []float64
	for _, spec := range a.plan.Correlations {
		rec, ok := a.correlations[spec.ID]
		if !ok {
			continue
		}
		rec.AdjustedP = nil
		a.correlations[spec.ID] = rec
		if !rec.Failed() {
			corIDs = append(corIDs, spec.ID)
			corP = append(corP, rec.PValue)
		}
	}
	for i, adj := range Adjust(corP, policy) {
		rec := a.correlations[corIDs[i]]
		rec.AdjustedP = report.Float(adj)
		a.correlations[corIDs[i]] = rec
	}
}

// ResultHash fingerprints every numeric result in the aggregator
func (a *ResultAggregator) ResultHash() core.ResultHash {
	values := make(map[string][]float64)
	for _, c := range a.Comparisons() {
		var v []float64
		if c.Test != nil {
			v = append(v, c.Test.U, c.Test.PValue)
		}
		if c.AdjustedP != nil {
			v = append(v, *c.AdjustedP)
		}
		v = append(v, c.NormLeft.W, c.NormLeft.PValue, c.NormRight.W, c.NormRight.PValue)
		values[string(c.ID)] = v
	}
	for _, c := range a.Correlations() {
		v := []float64{float64(c.N), c.Rho, c.PValue}
		if c.AdjustedP != nil {
			v = append(v, *c.AdjustedP)
		}
		values[string(c.ID)] = v
	}
	return core.ComputeResultHash(values)
}
