package partition

import (
	"fmt"
	"sync"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/survey"
	"gocohort/internal"
)

// View is a read-only selection of long table rows, by index
type View struct {
	table *survey.LongTable
	idx   []int
}

// All selects every row of t
func All(t *survey.LongTable) View {
	idx := make([]int, t.Len())
	for i := range idx {
		idx[i] = i
	}
	return View{table: t, idx: idx}
}

// Len returns the number of selected rows
func (v View) Len() int { return len(v.idx) }

// Indices returns a copy of the selected row indices
func (v View) Indices() []int {
	out := make([]int, len(v.idx))
	copy(out, v.idx)
	return out
}

// Observations materializes the selected rows in table order
func (v View) Observations() []survey.Observation {
	out := make([]survey.Observation, len(v.idx))
	for i, j := range v.idx {
		out[i] = v.table.Row(j)
	}
	return out
}

func (v View) filter(keep func(survey.Observation) bool) View {
	idx := make([]int, 0, len(v.idx))
	for _, j := range v.idx {
		if keep(v.table.Row(j)) {
			idx = append(idx, j)
		}
	}
	return View{table: v.table, idx: idx}
}

// ByCohort keeps rows of cohort; an empty cohort keeps every row
func ByCohort(v View, cohort survey.Cohort) View {
	if cohort == "" {
		return v
	}
	return v.filter(func(o survey.Observation) bool { return o.Cohort == cohort })
}

// ByContext keeps rows of ctx; an empty context keeps every row
func ByContext(v View, ctx survey.Context) View {
	if ctx == "" {
		return v
	}
	return v.filter(func(o survey.Observation) bool { return o.Context == ctx })
}

// Values extracts the measure from v. Combined stacks every behaviour value
// followed by every emotion value; nothing is averaged.
func Values(v View, m survey.Measure) []float64 {
	switch m {
	case survey.MeasureBehaviour:
		out := make([]float64, len(v.idx))
		for i, j := range v.idx {
			out[i] = v.table.Row(j).Behaviour
		}
		return out
	case survey.MeasureEmotion:
		out := make([]float64, len(v.idx))
		for i, j := range v.idx {
			out[i] = v.table.Row(j).Emotion
		}
		return out
	default:
		out := make([]float64, 0, 2*len(v.idx))
		out = append(out, Values(v, survey.MeasureBehaviour)...)
		return append(out, Values(v, survey.MeasureEmotion)...)
	}
}

// Partition is one resolved cell of the cohort x measure x context lattice
type Partition struct {
	Key    battery.PartitionKey
	view   View
	values []float64
}

// Rows returns the row indices the partition selects
func (p *Partition) Rows() []int { return p.view.Indices() }

// Values returns a copy of the partition's measure values
func (p *Partition) Values() []float64 {
	out := make([]float64, len(p.values))
	copy(out, p.values)
	return out
}

// N is the number of values (twice the row count for combined)
func (p *Partition) N() int { return len(p.values) }

type memoEntry struct {
	partition *Partition
	err       error
}

// Engine owns the long table for a run and resolves partitions from it.
// Each key is resolved once; later lookups return the same *Partition.
type Engine struct {
	table  *survey.LongTable
	root   View
	logger *internal.Logger

	mu   sync.Mutex
	memo map[battery.PartitionKey]memoEntry
}

// NewEngine creates an engine over table
func NewEngine(table *survey.LongTable, logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Engine{
		table:  table,
		root:   All(table),
		logger: logger.Component("partition"),
		memo:   make(map[battery.PartitionKey]memoEntry),
	}
}

// Table returns the long table the engine owns
func (e *Engine) Table() *survey.LongTable { return e.table }

// Partition resolves key, building it on first use
func (e *Engine) Partition(key battery.PartitionKey) (*Partition, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if m, ok := e.memo[key]; ok {
		return m.partition, m.err
	}
	p, err := e.build(key)
	e.memo[key] = memoEntry{partition: p, err: err}
	return p, err
}

// Resolve builds every key up front so workers only read
func (e *Engine) Resolve(keys []battery.PartitionKey) map[battery.PartitionKey]error {
	failures := make(map[battery.PartitionKey]error)
	for _, k := range keys {
		if _, err := e.Partition(k); err != nil {
			failures[k] = err
		}
	}
	e.logger.Debug("resolved %d partitions, %d failed", len(keys), len(failures))
	return failures
}

// Observations returns the rows of a cohort, or every row for an empty cohort
func (e *Engine) Observations(cohort survey.Cohort) []survey.Observation {
	return ByCohort(e.root, cohort).Observations()
}

func (e *Engine) build(key battery.PartitionKey) (*Partition, error) {
	if !key.Measure.Valid() {
		return nil, fmt.Errorf("partition %s: unknown measure %q", key, key.Measure)
	}
	if key.Context != "" && !key.Context.Valid() {
		return nil, fmt.Errorf("%w: partition %s", core.ErrUnknownContext, key)
	}

	view := ByContext(ByCohort(e.root, key.Cohort), key.Context)
	if view.Len() == 0 {
		return nil, core.NewPartitionEmptyError(key.String())
	}

	return &Partition{Key: key, view: view, values: Values(view, key.Measure)}, nil
}
