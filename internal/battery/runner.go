package battery

import (
	"context"
	"time"

	"gocohort/domain/battery"
	"gocohort/domain/core"
	"gocohort/domain/report"
	"gocohort/internal"
	"gocohort/internal/partition"

	"golang.org/x/sync/errgroup"
)

// NormalityChecker runs the per-partition normality diagnostic
type NormalityChecker interface {
	Check(values []float64) (report.NormalityResult, error)
}

// ComparisonEngine runs two-sample comparisons and rank correlations
type ComparisonEngine interface {
	Compare(a, b []float64, dir battery.Direction) (report.TestResult, error)
	Correlate(x, y []float64) (rho, p float64, n int, err error)
}

// Outcome holds every record of one battery run, in plan order
type Outcome struct {
	Normality    map[battery.PartitionKey]report.NormalityResult
	Comparisons  []report.ComparisonRecord
	Correlations []report.CorrelationRecord
}

// Runner executes a plan against a partition engine
type Runner struct {
	checker  NormalityChecker
	comparer ComparisonEngine
	workers  int
	logger   *internal.Logger
}

// NewRunner creates a runner; workers <= 1 runs sequentially
func NewRunner(checker NormalityChecker, comparer ComparisonEngine, workers int, logger *internal.Logger) *Runner {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if workers < 1 {
		workers = 1
	}
	return &Runner{checker: checker, comparer: comparer, workers: workers, logger: logger.Component("battery")}
}

// Run executes normality checks, comparisons and correlations. Individual
// failures are recorded on their record; only cancellation aborts the run.
func (r *Runner) Run(ctx context.Context, plan *battery.Plan, engine *partition.Engine) (*Outcome, error) {
	start := time.Now()

	keys := plan.Keys()
	failed := engine.Resolve(keys)
	for k, err := range failed {
		r.logger.Warn("partition %s unavailable: %v", k, err)
	}

	normality := make([]report.NormalityResult, len(keys))
	if err := r.each(ctx, len(keys), func(i int) {
		normality[i] = r.checkPartition(engine, keys[i])
	}); err != nil {
		return nil, err
	}
	normByKey := make(map[battery.PartitionKey]report.NormalityResult, len(keys))
	for i, k := range keys {
		normByKey[k] = normality[i]
	}

	comparisons := make([]report.ComparisonRecord, len(plan.Comparisons))
	if err := r.each(ctx, len(plan.Comparisons), func(i int) {
		comparisons[i] = r.compare(engine, plan.Comparisons[i], normByKey)
	}); err != nil {
		return nil, err
	}

	correlations := make([]report.CorrelationRecord, len(plan.Correlations))
	if err := r.each(ctx, len(plan.Correlations), func(i int) {
		correlations[i] = r.correlate(engine, plan.Correlations[i])
	}); err != nil {
		return nil, err
	}

	r.logger.Info("battery finished: %d partitions, %d comparisons, %d correlations in %s (workers=%d)",
		len(keys), len(comparisons), len(correlations), time.Since(start), r.workers)

	return &Outcome{Normality: normByKey, Comparisons: comparisons, Correlations: correlations}, nil
}

// each runs fn for 0..n-1, sequentially or on a bounded errgroup.
// Tasks never fail; the group only carries cancellation.
func (r *Runner) each(ctx context.Context, n int, fn func(i int)) error {
	if r.workers <= 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(i)
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) checkPartition(engine *partition.Engine, key battery.PartitionKey) report.NormalityResult {
	p, err := engine.Partition(key)
	if err != nil {
		return report.NormalityResult{Partition: key.String(), ErrKind: core.ErrorKind(err), Err: err.Error()}
	}

	res, err := r.checker.Check(p.Values())
	res.Partition = key.String()
	res.N = p.N()
	if err != nil {
		res.ErrKind = core.ErrorKind(err)
		res.Err = err.Error()
	}
	return res
}

func (r *Runner) compare(engine *partition.Engine, spec battery.ComparisonSpec, norm map[battery.PartitionKey]report.NormalityResult) report.ComparisonRecord {
	rec := report.ComparisonRecord{
		ID:        spec.ID,
		Group:     spec.Group,
		Kind:      spec.Kind,
		Label:     spec.Label,
		Left:      spec.Left,
		Right:     spec.Right,
		Direction: spec.Direction,
		NormLeft:  norm[spec.Left],
		NormRight: norm[spec.Right],
	}

	left, err := engine.Partition(spec.Left)
	if err != nil {
		return r.fail(rec, err)
	}
	right, err := engine.Partition(spec.Right)
	if err != nil {
		return r.fail(rec, err)
	}

	res, err := r.comparer.Compare(left.Values(), right.Values(), spec.Direction)
	if err != nil {
		return r.fail(rec, err)
	}
	rec.Test = &res
	return rec
}

func (r *Runner) fail(rec report.ComparisonRecord, err error) report.ComparisonRecord {
	rec.ErrKind = core.ErrorKind(err)
	rec.Err = err.Error()
	if core.IsRecoverable(err) {
		r.logger.Warn("comparison %s failed: %v", rec.ID, err)
	} else {
		r.logger.Error("comparison %s failed: %v", rec.ID, err)
	}
	return rec
}

func (r *Runner) correlate(engine *partition.Engine, spec battery.CorrelationSpec) report.CorrelationRecord {
	rec := report.CorrelationRecord{ID: spec.ID, Label: spec.Label, Cohort: spec.Cohort, Score: spec.Score}

	rows := engine.Observations(spec.Cohort)
	if len(rows) == 0 {
		err := core.NewPartitionEmptyError(string(spec.ID))
		rec.ErrKind, rec.Err = core.ErrorKind(err), err.Error()
		return rec
	}

	ages := make([]float64, len(rows))
	scores := make([]float64, len(rows))
	for i, o := range rows {
		ages[i] = float64(o.Age)
		scores[i] = spec.Score.Of(o)
	}

	rho, p, n, err := r.comparer.Correlate(ages, scores)
	rec.N = n
	if err != nil {
		rec.ErrKind, rec.Err = core.ErrorKind(err), err.Error()
		r.logger.Warn("correlation %s failed: %v", spec.ID, err)
		return rec
	}
	rec.Rho, rec.PValue = rho, p
	return rec
}
