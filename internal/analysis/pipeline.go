package analysis

import (
	"context"
	"fmt"
	"time"

	"gocohort/domain/core"
	"gocohort/domain/report"
	"gocohort/domain/run"
	"gocohort/domain/survey"
	"gocohort/internal"
	runner "gocohort/internal/battery"
	"gocohort/internal/config"
	"gocohort/internal/dataset"
	"gocohort/internal/errors"
	"gocohort/internal/partition"
	"gocohort/internal/reshape"
	"gocohort/ports"
)

// Pipeline runs one study end to end: preprocess, reshape, partition,
// battery, aggregation, supplementary tables and the run manifest.
type Pipeline struct {
	cfg    *config.Config
	logger *internal.Logger
}

// NewPipeline creates a pipeline for a validated configuration
func NewPipeline(cfg *config.Config, logger *internal.Logger) *Pipeline {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Cohorts returns the configured cohort pair
func (p *Pipeline) Cohorts() [2]survey.Cohort {
	return [2]survey.Cohort{survey.Cohort(p.cfg.Study.Cohorts[0]), survey.Cohort(p.cfg.Study.Cohorts[1])}
}

// Run reads the survey through reader and analyzes it
func (p *Pipeline) Run(ctx context.Context, reader ports.SurveyReader) (*report.Report, error) {
	raw, err := reader.ReadSurvey(ctx)
	if err != nil {
		return nil, err
	}

	pre := dataset.NewPreprocessor(dataset.Options{
		Columns:     p.cfg.Input.Columns,
		Cohorts:     p.Cohorts(),
		CohortCodes: p.cfg.Study.CohortCodes,
		GenderCodes: p.cfg.Study.GenderCodes,
		MinAge:      p.cfg.Study.MinAge,
		Schema:      survey.DefaultSchema(),
	}, p.logger)

	ds, err := pre.Build(raw)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, ds)
}

// Analyze runs everything after preprocessing. A reshape integrity failure
// aborts; per-record failures are carried in the report.
func (p *Pipeline) Analyze(ctx context.Context, ds *dataset.Result) (*report.Report, error) {
	start := time.Now()
	log := p.logger.Component("pipeline")

	correction, err := ParseCorrection(p.cfg.Analysis.Correction)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	table := ds.Table
	long, err := reshape.NewReshaper(table.Schema, p.logger).Reshape(table)
	if err != nil {
		return nil, errors.ReshapeIntegrity(err)
	}

	plan, err := runner.Build(p.Cohorts(), survey.Cohort(p.cfg.Study.ExpectedHigher))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build battery")
	}

	hash := ds.Hash
	if hash == "" {
		hash = tableHash(table)
	}
	manifest := run.NewManifest(core.NewRunID(), hash, plan.Hash(), string(correction), p.cfg.Analysis.Alpha, config.CodeVersion())
	if err := manifest.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid run manifest")
	}
	log.Info("run %s: dataset %s, battery %s", manifest.RunID, core.Hash(manifest.DatasetHash).Short(), core.Hash(manifest.BatteryHash).Short())

	engine := partition.NewEngine(long, p.logger)
	out, err := runner.NewRunner(NewNormalityChecker(), NewComparisonEngine(), p.cfg.Analysis.Workers, p.logger).Run(ctx, plan, engine)
	if err != nil {
		return nil, err
	}

	agg := NewResultAggregator(plan)
	if err := agg.AddOutcome(out); err != nil {
		return nil, errors.Wrap(err, "failed to aggregate battery")
	}
	if missing := agg.Missing(); len(missing) > 0 {
		return nil, errors.InternalError(fmt.Sprintf("battery incomplete: %d records missing", len(missing)))
	}
	agg.ApplyCorrection(correction)
	manifest.ResultHash = agg.ResultHash()

	medians, err := ItemMedians(table)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute item medians")
	}
	risk, err := RiskPerceptions(long, p.cfg.Study.ScoreMax)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute risk perception")
	}

	summary := ds.Summary
	summary.Subjects = len(table.Subjects)
	summary.Observations = long.Len()

	rep := &report.Report{
		Manifest:      *manifest,
		Cohorts:       p.Cohorts(),
		Preprocessing: summary,
		Demographics:  Demographics(table),
		Comparisons:   agg.Comparisons(),
		Correlations:  agg.Correlations(),
		Descriptives:  report.Descriptives{ItemMedians: medians, RiskPerception: risk},
	}

	if failed := agg.Failures(); len(failed) > 0 {
		log.Warn("%d battery records failed", len(failed))
	}
	log.Info("analysis finished in %s", time.Since(start))
	return rep, nil
}

// tableHash fingerprints a wide table that did not come through preprocessing
func tableHash(table *survey.WideTable) core.DatasetHash {
	rows := make([]map[string]string, 0, len(table.Subjects))
	for _, s := range table.Subjects {
		row := map[string]string{
			"participant": s.ID.String(),
			"group":       string(s.Cohort),
			"gender":      string(s.Gender),
			"age":         fmt.Sprintf("%d", s.Age),
		}
		for k, v := range s.Scores {
			row[k] = fmt.Sprintf("%g", v)
		}
		rows = append(rows, row)
	}
	return core.ComputeDatasetHash(rows)
}
