// Package dataset turns a raw questionnaire export into the filtered wide table
// the reshaper consumes.
//
// Steps, in order:
//  1. positional column rename
//  2. drop rows with any empty cell
//  3. drop subjects below the minimum age
//  4. translate numeric cohort and gender codes into labels
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"gocohort/domain/core"
	"gocohort/domain/report"
	"gocohort/domain/survey"
	"gocohort/internal"
	"gocohort/internal/errors"
)

// Canonical administrative column names
const (
	ColParticipant = "participant"
	ColAge         = "age"
	ColGender      = "gender"
	ColGroup       = "group"
)

// Options configures preprocessing
type Options struct {
	Columns     []string // positional rename; empty keeps the file headers
	Cohorts     [2]survey.Cohort
	CohortCodes map[string]string
	GenderCodes map[string]string
	MinAge      int
	Schema      survey.Schema
}

// Result is the preprocessed dataset plus what was filtered out
type Result struct {
	Table   *survey.WideTable
	Summary report.Preprocessing
	Hash    core.DatasetHash
}

// Preprocessor applies the ingestion filters
type Preprocessor struct {
	opts   Options
	logger *internal.Logger
}

// NewPreprocessor creates a preprocessor
func NewPreprocessor(opts Options, logger *internal.Logger) *Preprocessor {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Preprocessor{opts: opts, logger: logger.Component("dataset")}
}

// Build renames, filters and translates raw into a WideTable
func (p *Preprocessor) Build(raw *survey.RawTable) (*Result, error) {
	headers, err := p.rename(raw.Headers)
	if err != nil {
		return nil, err
	}
	if err := p.requireColumns(headers); err != nil {
		return nil, err
	}

	renamed := &survey.RawTable{Source: raw.Source, Headers: headers, Rows: raw.Rows}
	records := renamed.Records()

	summary := report.Preprocessing{RowsRead: len(records)}
	table := &survey.WideTable{Cohorts: p.opts.Cohorts, Schema: p.opts.Schema}
	seen := make(map[core.SubjectID]int)
	kept := make([]map[string]string, 0, len(records))

	for i, rec := range records {
		line := i + 2 // header is line 1

		if incomplete(rec) {
			summary.DroppedMissing++
			continue
		}

		age, err := parseAge(rec[ColAge])
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: %v", line, err))
		}
		if age < p.opts.MinAge {
			summary.DroppedAge++
			continue
		}

		subject, err := p.subject(rec, age)
		if err != nil {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: %v", line, err))
		}
		if prev, dup := seen[subject.ID]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d: participant %s already seen on row %d", line, subject.ID, prev))
		}
		seen[subject.ID] = line

		table.Subjects = append(table.Subjects, subject)
		kept = append(kept, rec)
	}

	summary.Subjects = len(table.Subjects)
	p.logger.Info("preprocessed %d rows: %d incomplete, %d below age %d, %d subjects kept",
		summary.RowsRead, summary.DroppedMissing, summary.DroppedAge, p.opts.MinAge, summary.Subjects)

	return &Result{Table: table, Summary: summary, Hash: core.ComputeDatasetHash(kept)}, nil
}

func (p *Preprocessor) rename(headers []string) ([]string, error) {
	if len(p.opts.Columns) == 0 {
		return headers, nil
	}
	if len(headers) != len(p.opts.Columns) {
		return nil, errors.InvalidInput(fmt.Sprintf(
			"input has %d columns, the positional rename expects %d", len(headers), len(p.opts.Columns)))
	}
	out := make([]string, len(p.opts.Columns))
	copy(out, p.opts.Columns)
	return out, nil
}

func (p *Preprocessor) requireColumns(headers []string) error {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		if present[h] {
			return errors.InvalidInput(fmt.Sprintf("duplicate column %q", h))
		}
		present[h] = true
	}

	required := append([]string{ColParticipant, ColAge, ColGender, ColGroup}, p.opts.Schema.ItemNames()...)
	var missing []string
	for _, col := range required {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.InvalidInput(fmt.Sprintf("missing columns: %s", strings.Join(missing, ", ")))
	}
	return nil
}

func (p *Preprocessor) subject(rec map[string]string, age int) (survey.Subject, error) {
	id, err := core.ParseSubjectID(rec[ColParticipant])
	if err != nil {
		return survey.Subject{}, err
	}

	cohort, err := p.cohort(rec[ColGroup])
	if err != nil {
		return survey.Subject{}, err
	}

	scores := make(map[string]float64, len(p.opts.Schema.Items))
	for _, item := range p.opts.Schema.Items {
		v, err := strconv.ParseFloat(rec[item.Name], 64)
		if err != nil {
			return survey.Subject{}, fmt.Errorf("%s: %q is not a number", item.Name, rec[item.Name])
		}
		scores[item.Name] = v
	}

	extra := make(map[string]string)
	for k, v := range rec {
		if k == ColParticipant || k == ColAge || k == ColGender || k == ColGroup {
			continue
		}
		if _, isItem := p.opts.Schema.Item(k); isItem {
			continue
		}
		extra[k] = v
	}

	return survey.Subject{
		ID:     id,
		Cohort: cohort,
		Gender: survey.Gender(translate(p.opts.GenderCodes, rec[ColGender])),
		Age:    age,
		Scores: scores,
		Extra:  extra,
	}, nil
}

// cohort accepts either a configured code or a cohort label
func (p *Preprocessor) cohort(raw string) (survey.Cohort, error) {
	label := survey.Cohort(translate(p.opts.CohortCodes, raw))
	if label == p.opts.Cohorts[0] || label == p.opts.Cohorts[1] {
		return label, nil
	}
	return "", fmt.Errorf("group %q is neither a cohort code nor a cohort label", raw)
}

// translate maps a code through codes; numeric codes like "1.0" match "1"
func translate(codes map[string]string, raw string) string {
	if label, ok := codes[raw]; ok {
		return label
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == float64(int64(f)) {
		if label, ok := codes[strconv.FormatInt(int64(f), 10)]; ok {
			return label
		}
	}
	return raw
}

func parseAge(raw string) (int, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("age %q is not a number", raw)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("age %q is not a whole number", raw)
	}
	return int(f), nil
}

func incomplete(rec map[string]string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) == "" || strings.EqualFold(v, "nan") || strings.EqualFold(v, "na") {
			return true
		}
	}
	return false
}
