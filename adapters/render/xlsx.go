package render

import (
	"fmt"
	"io"
	"sort"

	"gocohort/domain/report"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook
const (
	SheetSummary      = "Summary"
	SheetDemographics = "Demographics"
	SheetComparisons  = "Comparisons"
	SheetCorrelations = "Correlations"
	SheetMedians      = "Item medians"
	SheetRisk         = "Risk perception"
)

// XLSXRenderer writes one worksheet per report section
type XLSXRenderer struct{}

// Format returns "xlsx"
func (XLSXRenderer) Format() string { return FormatXLSX }

// Render writes the workbook to w
func (XLSXRenderer) Render(w io.Writer, rep *report.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}

	m := rep.Manifest
	p := rep.Preprocessing
	summary := [][]interface{}{
		{"Field", "Value"},
		{"run_id", string(m.RunID)},
		{"created_at", m.CreatedAt.String()},
		{"cohorts", fmt.Sprintf("%s vs %s", rep.Cohorts[0], rep.Cohorts[1])},
		{"dataset_hash", m.DatasetHash.String()},
		{"battery_hash", m.BatteryHash.String()},
		{"result_hash", m.ResultHash.String()},
		{"correction", m.Correction},
		{"alpha", m.Alpha},
		{"code_version", m.CodeVersion},
		{"rows_read", p.RowsRead},
		{"dropped_incomplete", p.DroppedMissing},
		{"dropped_age", p.DroppedAge},
		{"subjects", p.Subjects},
		{"observations", p.Observations},
		{"failures", rep.Failures()},
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}

	demo := [][]interface{}{{"id", "label", "key", "value", "statistic", "p_value", "error"}}
	for _, d := range rep.Demographics {
		keys := make([]string, 0, len(d.Values))
		for k := range d.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if len(keys) == 0 {
			demo = append(demo, []interface{}{d.ID, d.Label, "", "", optional(d.Statistic), optional(d.PValue), d.ErrKind})
		}
		for _, k := range keys {
			demo = append(demo, []interface{}{d.ID, d.Label, k, d.Values[k], optional(d.Statistic), optional(d.PValue), d.ErrKind})
		}
	}
	if err := writeSheet(f, SheetDemographics, demo); err != nil {
		return err
	}

	cmp := [][]interface{}{{"id", "group", "kind", "left", "right", "direction", "method", "n1", "n2", "u", "p_value", "adjusted_p",
		"w_left", "p_left", "w_right", "p_right", "error"}}
	for _, c := range rep.Comparisons {
		row := []interface{}{string(c.ID), c.Group, string(c.Kind), c.Left.String(), c.Right.String(), string(c.Direction)}
		if c.Test != nil && !c.Failed() {
			row = append(row, c.Test.Method, c.Test.N1, c.Test.N2, c.Test.U, c.Test.PValue)
		} else {
			row = append(row, "", "", "", "", "")
		}
		row = append(row, optional(c.AdjustedP),
			normStat(c.NormLeft, c.NormLeft.W), normStat(c.NormLeft, c.NormLeft.PValue),
			normStat(c.NormRight, c.NormRight.W), normStat(c.NormRight, c.NormRight.PValue),
			c.ErrKind)
		cmp = append(cmp, row)
	}
	if err := writeSheet(f, SheetComparisons, cmp); err != nil {
		return err
	}

	cor := [][]interface{}{{"id", "cohort", "score", "n", "rho", "p_value", "adjusted_p", "error"}}
	for _, c := range rep.Correlations {
		row := []interface{}{string(c.ID), cohortOrAll(c.Cohort), string(c.Score), c.N}
		if c.Failed() {
			row = append(row, "", "")
		} else {
			row = append(row, c.Rho, c.PValue)
		}
		cor = append(cor, append(row, optional(c.AdjustedP), c.ErrKind))
	}
	if err := writeSheet(f, SheetCorrelations, cor); err != nil {
		return err
	}

	med := [][]interface{}{{"cohort", "item", "median"}}
	for _, m := range rep.Descriptives.ItemMedians {
		med = append(med, []interface{}{string(m.Cohort), m.Item, m.Median})
	}
	if err := writeSheet(f, SheetMedians, med); err != nil {
		return err
	}

	risk := [][]interface{}{{"cohort", "n", "behaviour_mean", "behaviour_std", "emotion_mean", "emotion_std", "composite_mean", "composite_percent"}}
	for _, r := range rep.Descriptives.RiskPerception {
		risk = append(risk, []interface{}{string(r.Cohort), r.N, r.BehaviourMean, r.BehaviourStd, r.EmotionMean, r.EmotionStd, r.CompositeMean, r.CompositePercent})
	}
	if err := writeSheet(f, SheetRisk, risk); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, rows [][]interface{}) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func optional(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func normStat(n report.NormalityResult, v float64) interface{} {
	if !n.OK() {
		return ""
	}
	return v
}
