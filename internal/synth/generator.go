// Package synth writes deterministic questionnaire exports in the raw
// numeric-coded layout, for demos and end-to-end tests.
package synth

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"gocohort/internal/config"

	"github.com/xuri/excelize/v2"
)

// Dataset is a generated export plus the numeric truth behind it
type Dataset struct {
	Headers []string
	Rows    [][]string

	Groups  []int // 1 or 2, per row
	Ages    []int
	Scores  [][8]int // zero where the cell was blanked
	Blanked []bool
}

// Config controls the generator
type Config struct {
	PerCohort int
	Seed      int64
	StartDate time.Time
	ScoreMax  int

	// Shift raises group 1 latent scores; 0 means no cohort effect
	Shift float64

	// Fraction of rows with one blank item, and of rows below the age cutoff
	MissingRate  float64
	UnderageRate float64
	MinAge       int
}

// DefaultConfig returns a 40+40 export with a moderate cohort effect
func DefaultConfig() Config {
	return Config{
		PerCohort:    40,
		Seed:         42,
		StartDate:    time.Date(2022, 7, 1, 9, 0, 0, 0, time.UTC),
		ScoreMax:     4,
		Shift:        0.6,
		MissingRate:  0.05,
		UnderageRate: 0.05,
		MinAge:       60,
	}
}

var countries = []string{"DE", "AT", "CH", "NL"}

// Generate builds the export. Rows are interleaved by group so the file
// order does not reveal the cohort.
func Generate(cfg Config) (*Dataset, error) {
	if cfg.PerCohort <= 0 {
		return nil, fmt.Errorf("per-cohort count must be > 0")
	}
	if cfg.ScoreMax < 2 {
		return nil, fmt.Errorf("score max must be >= 2")
	}
	if cfg.MissingRate < 0 || cfg.MissingRate >= 1 || cfg.UnderageRate < 0 || cfg.UnderageRate >= 1 {
		return nil, fmt.Errorf("rates must be in [0,1)")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	n := 2 * cfg.PerCohort
	ds := &Dataset{Headers: append([]string(nil), config.DefaultColumns...)}

	for i := 0; i < n; i++ {
		group := 1 + i%2

		age := cfg.MinAge + rng.Intn(30)
		if rng.Float64() < cfg.UnderageRate {
			age = cfg.MinAge - 1 - rng.Intn(20)
		}

		// latent risk perception per subject, contexts vary around it
		latent := 1 + rng.Float64()*float64(cfg.ScoreMax-1)
		if group == 1 {
			latent += cfg.Shift
		}

		var scores [8]int
		for j := range scores {
			v := latent + rng.NormFloat64()*0.8
			scores[j] = clamp(int(math.Round(v)), 1, cfg.ScoreMax)
		}

		blank := -1
		if rng.Float64() < cfg.MissingRate {
			blank = rng.Intn(len(scores))
			scores[blank] = 0
		}

		gender := 1 + rng.Intn(2)
		if rng.Float64() < 0.03 {
			gender = 3
		}

		start := cfg.StartDate.Add(time.Duration(i*17) * time.Minute)
		took := 120 + rng.Intn(600)
		end := start.Add(time.Duration(took) * time.Second)

		row := make([]string, 0, len(ds.Headers))
		row = append(row, strconv.Itoa(i+1), strconv.Itoa(age), strconv.Itoa(gender), strconv.Itoa(group))
		for j, s := range scores {
			if j == blank {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.Itoa(s))
		}
		row = append(row,
			countries[rng.Intn(len(countries))],
			start.Format("2006-01-02 15:04:05"),
			end.Format("2006-01-02 15:04:05"),
			strconv.Itoa(took),
		)

		ds.Rows = append(ds.Rows, row)
		ds.Groups = append(ds.Groups, group)
		ds.Ages = append(ds.Ages, age)
		ds.Scores = append(ds.Scores, scores)
		ds.Blanked = append(ds.Blanked, blank >= 0)
	}
	return ds, nil
}

// Kept counts the rows that survive the completeness and age filters
func (ds *Dataset) Kept(minAge int) int {
	n := 0
	for i := range ds.Rows {
		if !ds.Blanked[i] && ds.Ages[i] >= minAge {
			n++
		}
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func WriteCSV(path string, ds *Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(ds.Headers); err != nil {
		return err
	}
	for _, row := range ds.Rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteXLSX writes the export to the first sheet; numeric cells are stored as numbers
func WriteXLSX(path string, ds *Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range ds.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range ds.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			var value interface{} = v
			if n, err := strconv.Atoi(v); err == nil {
				value = n
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.SaveAs(path)
}
