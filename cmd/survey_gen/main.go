package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gocohort/internal/synth"
)

func main() {
	out := flag.String("out", "survey.csv", "output file path")
	perCohort := flag.Int("per-cohort", 40, "subjects per cohort")
	format := flag.String("format", "", "output format: csv or xlsx (default inferred from -out)")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	shift := flag.Float64("shift", 0.6, "latent score shift of group 1")
	missing := flag.Float64("missing", 0.05, "fraction of rows with a blank item")
	underage := flag.Float64("underage", 0.05, "fraction of rows below the minimum age")
	start := flag.String("start", "2022-07-01", "first response date (YYYY-MM-DD)")
	flag.Parse()

	startDate, err := time.ParseInLocation("2006-01-02", *start, time.UTC)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -start (expected YYYY-MM-DD):", err)
		os.Exit(2)
	}

	fmtName := strings.ToLower(strings.TrimSpace(*format))
	if fmtName == "" {
		switch strings.ToLower(filepath.Ext(*out)) {
		case ".xlsx":
			fmtName = "xlsx"
		default:
			fmtName = "csv"
		}
	}

	cfg := synth.DefaultConfig()
	cfg.PerCohort = *perCohort
	cfg.Seed = *seed
	cfg.Shift = *shift
	cfg.MissingRate = *missing
	cfg.UnderageRate = *underage
	cfg.StartDate = startDate.Add(9 * time.Hour)

	ds, err := synth.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error generating dataset:", err)
		os.Exit(2)
	}

	switch fmtName {
	case "csv":
		err = synth.WriteCSV(*out, ds)
	case "xlsx":
		err = synth.WriteXLSX(*out, ds)
	default:
		fmt.Fprintln(os.Stderr, "unsupported format:", fmtName)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", fmtName, err)
		os.Exit(1)
	}

	fmt.Printf("Survey written: %s\n", *out)
	fmt.Printf("Rows: %d | complete and of age: %d\n", len(ds.Rows), ds.Kept(cfg.MinAge))
}
