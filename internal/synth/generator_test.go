package synth

import (
	"context"
	"path/filepath"
	"testing"

	"gocohort/adapters/excel"
	"gocohort/internal/analysis"
	"gocohort/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate(DefaultConfig())
	require.NoError(t, err)
	b, err := Generate(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, a.Rows, b.Rows)

	cfg := DefaultConfig()
	cfg.Seed = 7
	c, err := Generate(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Rows, c.Rows)
}

func TestGenerate_Layout(t *testing.T) {
	cfg := DefaultConfig()
	ds, err := Generate(cfg)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultColumns, ds.Headers)
	require.Len(t, ds.Rows, 2*cfg.PerCohort)
	for i, row := range ds.Rows {
		assert.Len(t, row, len(ds.Headers))
		assert.Contains(t, []string{"1", "2"}, row[3])
		for j, s := range ds.Scores[i] {
			if s == 0 {
				assert.Equal(t, "", row[4+j])
				continue
			}
			assert.GreaterOrEqual(t, s, 1)
			assert.LessOrEqual(t, s, cfg.ScoreMax)
		}
	}
}

func TestGenerate_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PerCohort = 0
	_, err := Generate(cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.MissingRate = 1
	_, err = Generate(cfg)
	assert.Error(t, err)
}

func TestGenerate_RoundTripThroughPipeline(t *testing.T) {
	dir := t.TempDir()
	ds, err := Generate(DefaultConfig())
	require.NoError(t, err)

	for _, name := range []string{"survey.csv", "survey.xlsx"} {
		path := filepath.Join(dir, name)
		if filepath.Ext(name) == ".csv" {
			require.NoError(t, WriteCSV(path, ds))
		} else {
			require.NoError(t, WriteXLSX(path, ds))
		}

		cfg := config.Default()
		reader := excel.NewDataReader(path, "", nil)
		rep, err := analysis.NewPipeline(cfg, nil).Run(context.Background(), reader)
		require.NoError(t, err, name)

		assert.Equal(t, len(ds.Rows), rep.Preprocessing.RowsRead, name)
		assert.Equal(t, ds.Kept(cfg.Study.MinAge), rep.Preprocessing.Subjects, name)
		assert.Equal(t, 4*rep.Preprocessing.Subjects, rep.Preprocessing.Observations, name)
		assert.Len(t, rep.Comparisons, 53, name)
	}
}
