package dataset

import (
	"testing"

	"gocohort/domain/core"
	"gocohort/domain/survey"
	"gocohort/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rawHeaders = []string{
	"ID", "Age", "Sex", "Grp",
	"B1", "B2", "B3", "B4", "E1", "E2", "E3", "E4",
	"Land", "Start", "End", "Total",
}

var canonical = []string{
	"participant", "age", "gender", "group",
	"behaviour_dom", "behaviour_nature", "behaviour_public", "behaviour_traffic",
	"emotion_dom", "emotion_nature", "emotion_public", "emotion_traffic",
	"country", "TIME_start", "TIME_end", "TIME_total",
}

func testOptions() Options {
	return Options{
		Columns:     canonical,
		Cohorts:     [2]survey.Cohort{"stroke", "control"},
		CohortCodes: map[string]string{"1": "stroke", "2": "control"},
		GenderCodes: map[string]string{"1": "female", "2": "male", "3": "other"},
		MinAge:      60,
		Schema:      survey.DefaultSchema(),
	}
}

func row(id, age, gender, group string) []string {
	return []string{id, age, gender, group, "1", "2", "3", "4", "2", "2", "1", "3", "DE", "t0", "t1", "120"}
}

func TestPreprocessor_Build(t *testing.T) {
	raw := &survey.RawTable{
		Headers: rawHeaders,
		Rows: [][]string{
			row("1", "65", "1", "1"),
			row("2", "59", "2", "2"),     // too young
			row("3", "", "2", "2"),       // incomplete
			row("4", "72.0", "2", "2.0"), // float-coded
			row("5", "80", "3", "stroke"),
		},
	}

	res, err := NewPreprocessor(testOptions(), nil).Build(raw)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Summary.RowsRead)
	assert.Equal(t, 1, res.Summary.DroppedMissing)
	assert.Equal(t, 1, res.Summary.DroppedAge)
	assert.Equal(t, 3, res.Summary.Subjects)
	assert.False(t, core.Hash(res.Hash).IsEmpty())

	subjects := res.Table.Subjects
	require.Len(t, subjects, 3)
	assert.Equal(t, survey.Cohort("stroke"), subjects[0].Cohort)
	assert.Equal(t, survey.Gender("female"), subjects[0].Gender)
	assert.Equal(t, 65, subjects[0].Age)
	assert.Equal(t, 4.0, subjects[0].Scores["behaviour_traffic"])
	assert.Equal(t, "DE", subjects[0].Extra["country"])
	assert.NotContains(t, subjects[0].Extra, "age")

	assert.Equal(t, survey.Cohort("control"), subjects[1].Cohort)
	assert.Equal(t, 72, subjects[1].Age)
	assert.Equal(t, survey.Gender("other"), subjects[2].Gender)
}

func TestPreprocessor_HashIgnoresFilteredRows(t *testing.T) {
	a := &survey.RawTable{Headers: rawHeaders, Rows: [][]string{row("1", "65", "1", "1"), row("2", "70", "2", "2")}}
	b := &survey.RawTable{Headers: rawHeaders, Rows: [][]string{row("2", "70", "2", "2"), row("9", "30", "1", "1"), row("1", "65", "1", "1")}}

	p := NewPreprocessor(testOptions(), nil)
	ra, err := p.Build(a)
	require.NoError(t, err)
	rb, err := p.Build(b)
	require.NoError(t, err)
	assert.Equal(t, ra.Hash, rb.Hash)
}

func TestPreprocessor_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  *survey.RawTable
		opts func(o *Options)
	}{
		{
			name: "column count mismatch",
			raw:  &survey.RawTable{Headers: rawHeaders[:10], Rows: [][]string{}},
		},
		{
			name: "unknown group",
			raw:  &survey.RawTable{Headers: rawHeaders, Rows: [][]string{row("1", "65", "1", "7")}},
		},
		{
			name: "non numeric score",
			raw: &survey.RawTable{Headers: rawHeaders, Rows: [][]string{
				{"1", "65", "1", "1", "x", "2", "3", "4", "2", "2", "1", "3", "DE", "t0", "t1", "120"},
			}},
		},
		{
			name: "duplicate participant",
			raw:  &survey.RawTable{Headers: rawHeaders, Rows: [][]string{row("1", "65", "1", "1"), row("1", "66", "1", "2")}},
		},
		{
			name: "missing item column without rename",
			raw:  &survey.RawTable{Headers: []string{"participant", "age", "gender", "group"}, Rows: [][]string{}},
			opts: func(o *Options) { o.Columns = nil },
		},
		{
			name: "fractional age",
			raw:  &survey.RawTable{Headers: rawHeaders, Rows: [][]string{row("1", "65.5", "1", "1")}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}
			_, err := NewPreprocessor(opts, nil).Build(tt.raw)
			require.Error(t, err)
			assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
		})
	}
}
