package render

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"gocohort/domain/core"
	"gocohort/domain/report"
	"gocohort/domain/survey"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MarkdownRenderer writes the report as GitHub-flavoured markdown tables
type MarkdownRenderer struct {
	title cases.Caser
}

// NewMarkdownRenderer creates a markdown renderer
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{title: cases.Title(language.English)}
}

// Format returns "markdown"
func (r *MarkdownRenderer) Format() string { return FormatMarkdown }

// Render writes rep to w
func (r *MarkdownRenderer) Render(w io.Writer, rep *report.Report) error {
	var b strings.Builder
	r.write(&b, rep)
	_, err := io.WriteString(w, b.String())
	return err
}

func (r *MarkdownRenderer) write(b *strings.Builder, rep *report.Report) {
	m := rep.Manifest
	alpha := m.Alpha

	fmt.Fprintf(b, "# %s vs %s\n\n", r.title.String(string(rep.Cohorts[0])), r.title.String(string(rep.Cohorts[1])))
	fmt.Fprintf(b, "- Run: `%s`\n", m.RunID)
	fmt.Fprintf(b, "- Created: %s\n", m.CreatedAt)
	fmt.Fprintf(b, "- Dataset: `%s`\n", core.Hash(m.DatasetHash).Short())
	fmt.Fprintf(b, "- Battery: `%s`\n", core.Hash(m.BatteryHash).Short())
	fmt.Fprintf(b, "- Results: `%s`\n", core.Hash(m.ResultHash).Short())
	fmt.Fprintf(b, "- Correction: %s, alpha %s\n", m.Correction, num(alpha))
	fmt.Fprintf(b, "- Version: %s\n\n", m.CodeVersion)

	p := rep.Preprocessing
	b.WriteString("## Preprocessing\n\n")
	b.WriteString("| Rows read | Incomplete | Below age | Subjects | Observations |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(b, "| %d | %d | %d | %d | %d |\n\n", p.RowsRead, p.DroppedMissing, p.DroppedAge, p.Subjects, p.Observations)

	b.WriteString("## Demographics\n\n")
	b.WriteString("| ID | Label | Values | Statistic | p |\n")
	b.WriteString("|---|---|---|---:|---:|\n")
	for _, d := range rep.Demographics {
		values := failure(d.ErrKind)
		if values == "" {
			values = keyValues(d.Values)
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s |\n", d.ID, d.Label, values, optNum(d.Statistic), optP(d.PValue, alpha))
	}
	b.WriteString("\n")

	b.WriteString("## Comparisons\n\n")
	b.WriteString("| ID | Direction | n1 | n2 | U | p | adj. p | Normality left | Normality right |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---|---|\n")
	for _, c := range rep.Comparisons {
		n1, n2, u, pv := "-", "-", failure(c.ErrKind), "-"
		if c.Test != nil && !c.Failed() {
			n1, n2 = strconv.Itoa(c.Test.N1), strconv.Itoa(c.Test.N2)
			u, pv = num(c.Test.U), pval(c.Test.PValue, alpha)
		}
		fmt.Fprintf(b, "| `%s` | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			c.ID, c.Direction, n1, n2, u, pv, optP(c.AdjustedP, alpha), normality(c.NormLeft), normality(c.NormRight))
	}
	b.WriteString("\n")

	b.WriteString("## Correlations\n\n")
	b.WriteString("| ID | Cohort | n | rho | p | adj. p |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|\n")
	for _, c := range rep.Correlations {
		rho, pv := failure(c.ErrKind), "-"
		if !c.Failed() {
			rho, pv = num(c.Rho), pval(c.PValue, alpha)
		}
		fmt.Fprintf(b, "| `%s` | %s | %d | %s | %s | %s |\n", c.ID, cohortOrAll(c.Cohort), c.N, rho, pv, optP(c.AdjustedP, alpha))
	}
	b.WriteString("\n")

	b.WriteString("## Item medians\n\n")
	fmt.Fprintf(b, "| Item | %s | %s |\n", rep.Cohorts[0], rep.Cohorts[1])
	b.WriteString("|---|---:|---:|\n")
	for _, row := range medianRows(rep) {
		fmt.Fprintf(b, "| %s | %s | %s |\n", row.item, row.values[0], row.values[1])
	}
	b.WriteString("\n")

	b.WriteString("## Risk perception\n\n")
	b.WriteString("| Cohort | n | Behaviour | Emotion | Composite | Composite % |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|\n")
	for _, rp := range rep.Descriptives.RiskPerception {
		fmt.Fprintf(b, "| %s | %d | %s (%s) | %s (%s) | %s | %s |\n", rp.Cohort, rp.N,
			num(rp.BehaviourMean), num(rp.BehaviourStd), num(rp.EmotionMean), num(rp.EmotionStd),
			num(rp.CompositeMean), num(rp.CompositePercent))
	}
}

type medianRow struct {
	item   string
	values [2]string
}

// medianRows pivots item medians into one row per item, items in first-seen order
func medianRows(rep *report.Report) []medianRow {
	var rows []medianRow
	index := make(map[string]int)
	for _, m := range rep.Descriptives.ItemMedians {
		i, ok := index[m.Item]
		if !ok {
			i = len(rows)
			index[m.Item] = i
			rows = append(rows, medianRow{item: m.Item, values: [2]string{"-", "-"}})
		}
		for c, cohort := range rep.Cohorts {
			if m.Cohort == cohort {
				rows[i].values[c] = num(m.Median)
			}
		}
	}
	return rows
}

// num rounds to four decimals and drops trailing zeros
func num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
}

// pval formats a p-value and marks it when below alpha
func pval(p, alpha float64) string {
	s := num(p)
	if p < 1e-4 {
		s = "<0.0001"
	}
	if alpha > 0 && p < alpha {
		s += " *"
	}
	return s
}

func optNum(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}

func optP(v *float64, alpha float64) string {
	if v == nil {
		return "-"
	}
	return pval(*v, alpha)
}

func failure(kind string) string {
	if kind == "" {
		return ""
	}
	return "error: " + kind
}

func normality(n report.NormalityResult) string {
	if !n.OK() {
		return n.ErrKind
	}
	return fmt.Sprintf("W=%s p=%s", num(n.W), num(n.PValue))
}

func keyValues(values map[string]float64) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%s", k, num(values[k]))
	}
	return strings.Join(parts, ", ")
}

func cohortOrAll(c survey.Cohort) string {
	if c == "" {
		return "all"
	}
	return string(c)
}
