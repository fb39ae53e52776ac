package survey

import (
	"fmt"
	"sort"

	"gocohort/domain/core"
)

// Cohort is one of the two compared subject groups
type Cohort string

// Gender label after code translation
type Gender string

// Context is the situational category a rating was collected under
type Context string

const (
	ContextDomestic Context = "domestic"
	ContextNature   Context = "nature"
	ContextPublic   Context = "public"
	ContextTraffic  Context = "traffic"
)

// Contexts lists the four contexts in canonical order
var Contexts = []Context{ContextDomestic, ContextNature, ContextPublic, ContextTraffic}

// Index returns the canonical position of the context, or -1
func (c Context) Index() int {
	for i, ctx := range Contexts {
		if ctx == c {
			return i
		}
	}
	return -1
}

// Valid reports whether c is one of the four contexts
func (c Context) Valid() bool { return c.Index() >= 0 }

// Family distinguishes the two item families
type Family string

const (
	FamilyBehaviour Family = "behaviour"
	FamilyEmotion   Family = "emotion"
)

// Measure selects which values a partition carries
type Measure string

const (
	MeasureBehaviour Measure = "behaviour"
	MeasureEmotion   Measure = "emotion"
	MeasureCombined  Measure = "combined"
)

// Measures lists measures in battery order
var Measures = []Measure{MeasureCombined, MeasureBehaviour, MeasureEmotion}

// Valid reports whether m is a known measure
func (m Measure) Valid() bool {
	return m == MeasureBehaviour || m == MeasureEmotion || m == MeasureCombined
}

// ItemColumn describes one wide survey column
type ItemColumn struct {
	Name   string `json:"name" yaml:"name"`
	Family Family `json:"family" yaml:"family"`
	Code   string `json:"code" yaml:"code"`
}

// Schema describes the item columns and how each family's codes map onto contexts
type Schema struct {
	Items    []ItemColumn                  `json:"items" yaml:"items"`
	Relabels map[Family]map[string]Context `json:"relabels" yaml:"relabels"`
}

// DefaultSchema returns the eight-item questionnaire layout
func DefaultSchema() Schema {
	codes := []string{"dom", "nature", "public", "traffic"}
	relabel := map[string]Context{
		"dom":     ContextDomestic,
		"nature":  ContextNature,
		"public":  ContextPublic,
		"traffic": ContextTraffic,
	}

	items := make([]ItemColumn, 0, 8)
	for _, fam := range []Family{FamilyBehaviour, FamilyEmotion} {
		for _, code := range codes {
			items = append(items, ItemColumn{
				Name:   fmt.Sprintf("%s_%s", fam, code),
				Family: fam,
				Code:   code,
			})
		}
	}

	return Schema{
		Items: items,
		Relabels: map[Family]map[string]Context{
			FamilyBehaviour: relabel,
			FamilyEmotion:   copyRelabel(relabel),
		},
	}
}

func copyRelabel(m map[string]Context) map[string]Context {
	out := make(map[string]Context, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// ItemNames returns the item column names in schema order
func (s Schema) ItemNames() []string {
	names := make([]string, len(s.Items))
	for i, it := range s.Items {
		names[i] = it.Name
	}
	return names
}

// Item returns the column description for name
func (s Schema) Item(name string) (ItemColumn, bool) {
	for _, it := range s.Items {
		if it.Name == name {
			return it, true
		}
	}
	return ItemColumn{}, false
}

// ContextOf relabels an item column to its context
func (s Schema) ContextOf(item ItemColumn) (Context, error) {
	ctx, ok := s.Relabels[item.Family][item.Code]
	if !ok {
		return "", fmt.Errorf("%w: %s/%s", core.ErrUnknownContext, item.Family, item.Code)
	}
	return ctx, nil
}

// Subject is one participant row of the wide table
type Subject struct {
	ID     core.SubjectID     `json:"id"`
	Cohort Cohort             `json:"cohort"`
	Gender Gender             `json:"gender"`
	Age    int                `json:"age"`
	Scores map[string]float64 `json:"scores"`
	Extra  map[string]string  `json:"extra,omitempty"`
}

// WideTable is the filtered subject table handed to the reshaper
type WideTable struct {
	Cohorts  [2]Cohort
	Schema   Schema
	Subjects []Subject
}

// CohortSubjects returns subjects of a cohort in table order
func (w *WideTable) CohortSubjects(c Cohort) []Subject {
	out := make([]Subject, 0, len(w.Subjects))
	for _, s := range w.Subjects {
		if s.Cohort == c {
			out = append(out, s)
		}
	}
	return out
}

// Observation is one (subject, context) row of the long table
type Observation struct {
	SubjectID core.SubjectID `json:"subject_id"`
	Cohort    Cohort         `json:"cohort"`
	Age       int            `json:"age"`
	Context   Context        `json:"context"`
	Behaviour float64        `json:"behaviour"`
	Emotion   float64        `json:"emotion"`
}

// Composite is behaviour + emotion
func (o Observation) Composite() float64 {
	return o.Behaviour + o.Emotion
}

// LongTable is the reshaped table; rows are never mutated after construction
type LongTable struct {
	Cohorts [2]Cohort
	rows    []Observation
}

// NewLongTable sorts rows by subject id then canonical context order
func NewLongTable(cohorts [2]Cohort, rows []Observation) *LongTable {
	sorted := make([]Observation, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].SubjectID != sorted[j].SubjectID {
			return lessSubject(sorted[i].SubjectID, sorted[j].SubjectID)
		}
		return sorted[i].Context.Index() < sorted[j].Context.Index()
	})
	return &LongTable{Cohorts: cohorts, rows: sorted}
}

// Len returns the number of observations
func (t *LongTable) Len() int { return len(t.rows) }

// Row returns observation i
func (t *LongTable) Row(i int) Observation { return t.rows[i] }

// Rows returns a copy of all observations
func (t *LongTable) Rows() []Observation {
	out := make([]Observation, len(t.rows))
	copy(out, t.rows)
	return out
}

// SubjectCount returns the number of distinct subjects
func (t *LongTable) SubjectCount() int {
	seen := make(map[core.SubjectID]struct{})
	for _, r := range t.rows {
		seen[r.SubjectID] = struct{}{}
	}
	return len(seen)
}

// lessSubject orders numeric ids numerically and everything else lexically
func lessSubject(a, b core.SubjectID) bool {
	na, okA := numericID(string(a))
	nb, okB := numericID(string(b))
	switch {
	case okA && okB:
		if na != nb {
			return na < nb
		}
		return a < b
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

func numericID(s string) (int64, bool) {
	if s == "" || len(s) > 18 {
		return 0, false
	}
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
		n = n*10 + int64(r-'0')
	}
	return n, true
}

// SortSubjectIDs sorts ids with the same ordering the long table uses
func SortSubjectIDs(ids []core.SubjectID) {
	sort.SliceStable(ids, func(i, j int) bool { return lessSubject(ids[i], ids[j]) })
}
