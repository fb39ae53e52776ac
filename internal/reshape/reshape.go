package reshape

import (
	"fmt"
	"sort"

	"gocohort/domain/core"
	"gocohort/domain/survey"
	"gocohort/internal"
)

// MeltedRow is one (subject, item) cell of the wide table
type MeltedRow struct {
	SubjectID core.SubjectID
	Cohort    survey.Cohort
	Age       int
	Item      survey.ItemColumn
	Value     float64
}

// FamilyRow is a melted row relabeled to its context within one item family
type FamilyRow struct {
	SubjectID core.SubjectID
	Cohort    survey.Cohort
	Age       int
	Context   survey.Context
	Value     float64
}

type joinKey struct {
	subject core.SubjectID
	cohort  survey.Cohort
	age     int
	context survey.Context
}

func (f FamilyRow) key() joinKey {
	return joinKey{subject: f.SubjectID, cohort: f.Cohort, age: f.Age, context: f.Context}
}

// Reshaper turns the wide subject table into the long observation table
type Reshaper struct {
	schema survey.Schema
	logger *internal.Logger
}

// NewReshaper creates a reshaper for schema
func NewReshaper(schema survey.Schema, logger *internal.Logger) *Reshaper {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Reshaper{schema: schema, logger: logger.Component("reshape")}
}

// Project drops administrative columns; scores outside the schema are removed too
func (r *Reshaper) Project(subjects []survey.Subject) []survey.Subject {
	out := make([]survey.Subject, len(subjects))
	for i, s := range subjects {
		scores := make(map[string]float64, len(r.schema.Items))
		for _, item := range r.schema.Items {
			if v, ok := s.Scores[item.Name]; ok {
				scores[item.Name] = v
			}
		}
		out[i] = survey.Subject{ID: s.ID, Cohort: s.Cohort, Gender: s.Gender, Age: s.Age, Scores: scores}
	}
	return out
}

// Melt emits one row per (subject, item), subjects in id order and items in schema order
func (r *Reshaper) Melt(subjects []survey.Subject) ([]MeltedRow, error) {
	ordered := make([]survey.Subject, len(subjects))
	copy(ordered, subjects)
	ids := make([]core.SubjectID, len(ordered))
	for i, s := range ordered {
		ids[i] = s.ID
	}
	survey.SortSubjectIDs(ids)
	pos := make(map[core.SubjectID]int, len(ids))
	for i, id := range ids {
		pos[id] = i
	}
	sort.SliceStable(ordered, func(i, j int) bool { return pos[ordered[i].ID] < pos[ordered[j].ID] })

	rows := make([]MeltedRow, 0, len(ordered)*len(r.schema.Items))
	for _, s := range ordered {
		for _, item := range r.schema.Items {
			v, ok := s.Scores[item.Name]
			if !ok {
				return nil, core.NewReshapeIntegrityError("subject %s has no value for %s", s.ID, item.Name)
			}
			rows = append(rows, MeltedRow{SubjectID: s.ID, Cohort: s.Cohort, Age: s.Age, Item: item, Value: v})
		}
	}
	return rows, nil
}

// Split separates melted rows by item family and relabels item codes to contexts
func (r *Reshaper) Split(melted []MeltedRow) (behaviour, emotion []FamilyRow, err error) {
	for _, m := range melted {
		ctx, cerr := r.schema.ContextOf(m.Item)
		if cerr != nil {
			return nil, nil, fmt.Errorf("%w: %w", core.ErrReshapeIntegrity, cerr)
		}
		if !ctx.Valid() {
			return nil, nil, fmt.Errorf("%w: %w: %s/%s relabels to %q",
				core.ErrReshapeIntegrity, core.ErrUnknownContext, m.Item.Family, m.Item.Code, ctx)
		}

		row := FamilyRow{SubjectID: m.SubjectID, Cohort: m.Cohort, Age: m.Age, Context: ctx, Value: m.Value}
		switch m.Item.Family {
		case survey.FamilyBehaviour:
			behaviour = append(behaviour, row)
		case survey.FamilyEmotion:
			emotion = append(emotion, row)
		default:
			return nil, nil, core.NewReshapeIntegrityError("item %s has unknown family %q", m.Item.Name, m.Item.Family)
		}
	}
	return behaviour, emotion, nil
}

// Join pairs behaviour and emotion rows on (subject, cohort, age, context).
// Every key must appear exactly once on each side.
func Join(behaviour, emotion []FamilyRow) ([]survey.Observation, error) {
	emo := make(map[joinKey]float64, len(emotion))
	for _, e := range emotion {
		k := e.key()
		if _, dup := emo[k]; dup {
			return nil, core.NewReshapeIntegrityError("emotion rows duplicate %s/%s", e.SubjectID, e.Context)
		}
		emo[k] = e.Value
	}

	seen := make(map[joinKey]bool, len(behaviour))
	out := make([]survey.Observation, 0, len(behaviour))
	unmatchedBehaviour := 0
	for _, b := range behaviour {
		k := b.key()
		if seen[k] {
			return nil, core.NewReshapeIntegrityError("behaviour rows duplicate %s/%s", b.SubjectID, b.Context)
		}
		seen[k] = true

		ev, ok := emo[k]
		if !ok {
			unmatchedBehaviour++
			continue
		}
		out = append(out, survey.Observation{
			SubjectID: b.SubjectID,
			Cohort:    b.Cohort,
			Age:       b.Age,
			Context:   b.Context,
			Behaviour: b.Value,
			Emotion:   ev,
		})
	}

	unmatchedEmotion := len(emo) - len(out)
	if unmatchedBehaviour > 0 || unmatchedEmotion > 0 {
		return nil, core.NewReshapeIntegrityError(
			"join lost rows: %d behaviour and %d emotion keys have no partner", unmatchedBehaviour, unmatchedEmotion)
	}
	return out, nil
}

// Reshape runs project, melt, split and join, then checks the table has
// one observation per subject and context
func (r *Reshaper) Reshape(table *survey.WideTable) (*survey.LongTable, error) {
	subjects := r.Project(table.Subjects)

	melted, err := r.Melt(subjects)
	if err != nil {
		return nil, err
	}
	behaviour, emotion, err := r.Split(melted)
	if err != nil {
		return nil, err
	}
	obs, err := Join(behaviour, emotion)
	if err != nil {
		return nil, err
	}

	long := survey.NewLongTable(table.Cohorts, obs)
	if err := verify(long, len(subjects)); err != nil {
		return nil, err
	}

	r.logger.Info("reshaped %d subjects into %d observations", len(subjects), long.Len())
	return long, nil
}

func verify(long *survey.LongTable, subjects int) error {
	want := subjects * len(survey.Contexts)
	if long.Len() != want {
		return core.NewReshapeIntegrityError("expected %d observations for %d subjects, got %d", want, subjects, long.Len())
	}

	perSubject := make(map[core.SubjectID]int, subjects)
	for i := 0; i < long.Len(); i++ {
		perSubject[long.Row(i).SubjectID]++
	}
	for id, n := range perSubject {
		if n != len(survey.Contexts) {
			return core.NewReshapeIntegrityError("subject %s has %d observations", id, n)
		}
	}
	if len(perSubject) != subjects {
		return core.NewReshapeIntegrityError("expected %d subjects in long table, got %d", subjects, len(perSubject))
	}
	return nil
}
