package ports

import (
	"context"

	"gocohort/domain/survey"
)

// SurveyReader loads a raw questionnaire export
type SurveyReader interface {
	ReadSurvey(ctx context.Context) (*survey.RawTable, error)
}
