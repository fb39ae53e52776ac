package ports

import (
	"io"

	"gocohort/domain/report"
)

// ReportRenderer writes a finished report in one output format
type ReportRenderer interface {
	Format() string
	Render(w io.Writer, r *report.Report) error
}
