package sheets

import (
	"context"

	"cashbook/internal/report"
)

// Ports for outbound adapters.
type (
	// ReportWriter replaces the content of a spreadsheet tab with a report.
	ReportWriter interface {
		// WriteReport returns a reference to the written range.
		WriteReport(ctx context.Context, d report.Document) (ref string, err error)
	}
)
