package timesheet

import "context"

// Row is a single timesheet line as it appears in the export target.
type Row struct {
	Date     string
	Project  string
	Client   string
	Hours    float64
	Notes    string
	Billable bool
}

// Ports for outbound adapters.
type (
	RowWriter interface {
		Append(ctx context.Context, row Row) (rowRef string, err error)
	}

	// RowLister returns previously exported rows, newest last.
	RowLister interface {
		List(ctx context.Context) ([]Row, error)
	}
)
