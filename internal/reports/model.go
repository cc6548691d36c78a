package reports

import (
	"errors"
	"time"
)

// Report format constants
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// TempleRow is one line of the temple listing export.
type TempleRow struct {
	ID        uint
	Name      string
	City      string
	State     string
	Verified  bool
	Slug      string
	CreatedAt time.Time
}

func (r TempleRow) Status() string {
	if r.Verified {
		return "verified"
	}
	return "unverified"
}
