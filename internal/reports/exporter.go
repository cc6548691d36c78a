package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// Exporter renders temple listings as downloadable files.
type Exporter struct {
	now func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{now: time.Now}
}

var templeHeaders = []string{"id", "name", "city", "state", "status", "slug", "created_at"}

// ExportTemples returns the file bytes, a filename and its content type.
func (e *Exporter) ExportTemples(format string, rows []TempleRow) ([]byte, string, string, error) {
	timestamp := e.now().Format("20060102_150405")

	switch strings.ToLower(format) {
	case FormatCSV:
		data, err := e.templesCSV(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("temples_report_%s.csv", timestamp), "text/csv", nil

	case FormatExcel, "excel":
		data, err := e.templesExcel(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("temples_report_%s.xlsx", timestamp), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil

	case FormatPDF:
		data, err := e.templesPDF(rows)
		if err != nil {
			return nil, "", "", err
		}
		return data, fmt.Sprintf("temples_report_%s.pdf", timestamp), "application/pdf", nil

	default:
		return nil, "", "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func record(r TempleRow) []string {
	return []string{
		fmt.Sprint(r.ID),
		r.Name,
		r.City,
		r.State,
		r.Status(),
		r.Slug,
		r.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (e *Exporter) templesCSV(rows []TempleRow) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write(templeHeaders); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(record(r)); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) templesExcel(rows []TempleRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Temples"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for i, h := range templeHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheet, cell, h)
	}

	for rIdx, r := range rows {
		for cIdx, v := range record(r) {
			cell, err := excelize.CoordinatesToCellName(cIdx+1, rIdx+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *Exporter) templesPDF(rows []TempleRow) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(40, 10, "Temples Report")
	pdf.Ln(10)

	headers := []string{"ID", "Name", "City", "State", "Status", "Slug", "Created At"}
	widths := []float64{15, 60, 35, 35, 25, 65, 40}

	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	// gofpdf core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 9)
	for _, r := range rows {
		for i, v := range record(r) {
			align := "L"
			if i == 0 || i == 4 {
				align = "C"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
