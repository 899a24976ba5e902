package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
)

var attendeeHeaders = []string{"RSVP ID", "Name", "Email", "Status", "Checked In", "Checked In At", "Responded At", "Notes"}

// ReportExporter renders a report in one of the supported formats.
type ReportExporter interface {
	Export(format string, data AttendeeReport) ([]byte, string, string, error)
}

type reportExporter struct{}

func NewReportExporter() ReportExporter {
	return &reportExporter{}
}

// Export returns the file body, a download filename and its MIME type.
func (e *reportExporter) Export(format string, data AttendeeReport) ([]byte, string, string, error) {
	base := fmt.Sprintf("attendees_%s_%s", slug(data.EventTitle, data.EventID), data.GeneratedAt.Format("20060102_150405"))

	switch format {
	case FormatCSV:
		out, err := e.exportAttendeesCSV(data)
		return out, base + ".csv", mimeCSV, err
	case FormatExcel:
		out, err := e.exportAttendeesExcel(data)
		return out, base + ".xlsx", mimeExcel, err
	case FormatPDF:
		out, err := e.exportAttendeesPDF(data)
		return out, base + ".pdf", mimePDF, err
	default:
		return nil, "", "", fmt.Errorf("unsupported format: %s", format)
	}
}

func attendeeValues(r AttendeeReportRow) []string {
	checkedInAt := ""
	if r.CheckedInAt != nil {
		checkedInAt = r.CheckedInAt.Format("2006-01-02 15:04:05")
	}
	checkedIn := "No"
	if r.CheckedIn {
		checkedIn = "Yes"
	}
	return []string{
		strconv.FormatUint(uint64(r.RSVPID), 10),
		r.UserName,
		r.UserEmail,
		r.Status,
		checkedIn,
		checkedInAt,
		r.RespondedAt.Format("2006-01-02 15:04:05"),
		r.Notes,
	}
}

// spreadsheetValues is attendeeValues with user-supplied text neutralized
// so spreadsheet apps do not evaluate it as a formula.
func spreadsheetValues(r AttendeeReportRow) []string {
	values := attendeeValues(r)
	for i, v := range values {
		values[i] = safeCell(v)
	}
	return values
}

func safeCell(v string) string {
	if v == "" {
		return v
	}
	switch v[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + v
	}
	return v
}

func (e *reportExporter) exportAttendeesCSV(data AttendeeReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(attendeeHeaders); err != nil {
		return nil, err
	}
	for _, r := range data.Rows {
		if err := writer.Write(spreadsheetValues(r)); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendeesExcel(data AttendeeReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Attendees"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, header := range attendeeHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheetName, cell, header); err != nil {
			return nil, err
		}
	}
	for i, r := range data.Rows {
		for j, v := range spreadsheetValues(r) {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			var err error
			if j == 0 {
				err = f.SetCellInt(sheetName, cell, int(r.RSVPID))
			} else {
				err = f.SetCellStr(sheetName, cell, v)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *reportExporter) exportAttendeesPDF(data AttendeeReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr("Attendees: "+data.EventTitle))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, tr(fmt.Sprintf("%s  |  %s  |  %d RSVPs", data.EventDate.Format("2006-01-02"), data.Location, len(data.Rows))))
	pdf.Ln(12)

	widths := []float64{18, 40, 55, 22, 20, 35, 35, 52}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range attendeeHeaders {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, r := range data.Rows {
		for i, v := range attendeeValues(r) {
			pdf.CellFormat(widths[i], 6, tr(truncate(v, 40)), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string, id uint) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "_"), "_")
	if s == "" {
		return "event_" + strconv.FormatUint(uint64(id), 10)
	}
	if len(s) > 40 {
		s = strings.TrimRight(s[:40], "_")
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
