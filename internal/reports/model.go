package reports

import "time"

const (
	// Report format constants
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Formats lists the accepted ?format= values.
var Formats = []string{FormatCSV, FormatExcel, FormatPDF}

// AttendeeReportRow is one RSVP line in an attendee export.
type AttendeeReportRow struct {
	RSVPID      uint
	UserName    string
	UserEmail   string
	Status      string
	Notes       string
	CheckedIn   bool
	CheckedInAt *time.Time
	RespondedAt time.Time
}

// AttendeeReport is everything an exporter needs for one event.
type AttendeeReport struct {
	EventID     uint
	EventTitle  string
	EventDate   time.Time
	Location    string
	GeneratedAt time.Time
	Rows        []AttendeeReportRow
}

// ExportRequest selects the event, format and an optional status filter.
type ExportRequest struct {
	EventID uint
	Format  string
	Status  string
}
