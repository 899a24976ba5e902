package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/eventrsvp"
	"github.com/sharath018/eventify-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type stubRoster struct {
	event     *event.Event
	attendees []eventrsvp.Attendee
	err       error
}

func (s stubRoster) Roster(context.Context, *auth.User, uint) (*event.Event, []eventrsvp.Attendee, error) {
	return s.event, s.attendees, s.err
}

func sampleRoster() stubRoster {
	checkedAt := time.Date(2030, 3, 15, 9, 5, 0, 0, time.UTC)
	notes := "vegetarian meal"
	responded := time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)
	return stubRoster{
		event: &event.Event{ID: 3, Title: "Tech Conference 2030!", Date: time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC), Location: "San Francisco, CA"},
		attendees: []eventrsvp.Attendee{
			{
				RSVP:      eventrsvp.RSVP{ID: 10, Status: eventrsvp.StatusGoing, Notes: &notes, CheckedIn: true, CheckedInAt: &checkedAt, UpdatedAt: responded},
				UserName:  "Jane Smith",
				UserEmail: "jane@example.com",
			},
			{
				RSVP:      eventrsvp.RSVP{ID: 11, Status: eventrsvp.StatusInterested, UpdatedAt: responded},
				UserName:  "John Doe",
				UserEmail: "john@example.com",
			},
		},
	}
}

func newService(t *testing.T, roster RosterSource) (ReportService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &auditlog.AuditLog{})
	return NewReportService(roster, NewReportExporter(), auditlog.NewService(auditlog.NewRepository(db))), db
}

var organizer = &auth.User{ID: 1, Role: auth.RoleOrganizer, IsActive: true}

func TestExportCSV(t *testing.T) {
	svc, db := newService(t, sampleRoster())

	body, filename, mime, err := svc.ExportAttendees(context.Background(), organizer, ExportRequest{EventID: 3, Format: FormatCSV}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", mime)
	assert.Regexp(t, `^attendees_tech_conference_2030_\d{8}_\d{6}\.csv$`, filename)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, attendeeHeaders, records[0])
	assert.Equal(t, []string{"10", "Jane Smith", "jane@example.com", "going", "Yes", "2030-03-15 09:05:00", "2030-03-01 12:00:00", "vegetarian meal"}, records[1])
	assert.Equal(t, "No", records[2][4])

	var audits []auditlog.AuditLog
	require.NoError(t, db.Find(&audits).Error)
	require.Len(t, audits, 1)
	assert.Equal(t, auditlog.ActionRSVPExported, audits[0].Action)
	assert.Equal(t, auditlog.StatusSuccess, audits[0].Status)
}

func TestExportStatusFilter(t *testing.T) {
	svc, _ := newService(t, sampleRoster())

	body, _, _, err := svc.ExportAttendees(context.Background(), organizer, ExportRequest{EventID: 3, Format: FormatCSV, Status: eventrsvp.StatusInterested}, "")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "John Doe", records[1][1])
}

func TestExportExcel(t *testing.T) {
	svc, _ := newService(t, sampleRoster())

	body, filename, mime, err := svc.ExportAttendees(context.Background(), organizer, ExportRequest{EventID: 3, Format: FormatExcel}, "")
	require.NoError(t, err)
	assert.Equal(t, mimeExcel, mime)
	assert.Contains(t, filename, ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendees")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Email", rows[0][2])
	assert.Equal(t, "john@example.com", rows[2][2])
}

func TestExportNeutralizesFormulas(t *testing.T) {
	notes := "@SUM(1+1)"
	roster := stubRoster{
		event: &event.Event{ID: 4, Title: "Meetup", Date: time.Date(2030, 5, 1, 0, 0, 0, 0, time.UTC)},
		attendees: []eventrsvp.Attendee{{
			RSVP:      eventrsvp.RSVP{ID: 1, Status: eventrsvp.StatusGoing, Notes: &notes, UpdatedAt: time.Date(2030, 4, 1, 0, 0, 0, 0, time.UTC)},
			UserName:  `=HYPERLINK("http://evil","x")`,
			UserEmail: "-1+2@example.com",
		}},
	}
	svc, _ := newService(t, roster)
	ctx := context.Background()

	body, _, _, err := svc.ExportAttendees(ctx, organizer, ExportRequest{EventID: 4, Format: FormatCSV}, "")
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, `'=HYPERLINK("http://evil","x")`, records[1][1])
	assert.Equal(t, "'-1+2@example.com", records[1][2])
	assert.Equal(t, "'@SUM(1+1)", records[1][7])

	body, _, _, err = svc.ExportAttendees(ctx, organizer, ExportRequest{EventID: 4, Format: FormatExcel}, "")
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()

	formula, err := f.GetCellFormula("Attendees", "B2")
	require.NoError(t, err)
	assert.Empty(t, formula)

	rows, err := f.GetRows("Attendees")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, `'=HYPERLINK("http://evil","x")`, rows[1][1])
	assert.Equal(t, "'@SUM(1+1)", rows[1][7])
}

func TestSafeCell(t *testing.T) {
	for _, v := range []string{"=1+1", "+1", "-1", "@A1", "\tx", "\rx"} {
		assert.Equal(t, "'"+v, safeCell(v), v)
	}
	assert.Equal(t, "Jane Smith", safeCell("Jane Smith"))
	assert.Equal(t, "", safeCell(""))
}

func TestExportPDF(t *testing.T) {
	svc, _ := newService(t, sampleRoster())

	body, filename, mime, err := svc.ExportAttendees(context.Background(), organizer, ExportRequest{EventID: 3, Format: FormatPDF}, "")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", mime)
	assert.Contains(t, filename, ".pdf")
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
}

func TestExportRejections(t *testing.T) {
	svc, _ := newService(t, sampleRoster())
	ctx := context.Background()

	_, _, _, err := svc.ExportAttendees(ctx, organizer, ExportRequest{EventID: 3, Format: "docx"}, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	_, _, _, err = svc.ExportAttendees(ctx, organizer, ExportRequest{EventID: 3, Format: FormatCSV, Status: "maybe"}, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	denied, _ := newService(t, stubRoster{err: apperr.Forbidden("Not authorized to export RSVPs for this event")})
	_, _, _, err = denied.ExportAttendees(ctx, organizer, ExportRequest{EventID: 3, Format: FormatCSV}, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "jazz_night", slug("  Jazz   Night ", 1))
	assert.Equal(t, "event_7", slug("!!!", 7))
}
