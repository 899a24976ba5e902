package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/eventrsvp"
	"github.com/sharath018/eventify-backend/internal/validation"
)

// RosterSource yields the full attendee list of an event for its owner or an
// admin. eventrsvp.Service satisfies it.
type RosterSource interface {
	Roster(ctx context.Context, actor *auth.User, eventID uint) (*event.Event, []eventrsvp.Attendee, error)
}

type ReportService interface {
	ExportAttendees(ctx context.Context, actor *auth.User, req ExportRequest, ip string) ([]byte, string, string, error)
}

type reportService struct {
	roster   RosterSource
	exporter ReportExporter
	auditSvc auditlog.Service
	now      func() time.Time
}

func NewReportService(roster RosterSource, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{
		roster:   roster,
		exporter: exporter,
		auditSvc: auditSvc,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *reportService) ExportAttendees(ctx context.Context, actor *auth.User, req ExportRequest, ip string) ([]byte, string, string, error) {
	if !validFormat(req.Format) {
		return nil, "", "", apperr.BadRequest("format must be one of csv, excel, pdf")
	}
	if req.Status != "" && !validation.IsRSVPStatus(req.Status) {
		return nil, "", "", apperr.BadRequest("status must be one of going, interested, not_going")
	}

	e, attendees, err := s.roster.Roster(ctx, actor, req.EventID)
	if err != nil {
		return nil, "", "", err
	}

	data := AttendeeReport{
		EventID:     e.ID,
		EventTitle:  e.Title,
		EventDate:   e.Date,
		Location:    e.Location,
		GeneratedAt: s.now(),
		Rows:        make([]AttendeeReportRow, 0, len(attendees)),
	}
	for _, a := range attendees {
		if req.Status != "" && a.Status != req.Status {
			continue
		}
		row := AttendeeReportRow{
			RSVPID:      a.ID,
			UserName:    a.UserName,
			UserEmail:   a.UserEmail,
			Status:      a.Status,
			CheckedIn:   a.CheckedIn,
			CheckedInAt: a.CheckedInAt,
			RespondedAt: a.UpdatedAt,
		}
		if a.Notes != nil {
			row.Notes = *a.Notes
		}
		data.Rows = append(data.Rows, row)
	}

	body, filename, mimeType, err := s.exporter.Export(req.Format, data)
	if err != nil {
		details := map[string]interface{}{
			"format": req.Format,
			"error":  err.Error(),
		}
		_ = s.auditSvc.LogAction(ctx, &actor.ID, &e.ID, auditlog.ActionRSVPExported, details, ip, auditlog.StatusFailure)
		return nil, "", "", fmt.Errorf("export attendees: %w", err)
	}

	details := map[string]interface{}{
		"format":   req.Format,
		"status":   req.Status,
		"rows":     len(data.Rows),
		"filename": filename,
	}
	_ = s.auditSvc.LogAction(ctx, &actor.ID, &e.ID, auditlog.ActionRSVPExported, details, ip, auditlog.StatusSuccess)

	return body, filename, mimeType, nil
}

func validFormat(f string) bool {
	for _, v := range Formats {
		if v == f {
			return true
		}
	}
	return false
}
