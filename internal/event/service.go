package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/sanitize"
	"gorm.io/gorm"
)

var errEventNotFound = apperr.NotFound("Event not found")

type Service interface {
	List(ctx context.Context, f ListFilter) ([]Event, error)
	Get(ctx context.Context, id uint) (*Event, error)
	Find(ctx context.Context, id uint) (*Event, error)
	Create(ctx context.Context, actor *auth.User, req CreateEventRequest, ip string) (*Event, error)
	Update(ctx context.Context, actor *auth.User, id uint, req UpdateEventRequest, ip string) (*Event, error)
	Delete(ctx context.Context, actor *auth.User, id uint, ip string) error
}

type service struct {
	repo      Repository
	auditSvc  auditlog.Service
	publisher activity.Publisher
}

func NewService(repo Repository, auditSvc auditlog.Service, publisher activity.Publisher) Service {
	return &service{repo: repo, auditSvc: auditSvc, publisher: publisher}
}

// ===========================
// List active events
func (s *service) List(ctx context.Context, f ListFilter) ([]Event, error) {
	events, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// Get returns an active event; missing and soft-deleted events are NotFound.
func (s *service) Get(ctx context.Context, id uint) (*Event, error) {
	e, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.IsActive {
		return nil, errEventNotFound
	}
	return e, nil
}

// Find returns the event regardless of its active flag.
func (s *service) Find(ctx context.Context, id uint) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ===========================
// Create Event (organizer or admin)
func (s *service) Create(ctx context.Context, actor *auth.User, req CreateEventRequest, ip string) (*Event, error) {
	if err := auth.RequireOrganizerOrAdmin(actor); err != nil {
		return nil, err
	}

	date, err := ParseDate(req.Date)
	if err != nil {
		return nil, apperr.BadRequest("invalid date: use YYYY-MM-DD or an ISO 8601 timestamp")
	}

	e := &Event{
		Title:        sanitize.Text(req.Title),
		Description:  sanitize.HTML(req.Description),
		Category:     sanitize.Text(req.Category),
		Date:         date,
		Time:         DefaultTime,
		Location:     sanitize.Text(req.Location),
		MaxAttendees: req.MaxAttendees,
		OrganizerID:  actor.ID,
		IsActive:     true,
	}
	if req.Time != nil {
		e.Time = *req.Time
	}
	if req.Price != nil {
		e.Price = *req.Price
	}

	if err := s.repo.Create(ctx, e); err != nil {
		_ = s.auditSvc.LogAction(ctx, &actor.ID, nil, auditlog.ActionEventCreated,
			map[string]interface{}{"title": e.Title, "error": err.Error()}, ip, auditlog.StatusFailure)
		return nil, fmt.Errorf("create event: %w", err)
	}

	_ = s.auditSvc.LogAction(ctx, &actor.ID, &e.ID, auditlog.ActionEventCreated,
		map[string]interface{}{"title": e.Title}, ip, auditlog.StatusSuccess)
	return e, nil
}

// ===========================
// Update Event (owner or admin). Soft-deleted events remain editable.
func (s *service) Update(ctx context.Context, actor *auth.User, id uint, req UpdateEventRequest, ip string) (*Event, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}

	e, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(actor, e.OrganizerID, "update this event"); err != nil {
		return nil, err
	}

	changed := []string{}
	if req.Title != nil {
		e.Title = sanitize.Text(*req.Title)
		changed = append(changed, "title")
	}
	if req.Description != nil {
		e.Description = sanitize.HTML(*req.Description)
		changed = append(changed, "description")
	}
	if req.Category != nil {
		e.Category = sanitize.Text(*req.Category)
		changed = append(changed, "category")
	}
	if req.Date != nil {
		date, err := ParseDate(*req.Date)
		if err != nil {
			return nil, apperr.BadRequest("invalid date: use YYYY-MM-DD or an ISO 8601 timestamp")
		}
		e.Date = date
		changed = append(changed, "date")
	}
	if req.Time != nil {
		e.Time = *req.Time
		changed = append(changed, "time")
	}
	if req.Location != nil {
		e.Location = sanitize.Text(*req.Location)
		changed = append(changed, "location")
	}
	if req.MaxAttendees != nil {
		e.MaxAttendees = *req.MaxAttendees
		changed = append(changed, "max_attendees")
	}
	if req.Price != nil {
		e.Price = *req.Price
		changed = append(changed, "price")
	}
	if req.IsActive != nil {
		e.IsActive = *req.IsActive
		changed = append(changed, "is_active")
	}

	if err := s.repo.Save(ctx, e); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	_ = s.auditSvc.LogAction(ctx, &actor.ID, &e.ID, auditlog.ActionEventUpdated,
		map[string]interface{}{"fields": changed}, ip, auditlog.StatusSuccess)

	if e.IsActive && len(changed) > 0 {
		s.notifyAttendees(ctx, actor, e, activity.EventUpdated,
			"Event updated", fmt.Sprintf("%q has been updated (%s).", e.Title, strings.Join(changed, ", ")))
	}
	return e, nil
}

// ===========================
// Delete Event: soft delete (owner or admin)
func (s *service) Delete(ctx context.Context, actor *auth.User, id uint, ip string) error {
	if err := auth.RequireActive(actor); err != nil {
		return err
	}

	e, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := auth.RequireOwnerOrAdmin(actor, e.OrganizerID, "delete this event"); err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, e.ID, false); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	_ = s.auditSvc.LogAction(ctx, &actor.ID, &e.ID, auditlog.ActionEventDeleted,
		map[string]interface{}{"title": e.Title}, ip, auditlog.StatusSuccess)

	if e.IsActive {
		s.notifyAttendees(ctx, actor, e, activity.EventCancelled,
			"Event cancelled", fmt.Sprintf("%q has been cancelled.", e.Title))
	}
	return nil
}

func (s *service) notifyAttendees(ctx context.Context, actor *auth.User, e *Event, kind activity.Type, title, message string) {
	ids, err := s.repo.AttendeeIDs(ctx, e.ID)
	if err != nil {
		return
	}
	recipients := ids[:0]
	for _, id := range ids {
		if id != actor.ID {
			recipients = append(recipients, id)
		}
	}
	activity.Emit(ctx, s.publisher, activity.Activity{
		Type:         kind,
		ActorID:      actor.ID,
		EventID:      e.ID,
		RecipientIDs: recipients,
		Title:        title,
		Message:      message,
	})
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate accepts the layouts clients send and normalizes to UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// DayStart parses raw and truncates it to the start of its calendar day in UTC.
func DayStart(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}
