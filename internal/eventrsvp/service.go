package eventrsvp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/metrics"
	"github.com/sharath018/eventify-backend/internal/sanitize"
	"gorm.io/gorm"
)

type Service interface {
	Upsert(ctx context.Context, actor *auth.User, eventID uint, req UpsertRequest) (*RSVP, error)
	List(ctx context.Context, actor *auth.User, eventID uint) ([]Attendee, error)
	CheckIn(ctx context.Context, actor *auth.User, eventID, rsvpID uint, ip string) (*RSVP, error)
	Roster(ctx context.Context, actor *auth.User, eventID uint) (*event.Event, []Attendee, error)
}

type service struct {
	repo      Repository
	events    event.Service
	auditSvc  auditlog.Service
	publisher activity.Publisher
	now       func() time.Time
}

func NewService(repo Repository, events event.Service, auditSvc auditlog.Service, publisher activity.Publisher) Service {
	return &service{
		repo:      repo,
		events:    events,
		auditSvc:  auditSvc,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Upsert creates the caller's RSVP for an active event or overwrites the
// existing one. Capacity is not enforced.
func (s *service) Upsert(ctx context.Context, actor *auth.User, eventID uint, req UpsertRequest) (*RSVP, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var notes *string
	if req.Notes != nil {
		n := sanitize.Text(*req.Notes)
		notes = &n
	}

	rsvp := &RSVP{
		UserID:  actor.ID,
		EventID: e.ID,
		Status:  req.Status,
		Notes:   notes,
	}
	if err := s.repo.Upsert(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("upsert rsvp: %w", err)
	}

	saved, err := s.repo.Find(ctx, actor.ID, e.ID)
	if err != nil {
		return nil, fmt.Errorf("reload rsvp: %w", err)
	}
	metrics.RSVPsUpserted.WithLabelValues(saved.Status).Inc()

	if e.OrganizerID != actor.ID {
		activity.Emit(ctx, s.publisher, activity.Activity{
			Type:         activity.RSVPUpdated,
			ActorID:      actor.ID,
			EventID:      e.ID,
			RecipientIDs: []uint{e.OrganizerID},
			Title:        "New RSVP",
			Message:      fmt.Sprintf("%s responded %q to %q.", actor.FullName, saved.Status, e.Title),
		})
	}
	return saved, nil
}

// List returns every RSVP to the event owner or an admin; anyone else sees
// only their own RSVP (zero or one rows).
func (s *service) List(ctx context.Context, actor *auth.User, eventID uint) ([]Attendee, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var out []Attendee
	if auth.RequireOwnerOrAdmin(actor, e.OrganizerID, "view RSVPs for this event") == nil {
		out, err = s.repo.ListAttendees(ctx, e.ID)
	} else {
		out, err = s.repo.FindAttendee(ctx, e.ID, actor.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	if out == nil {
		out = []Attendee{}
	}
	return out, nil
}

// CheckIn marks an RSVP as attended. Repeated check-ins keep the first timestamp.
func (s *service) CheckIn(ctx context.Context, actor *auth.User, eventID, rsvpID uint, ip string) (*RSVP, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(actor, e.OrganizerID, "check in attendees for this event"); err != nil {
		return nil, err
	}

	rsvp, err := s.repo.GetByID(ctx, rsvpID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && rsvp.EventID != e.ID) {
		return nil, apperr.NotFound("RSVP not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	if rsvp.CheckedIn {
		return rsvp, nil
	}

	if err := s.repo.MarkCheckedIn(ctx, rsvp.ID, s.now()); err != nil {
		return nil, fmt.Errorf("check in: %w", err)
	}
	_ = s.auditSvc.LogAction(ctx, &actor.ID, &e.ID, auditlog.ActionRSVPCheckedIn,
		map[string]interface{}{"rsvp_id": rsvp.ID, "user_id": rsvp.UserID}, ip, auditlog.StatusSuccess)

	return s.repo.GetByID(ctx, rsvp.ID)
}

// Roster is the full attendee list for exports; owner or admin only.
func (s *service) Roster(ctx context.Context, actor *auth.User, eventID uint) (*event.Event, []Attendee, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, nil, err
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.RequireOwnerOrAdmin(actor, e.OrganizerID, "export RSVPs for this event"); err != nil {
		return nil, nil, err
	}
	rows, err := s.repo.ListAttendees(ctx, e.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("list rsvps: %w", err)
	}
	return e, rows, nil
}
