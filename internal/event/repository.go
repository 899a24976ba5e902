package event

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	Save(ctx context.Context, e *Event) error
	SetActive(ctx context.Context, id uint, active bool) error
	List(ctx context.Context, f ListFilter) ([]Event, error)
	AttendeeIDs(ctx context.Context, eventID uint) ([]uint, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// Create Event
func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ===========================
// Get Event By ID, active or not
func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// ===========================
// Save writes every column, including false/zero values
func (r *repository) Save(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) SetActive(ctx context.Context, id uint, active bool) error {
	return r.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("is_active", active).Error
}

// ===========================
// List active events with filters & pagination
func (r *repository) List(ctx context.Context, f ListFilter) ([]Event, error) {
	var events []Event

	query := r.db.WithContext(ctx).Model(&Event{}).Where("events.is_active = ?", true)

	if f.Search != "" {
		pattern := likePattern(f.Search)
		query = query.Where(
			"(LOWER(events.title) LIKE ? ESCAPE '\\' OR LOWER(events.description) LIKE ? ESCAPE '\\')",
			pattern, pattern,
		)
	}
	if f.Category != "" {
		query = query.Where("LOWER(events.category) LIKE ? ESCAPE '\\'", likePattern(f.Category))
	}
	if f.Location != "" {
		query = query.Where("LOWER(events.location) LIKE ? ESCAPE '\\'", likePattern(f.Location))
	}
	if f.Day != nil {
		query = query.Where("events.date >= ? AND events.date < ?", *f.Day, f.Day.AddDate(0, 0, 1))
	}
	if f.CreatedBy != nil {
		query = query.Where("events.organizer_id = ?", *f.CreatedBy)
	}
	if f.RSVPStatus != "" && f.ViewerID != nil {
		query = query.
			Joins("JOIN rsvps ON rsvps.event_id = events.id AND rsvps.user_id = ?", *f.ViewerID).
			Where("rsvps.status = ?", f.RSVPStatus)
	}

	err := query.
		Order("events.date ASC").
		Order("events.id ASC").
		Offset(f.Skip).
		Limit(f.Limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// AttendeeIDs returns users who RSVP'd going or interested.
func (r *repository) AttendeeIDs(ctx context.Context, eventID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("rsvps").
		Where("event_id = ? AND status IN ?", eventID, []string{"going", "interested"}).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}

// likePattern lower-cases s, escapes LIKE wildcards and wraps it in %...%.
func likePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
