package eventrsvp

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Upsert(ctx context.Context, r *RSVP) error
	Find(ctx context.Context, userID, eventID uint) (*RSVP, error)
	GetByID(ctx context.Context, id uint) (*RSVP, error)
	ListAttendees(ctx context.Context, eventID uint) ([]Attendee, error)
	FindAttendee(ctx context.Context, eventID, userID uint) ([]Attendee, error)
	MarkCheckedIn(ctx context.Context, id uint, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Upsert inserts the RSVP or, when the (user, event) pair exists, overwrites
// its status and notes in the same statement.
func (r *repository) Upsert(ctx context.Context, rsvp *RSVP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "updated_at"}),
		}).
		Create(rsvp).Error
}

func (r *repository) Find(ctx context.Context, userID, eventID uint) (*RSVP, error) {
	var rsvp RSVP
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&rsvp).Error
	if err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*RSVP, error) {
	var rsvp RSVP
	if err := r.db.WithContext(ctx).First(&rsvp, id).Error; err != nil {
		return nil, err
	}
	return &rsvp, nil
}

func (r *repository) attendees(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&RSVP{}).
		Select("rsvps.*, users.full_name AS user_name, users.email AS user_email").
		Joins("JOIN users ON users.id = rsvps.user_id")
}

func (r *repository) ListAttendees(ctx context.Context, eventID uint) ([]Attendee, error) {
	var out []Attendee
	err := r.attendees(ctx).
		Where("rsvps.event_id = ?", eventID).
		Order("rsvps.created_at ASC, rsvps.id ASC").
		Scan(&out).Error
	return out, err
}

func (r *repository) FindAttendee(ctx context.Context, eventID, userID uint) ([]Attendee, error) {
	var out []Attendee
	err := r.attendees(ctx).
		Where("rsvps.event_id = ? AND rsvps.user_id = ?", eventID, userID).
		Scan(&out).Error
	return out, err
}

func (r *repository) MarkCheckedIn(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&RSVP{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"checked_in": true, "checked_in_at": at}).Error
}
