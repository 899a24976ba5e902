package eventrsvp

import "time"

const (
	StatusGoing      = "going"
	StatusInterested = "interested"
	StatusNotGoing   = "not_going"
)

// RSVP is one user's answer for one event. The composite unique index keeps
// at most one row per (user, event); rows are never deleted.
type RSVP struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex:idx_rsvp_user_event,priority:1" json:"user_id"`
	EventID     uint       `gorm:"not null;uniqueIndex:idx_rsvp_user_event,priority:2;index" json:"event_id"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	CheckedIn   bool       `gorm:"not null;default:false" json:"checked_in"`
	CheckedInAt *time.Time `json:"checked_in_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

type UpsertRequest struct {
	Status string  `json:"status" binding:"required,rsvp_status"`
	Notes  *string `json:"notes" binding:"omitempty,max=2000"`
}

// Attendee is an RSVP with the responding user's identity.
type Attendee struct {
	RSVP
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}
