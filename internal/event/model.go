package event

import (
	"time"
)

const DefaultTime = "18:00"

// ============================
// GORM Event Model
type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null;index" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Category     string    `gorm:"size:100;not null;index" json:"category"`
	Date         time.Time `gorm:"not null;index" json:"date"`
	Time         string    `gorm:"size:5;not null;default:'18:00'" json:"time"`
	Location     string    `gorm:"size:255;not null" json:"location"`
	MaxAttendees int       `gorm:"not null" json:"max_attendees"`
	Price        float64   `gorm:"not null;default:0" json:"price"`
	OrganizerID  uint      `gorm:"not null;index" json:"organizer_id"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// ============================
// Create Event Request
type CreateEventRequest struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Description  string   `json:"description" binding:"required"`
	Category     string   `json:"category" binding:"required,max=100"`
	Date         string   `json:"date" binding:"required"` // RFC3339, "2006-01-02T15:04:05" or "2006-01-02"
	Time         *string  `json:"time" binding:"omitempty,hhmm"`
	Location     string   `json:"location" binding:"required,max=255"`
	MaxAttendees int      `json:"max_attendees" binding:"required,gte=1"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
}

// ============================
// Update Event Request; nil fields are left unchanged
type UpdateEventRequest struct {
	Title        *string  `json:"title" binding:"omitempty,min=1,max=255"`
	Description  *string  `json:"description"`
	Category     *string  `json:"category" binding:"omitempty,min=1,max=100"`
	Date         *string  `json:"date"`
	Time         *string  `json:"time" binding:"omitempty,hhmm"`
	Location     *string  `json:"location" binding:"omitempty,min=1,max=255"`
	MaxAttendees *int     `json:"max_attendees" binding:"omitempty,gte=1"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	IsActive     *bool    `json:"is_active"`
}

// ListFilter holds the optional list filters; zero values impose nothing.
type ListFilter struct {
	Search     string
	Category   string
	Location   string
	Day        *time.Time // start of a UTC day
	CreatedBy  *uint
	RSVPStatus string
	ViewerID   *uint // RSVPStatus applies to this user's RSVPs
	Skip       int
	Limit      int
}
