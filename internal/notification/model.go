package notification

import (
	"time"
)

// Categories mirror the activity that produced the notification.
const (
	CategoryRSVP    = "rsvp"
	CategoryComment = "comment"
	CategoryEvent   = "event"
	CategorySystem  = "system"
)

// InAppNotification - per-user, in-app bell notifications
type InAppNotification struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	EventID    uint      `gorm:"not null;index" json:"event_id"`
	ActivityID string    `gorm:"size:36;index" json:"activity_id"`
	Title      string    `gorm:"size:150;not null" json:"title"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	Category   string    `gorm:"size:30;not null" json:"category"`
	IsRead     bool      `gorm:"not null" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

// ListFilter narrows a user's notification feed.
type ListFilter struct {
	Limit      int
	UnreadOnly bool
}
