package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Actions recorded by the services.
const (
	ActionUserRegistered  = "USER_REGISTERED"
	ActionLogin           = "LOGIN"
	ActionProfileUpdated  = "PROFILE_UPDATED"
	ActionEventCreated    = "EVENT_CREATED"
	ActionEventUpdated    = "EVENT_UPDATED"
	ActionEventDeleted    = "EVENT_DELETED"
	ActionRSVPCheckedIn   = "RSVP_CHECKED_IN"
	ActionRSVPExported    = "RSVP_EXPORTED"
	ActionCommentApproved = "COMMENT_APPROVED"
	ActionCommentDeleted  = "COMMENT_DELETED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`  // nullable (e.g. failed login)
	EventID   *uint          `gorm:"index" json:"event_id"` // nullable (user/auth actions)
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogResponse is an audit row joined with the acting user and event.
type AuditLogResponse struct {
	ID         uint           `json:"id"`
	UserID     *uint          `json:"user_id"`
	EventID    *uint          `json:"event_id"`
	Action     string         `json:"action"`
	Details    datatypes.JSON `json:"details"`
	IPAddress  string         `json:"ip_address"`
	Status     string         `json:"status"`
	CreatedAt  time.Time      `json:"created_at"`
	UserName   *string        `json:"user_name,omitempty"`
	EventTitle *string        `json:"event_title,omitempty"`
}

type AuditLogFilter struct {
	UserID   *uint
	EventID  *uint
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

type PaginatedAuditLogs struct {
	Data       []AuditLogResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}
