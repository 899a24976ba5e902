package database

import (
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/comment"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/eventrsvp"
	"github.com/sharath018/eventify-backend/internal/notification"
)

// Models lists every table in migration order.
func Models() []interface{} {
	return []interface{}{
		&auth.User{},
		&event.Event{},
		&eventrsvp.RSVP{},
		&comment.Comment{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
	}
}
