// Package activity carries domain activities (RSVPs, comments, event changes)
// from the services that produce them to the notification pipeline, either
// in-process or through Kafka.
package activity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sharath018/eventify-backend/internal/metrics"
)

type Type string

const (
	RSVPUpdated     Type = "rsvp.updated"
	CommentCreated  Type = "comment.created"
	CommentApproved Type = "comment.approved"
	EventUpdated    Type = "event.updated"
	EventCancelled  Type = "event.cancelled"
)

// Activity is one thing that happened, addressed to a set of users.
type Activity struct {
	ID           string    `json:"id"`
	Type         Type      `json:"type"`
	ActorID      uint      `json:"actor_id"`
	EventID      uint      `json:"event_id"`
	RecipientIDs []uint    `json:"recipient_ids"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, a Activity) error
}

// HandlerFunc consumes an activity.
type HandlerFunc func(ctx context.Context, a Activity) error

// Dispatcher delivers activities synchronously to in-process handlers.
type Dispatcher struct {
	handlers []HandlerFunc
}

func NewDispatcher(handlers ...HandlerFunc) *Dispatcher {
	return &Dispatcher{handlers: handlers}
}

func (d *Dispatcher) Subscribe(h HandlerFunc) {
	d.handlers = append(d.handlers, h)
}

func (d *Dispatcher) Publish(ctx context.Context, a Activity) error {
	var errs []error
	for _, h := range d.handlers {
		if err := h(ctx, a); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit stamps and publishes a. Delivery problems are logged, never returned:
// notifications must not fail the request that caused them.
func Emit(ctx context.Context, p Publisher, a Activity) {
	if p == nil || len(a.RecipientIDs) == 0 {
		return
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	}

	if err := p.Publish(ctx, a); err != nil {
		metrics.ActivitiesPublished.WithLabelValues(string(a.Type), "error").Inc()
		log.Ctx(ctx).Warn().Err(err).Str("activity", string(a.Type)).Uint("event_id", a.EventID).Msg("publish activity failed")
		return
	}
	metrics.ActivitiesPublished.WithLabelValues(string(a.Type), "ok").Inc()
}
