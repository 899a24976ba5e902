package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/apperr"
)

// Channel is the Redis pub/sub channel carrying a user's live notifications.
func Channel(userID uint) string {
	return fmt.Sprintf("notifications:user:%d", userID)
}

type Service interface {
	HandleActivity(ctx context.Context, a activity.Activity) error
	ListInAppByUser(ctx context.Context, userID uint, f ListFilter) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)
}

type service struct {
	repo  Repository
	redis *redis.Client
}

// NewService builds the notification service. rdb may be nil, in which case
// notifications are stored but not pushed live.
func NewService(repo Repository, rdb *redis.Client) Service {
	return &service{repo: repo, redis: rdb}
}

// HandleActivity stores a bell notification for every recipient except the
// actor and fans it out over Redis.
func (s *service) HandleActivity(ctx context.Context, a activity.Activity) error {
	now := time.Now().UTC()
	items := make([]InAppNotification, 0, len(a.RecipientIDs))
	seen := make(map[uint]struct{}, len(a.RecipientIDs))
	for _, uid := range a.RecipientIDs {
		if uid == 0 || uid == a.ActorID {
			continue
		}
		if _, dup := seen[uid]; dup {
			continue
		}
		seen[uid] = struct{}{}
		items = append(items, InAppNotification{
			UserID:     uid,
			EventID:    a.EventID,
			ActivityID: a.ID,
			Title:      a.Title,
			Message:    a.Message,
			Category:   categoryFor(a.Type),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if len(items) == 0 {
		return nil
	}

	if err := s.repo.CreateInApp(ctx, items); err != nil {
		return fmt.Errorf("store notifications: %w", err)
	}

	for i := range items {
		s.push(ctx, &items[i])
	}
	return nil
}

func (s *service) push(ctx context.Context, item *InAppNotification) {
	if s.redis == nil {
		return
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return
	}
	if err := s.redis.Publish(ctx, Channel(item.UserID), payload).Err(); err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint("user_id", item.UserID).Msg("redis publish failed")
	}
}

func (s *service) ListInAppByUser(ctx context.Context, userID uint, f ListFilter) ([]InAppNotification, error) {
	items, err := s.repo.ListInAppByUser(ctx, userID, f)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	if items == nil {
		items = []InAppNotification{}
	}
	return items, nil
}

func (s *service) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	ok, err := s.repo.MarkInAppAsRead(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return apperr.NotFound("Notification not found")
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func categoryFor(t activity.Type) string {
	switch t {
	case activity.RSVPUpdated:
		return CategoryRSVP
	case activity.CommentCreated, activity.CommentApproved:
		return CategoryComment
	case activity.EventUpdated, activity.EventCancelled:
		return CategoryEvent
	default:
		return CategorySystem
	}
}
