package comment

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/metrics"
	"github.com/sharath018/eventify-backend/internal/pagination"
	"github.com/sharath018/eventify-backend/internal/sanitize"
	"gorm.io/gorm"
)

var (
	errCommentNotFound = apperr.NotFound("Comment not found")
	errEmptyContent    = apperr.BadRequest("Comment content cannot be empty")
)

type Service interface {
	List(ctx context.Context, eventID uint, page pagination.Page) ([]CommentResponse, error)
	Create(ctx context.Context, actor *auth.User, eventID uint, req CreateRequest) (*CommentResponse, error)
	Update(ctx context.Context, actor *auth.User, id uint, req UpdateRequest) (*CommentResponse, error)
	Delete(ctx context.Context, actor *auth.User, id uint, ip string) error
	Pending(ctx context.Context, actor *auth.User, page pagination.Page) ([]CommentResponse, error)
	Approve(ctx context.Context, actor *auth.User, id uint, ip string) error
}

type service struct {
	repo        Repository
	events      event.Service
	auditSvc    auditlog.Service
	publisher   activity.Publisher
	autoApprove bool
}

// NewService builds the comment service. autoApprove decides whether new
// comments are visible immediately or wait for an admin.
func NewService(repo Repository, events event.Service, auditSvc auditlog.Service, publisher activity.Publisher, autoApprove bool) Service {
	return &service{
		repo:        repo,
		events:      events,
		auditSvc:    auditSvc,
		publisher:   publisher,
		autoApprove: autoApprove,
	}
}

func (s *service) List(ctx context.Context, eventID uint, page pagination.Page) ([]CommentResponse, error) {
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return nil, err
	}
	out, err := s.repo.ListApproved(ctx, eventID, page)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if out == nil {
		out = []CommentResponse{}
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, actor *auth.User, eventID uint, req CreateRequest) (*CommentResponse, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}
	e, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	content := sanitize.Text(req.Content)
	if content == "" {
		return nil, errEmptyContent
	}

	c := &Comment{
		Content:    content,
		Rating:     req.Rating,
		UserID:     actor.ID,
		EventID:    e.ID,
		IsApproved: s.autoApprove,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	metrics.CommentsCreated.WithLabelValues(strconv.FormatBool(c.IsApproved)).Inc()

	if e.OrganizerID != actor.ID {
		activity.Emit(ctx, s.publisher, activity.Activity{
			Type:         activity.CommentCreated,
			ActorID:      actor.ID,
			EventID:      e.ID,
			RecipientIDs: []uint{e.OrganizerID},
			Title:        "New comment",
			Message:      fmt.Sprintf("%s commented on %q.", actor.FullName, e.Title),
		})
	}

	return &CommentResponse{Comment: *c, UserName: actor.FullName}, nil
}

func (s *service) Update(ctx context.Context, actor *auth.User, id uint, req UpdateRequest) (*CommentResponse, error) {
	c, err := s.owned(ctx, actor, id, "update this comment")
	if err != nil {
		return nil, err
	}

	if req.Content != nil {
		content := sanitize.Text(*req.Content)
		if content == "" {
			return nil, errEmptyContent
		}
		c.Content = content
	}
	if req.Rating != nil {
		c.Rating = req.Rating
	}

	if err := s.repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}

	out, err := s.repo.GetWithAuthor(ctx, c.ID)
	if err != nil {
		return nil, fmt.Errorf("reload comment: %w", err)
	}
	return out, nil
}

// Delete removes the comment row for good.
func (s *service) Delete(ctx context.Context, actor *auth.User, id uint, ip string) error {
	c, err := s.owned(ctx, actor, id, "delete this comment")
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	_ = s.auditSvc.LogAction(ctx, &actor.ID, &c.EventID, auditlog.ActionCommentDeleted,
		map[string]interface{}{"comment_id": c.ID, "author_id": c.UserID}, ip, auditlog.StatusSuccess)
	return nil
}

func (s *service) Pending(ctx context.Context, actor *auth.User, page pagination.Page) ([]CommentResponse, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}
	out, err := s.repo.ListPending(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	if out == nil {
		out = []CommentResponse{}
	}
	return out, nil
}

// Approve makes a comment publicly visible. Approving twice is a no-op.
func (s *service) Approve(ctx context.Context, actor *auth.User, id uint, ip string) error {
	if err := auth.RequireAdmin(actor); err != nil {
		return err
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if c.IsApproved {
		return nil
	}

	c.IsApproved = true
	if err := s.repo.Save(ctx, c); err != nil {
		return fmt.Errorf("approve comment: %w", err)
	}

	_ = s.auditSvc.LogAction(ctx, &actor.ID, &c.EventID, auditlog.ActionCommentApproved,
		map[string]interface{}{"comment_id": c.ID}, ip, auditlog.StatusSuccess)

	if c.UserID != actor.ID {
		activity.Emit(ctx, s.publisher, activity.Activity{
			Type:         activity.CommentApproved,
			ActorID:      actor.ID,
			EventID:      c.EventID,
			RecipientIDs: []uint{c.UserID},
			Title:        "Comment approved",
			Message:      "Your comment is now visible to other attendees.",
		})
	}
	return nil
}

func (s *service) get(ctx context.Context, id uint) (*Comment, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

func (s *service) owned(ctx context.Context, actor *auth.User, id uint, action string) (*Comment, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}
	c, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auth.RequireOwnerOrAdmin(actor, c.UserID, action); err != nil {
		return nil, err
	}
	return c, nil
}
