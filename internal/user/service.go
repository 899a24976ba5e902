package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/pagination"
	"gorm.io/gorm"
)

// UpdateProfileRequest is a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=255"`
	Password *string `json:"password" binding:"omitempty,max=72"`
	IsActive *bool   `json:"is_active"`
}

type Service interface {
	UpdateProfile(ctx context.Context, actor *auth.User, req UpdateProfileRequest, ip string) (*auth.UserResponse, error)
	List(ctx context.Context, actor *auth.User, page pagination.Page) ([]auth.UserResponse, error)
	Get(ctx context.Context, actor *auth.User, userID uint) (*auth.UserResponse, error)
}

type service struct {
	users    auth.Repository
	auditSvc auditlog.Service
}

func NewService(users auth.Repository, auditSvc auditlog.Service) Service {
	return &service{users: users, auditSvc: auditSvc}
}

func (s *service) UpdateProfile(ctx context.Context, actor *auth.User, req UpdateProfileRequest, ip string) (*auth.UserResponse, error) {
	if err := auth.RequireActive(actor); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	changed := []string{}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != actor.Email {
			taken, err := s.users.EmailTaken(ctx, email, actor.ID)
			if err != nil {
				return nil, fmt.Errorf("check email: %w", err)
			}
			if taken {
				return nil, apperr.BadRequest("Email already registered")
			}
			fields["email"] = email
			changed = append(changed, "email")
		}
	}
	if req.FullName != nil {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
		changed = append(changed, "full_name")
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields["hashed_password"] = hash
		changed = append(changed, "password")
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
		changed = append(changed, "is_active")
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, actor.ID, fields); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperr.BadRequest("Email already registered")
			}
			return nil, fmt.Errorf("update profile: %w", err)
		}
		_ = s.auditSvc.LogAction(ctx, &actor.ID, nil, auditlog.ActionProfileUpdated,
			map[string]interface{}{"fields": changed}, ip, auditlog.StatusSuccess)
	}

	updated, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("reload profile: %w", err)
	}
	resp := updated.Response()
	return &resp, nil
}

func (s *service) List(ctx context.Context, actor *auth.User, page pagination.Page) ([]auth.UserResponse, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users.List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]auth.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, users[i].Response())
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, actor *auth.User, userID uint) (*auth.UserResponse, error) {
	if err := auth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	resp := u.Response()
	return &resp, nil
}
