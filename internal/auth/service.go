package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/metrics"
	"gorm.io/gorm"
)

type Service interface {
	Register(ctx context.Context, in RegisterInput, ip string) (*TokenResponse, error)
	Login(ctx context.Context, email, password, ip string) (*TokenResponse, error)
	ResolveUser(ctx context.Context, token string) (*User, error)
	GetUserByID(ctx context.Context, userID uint) (*User, error)
}

type service struct {
	repo     Repository
	tokens   *TokenManager
	auditSvc auditlog.Service
}

func NewService(r Repository, tokens *TokenManager, auditSvc auditlog.Service) Service {
	return &service{repo: r, tokens: tokens, auditSvc: auditSvc}
}

// =============================
// Register
// =============================

func (s *service) Register(ctx context.Context, in RegisterInput, ip string) (*TokenResponse, error) {
	email := strings.TrimSpace(in.Email)
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = RoleAttendee
	}
	if role == RoleAdmin {
		return nil, apperr.Forbidden("Admin registration is not allowed")
	}
	if !IsValidRole(role) {
		return nil, apperr.BadRequest("Invalid role")
	}

	taken, err := s.repo.EmailTaken(ctx, email, 0)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, apperr.BadRequest("Email already registered")
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:          email,
		FullName:       strings.TrimSpace(in.FullName),
		HashedPassword: hash,
		Role:           role,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// A concurrent registration can win between the check and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.BadRequest("Email already registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.UsersRegistered.WithLabelValues(role).Inc()
	_ = s.auditSvc.LogAction(ctx, &user.ID, nil, auditlog.ActionUserRegistered,
		map[string]interface{}{"email": user.Email, "role": user.Role}, ip, auditlog.StatusSuccess)

	return s.tokenResponse(user)
}

// =============================
// Login
// =============================

func (s *service) Login(ctx context.Context, email, password, ip string) (*TokenResponse, error) {
	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || !VerifyPassword(password, user.HashedPassword) {
		metrics.LoginAttempts.WithLabelValues("bad_credentials").Inc()
		var uid *uint
		if user != nil {
			uid = &user.ID
		}
		_ = s.auditSvc.LogAction(ctx, uid, nil, auditlog.ActionLogin,
			map[string]interface{}{"email": email, "reason": "bad credentials"}, ip, auditlog.StatusFailure)
		return nil, apperr.Unauthenticated("Incorrect email or password")
	}

	if !user.IsActive {
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		_ = s.auditSvc.LogAction(ctx, &user.ID, nil, auditlog.ActionLogin,
			map[string]interface{}{"email": email, "reason": "inactive"}, ip, auditlog.StatusFailure)
		return nil, apperr.ErrAccountDisabled
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	_ = s.auditSvc.LogAction(ctx, &user.ID, nil, auditlog.ActionLogin,
		map[string]interface{}{"email": email}, ip, auditlog.StatusSuccess)

	return s.tokenResponse(user)
}

// ResolveUser maps a bearer token to its user. Inactive users are returned;
// callers apply RequireActive.
func (s *service) ResolveUser(ctx context.Context, token string) (*User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Ctx(ctx).Debug().Uint("user_id", userID).Msg("token subject no longer exists")
		return nil, apperr.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("load token user: %w", err)
	}
	return user, nil
}

func (s *service) GetUserByID(ctx context.Context, userID uint) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *service) tokenResponse(user *User) (*TokenResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Summary(),
	}, nil
}
