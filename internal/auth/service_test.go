package auth

import (
	"context"
	"testing"
	"time"

	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB, *TokenManager) {
	t.Helper()
	db := testutil.NewDB(t, &User{}, &auditlog.AuditLog{})
	tm, err := NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	audit := auditlog.NewService(auditlog.NewRepository(db))
	return NewService(NewRepository(db), tm, audit), db, tm
}

func TestRegisterAndLogin(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{
		Email: "jane@example.com", FullName: "Jane Smith", Password: "attendee123",
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, RoleAttendee, resp.User.Role)
	assert.True(t, resp.User.IsActive)

	var stored User
	require.NoError(t, db.First(&stored, resp.User.ID).Error)
	assert.NotEqual(t, "attendee123", stored.HashedPassword)

	login, err := svc.Login(ctx, "jane@example.com", "attendee123", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	resolved, err := svc.ResolveUser(ctx, login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resolved.Email)

	var audits int64
	require.NoError(t, db.Model(&auditlog.AuditLog{}).Count(&audits).Error)
	assert.Equal(t, int64(2), audits)
}

func TestRegisterRejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@example.com", FullName: "A", Password: "pw"}, "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@example.com", FullName: "A2", Password: "pw"}, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.EqualError(t, err, "Email already registered")

	_, err = svc.Register(ctx, RegisterInput{Email: "b@example.com", FullName: "B", Password: "pw", Role: "admin"}, "")
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	resp, err := svc.Register(ctx, RegisterInput{Email: "c@example.com", FullName: "C", Password: "pw", Role: "Organizer"}, "")
	require.NoError(t, err)
	assert.Equal(t, RoleOrganizer, resp.User.Role)
}

// staleEmailCheck lets a second registration past the pre-insert lookup.
type staleEmailCheck struct {
	Repository
}

func (staleEmailCheck) EmailTaken(context.Context, string, uint) (bool, error) {
	return false, nil
}

func TestRegisterDuplicateInsert(t *testing.T) {
	db := testutil.NewDB(t, &User{}, &auditlog.AuditLog{})
	tm, err := NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	svc := NewService(staleEmailCheck{NewRepository(db)}, tm, auditlog.NewService(auditlog.NewRepository(db)))
	ctx := context.Background()

	_, err = svc.Register(ctx, RegisterInput{Email: "race@example.com", FullName: "First", Password: "pw"}, "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "race@example.com", FullName: "Second", Password: "pw"}, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.EqualError(t, err, "Email already registered")

	var count int64
	require.NoError(t, db.Model(&User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLoginFailures(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterInput{Email: "john@example.com", FullName: "John", Password: "attendee123"}, "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "john@example.com", "wrong", "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	assert.EqualError(t, err, "Incorrect email or password")

	_, err = svc.Login(ctx, "nobody@example.com", "attendee123", "")
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

	require.NoError(t, db.Model(&User{}).Where("id = ?", resp.User.ID).Update("is_active", false).Error)
	_, err = svc.Login(ctx, "john@example.com", "attendee123", "")
	assert.ErrorIs(t, err, apperr.ErrAccountDisabled)
}

func TestResolveUserForDeletedSubject(t *testing.T) {
	svc, _, tm := newTestService(t)

	token, err := tm.Issue(999)
	require.NoError(t, err)

	_, err = svc.ResolveUser(context.Background(), token)
	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}
