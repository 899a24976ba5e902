package user

import (
	"context"
	"testing"

	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/pagination"
	"github.com/sharath018/eventify-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, email, role string) *auth.User {
	t.Helper()
	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	u := &auth.User{Email: email, FullName: email, HashedPassword: hash, Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func setup(t *testing.T) (Service, *gorm.DB) {
	db := testutil.NewDB(t, &auth.User{}, &auditlog.AuditLog{})
	return NewService(auth.NewRepository(db), auditlog.NewService(auditlog.NewRepository(db))), db
}

func ptr[T any](v T) *T { return &v }

func TestUpdateProfile(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	jane := seedUser(t, db, "jane@example.com", auth.RoleAttendee)
	seedUser(t, db, "john@example.com", auth.RoleAttendee)

	resp, err := svc.UpdateProfile(ctx, jane, UpdateProfileRequest{
		FullName: ptr("Jane Q. Smith"),
		Password: ptr("new-password"),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "Jane Q. Smith", resp.FullName)
	assert.Equal(t, auth.RoleAttendee, resp.Role)

	var stored auth.User
	require.NoError(t, db.First(&stored, jane.ID).Error)
	assert.True(t, auth.VerifyPassword("new-password", stored.HashedPassword))
	assert.NotEqual(t, "new-password", stored.HashedPassword)

	_, err = svc.UpdateProfile(ctx, jane, UpdateProfileRequest{Email: ptr("john@example.com")}, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	resp, err = svc.UpdateProfile(ctx, jane, UpdateProfileRequest{Email: ptr("jane@example.com")}, "")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.Email)
}

type staleEmailCheck struct {
	auth.Repository
}

func (staleEmailCheck) EmailTaken(context.Context, string, uint) (bool, error) {
	return false, nil
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	db := testutil.NewDB(t, &auth.User{}, &auditlog.AuditLog{})
	svc := NewService(staleEmailCheck{auth.NewRepository(db)}, auditlog.NewService(auditlog.NewRepository(db)))
	jane := seedUser(t, db, "jane@example.com", auth.RoleAttendee)
	seedUser(t, db, "john@example.com", auth.RoleAttendee)

	_, err := svc.UpdateProfile(context.Background(), jane, UpdateProfileRequest{Email: ptr("john@example.com")}, "")
	assert.ErrorIs(t, err, apperr.ErrBadRequest)
	assert.EqualError(t, err, "Email already registered")

	var stored auth.User
	require.NoError(t, db.First(&stored, jane.ID).Error)
	assert.Equal(t, "jane@example.com", stored.Email)
}

func TestUpdateProfileDeactivate(t *testing.T) {
	svc, db := setup(t)
	jane := seedUser(t, db, "jane@example.com", auth.RoleAttendee)

	resp, err := svc.UpdateProfile(context.Background(), jane, UpdateProfileRequest{IsActive: ptr(false)}, "")
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestAdminListAndGet(t *testing.T) {
	svc, db := setup(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin@eventify.com", auth.RoleAdmin)
	jane := seedUser(t, db, "jane@example.com", auth.RoleAttendee)
	seedUser(t, db, "john@example.com", auth.RoleAttendee)

	users, err := svc.List(ctx, admin, pagination.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, jane.ID, users[0].ID)

	_, err = svc.List(ctx, jane, pagination.Page{Limit: 10})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	got, err := svc.Get(ctx, admin, jane.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)

	_, err = svc.Get(ctx, admin, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Get(ctx, jane, admin.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}
