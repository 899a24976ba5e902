package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	h1, err := HashPassword("s3cret")
	require.NoError(t, err)
	h2, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "hashes must be salted")
	assert.True(t, VerifyPassword("s3cret", h1))
	assert.True(t, VerifyPassword("s3cret", h2))
	assert.False(t, VerifyPassword("S3cret", h1))
	assert.False(t, VerifyPassword("s3cret", "not-a-hash"))
}

func TestTokenRoundTrip(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	token, err := tm.Issue(42)
	require.NoError(t, err)

	id, err := tm.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestTokenRejections(t *testing.T) {
	tm, err := NewTokenManager("test-secret", "HS256", time.Hour)
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		token, err := tm.IssueWithTTL(7, -time.Minute)
		require.NoError(t, err)
		_, err = tm.Parse(token)
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewTokenManager("another-secret", "HS256", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue(7)
		require.NoError(t, err)
		_, err = tm.Parse(token)
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("wrong algorithm", func(t *testing.T) {
		other, err := NewTokenManager("test-secret", "HS512", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue(7)
		require.NoError(t, err)
		_, err = tm.Parse(token)
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("non numeric subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = tm.Parse(token)
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := tm.Parse("not.a.token")
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
		_, err = tm.Parse("")
		assert.True(t, errors.Is(err, apperr.ErrUnauthenticated))
	})
}

func TestNewTokenManagerRejectsAsymmetric(t *testing.T) {
	_, err := NewTokenManager("secret", "RS256", time.Hour)
	assert.Error(t, err)
}

func TestTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", TokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", TokenFromHeader("bearer  abc "))
	assert.Equal(t, "", TokenFromHeader("Basic abc"))
	assert.Equal(t, "", TokenFromHeader("Bearer"))
	assert.Equal(t, "", TokenFromHeader(""))
}

func TestGuards(t *testing.T) {
	attendee := &User{ID: 1, Role: RoleAttendee, IsActive: true}
	organizer := &User{ID: 2, Role: RoleOrganizer, IsActive: true}
	admin := &User{ID: 3, Role: RoleAdmin, IsActive: true}
	disabled := &User{ID: 4, Role: RoleAdmin, IsActive: false}

	assert.NoError(t, RequireActive(attendee))
	assert.ErrorIs(t, RequireActive(disabled), apperr.ErrAccountDisabled)
	assert.ErrorIs(t, RequireActive(nil), apperr.ErrUnauthenticated)

	assert.NoError(t, RequireOrganizerOrAdmin(organizer))
	assert.NoError(t, RequireOrganizerOrAdmin(admin))
	assert.ErrorIs(t, RequireOrganizerOrAdmin(attendee), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireOrganizerOrAdmin(disabled), apperr.ErrAccountDisabled)

	assert.NoError(t, RequireAdmin(admin))
	assert.ErrorIs(t, RequireAdmin(organizer), apperr.ErrForbidden)

	assert.NoError(t, RequireOwnerOrAdmin(organizer, 2, "update this event"))
	assert.NoError(t, RequireOwnerOrAdmin(admin, 2, "update this event"))
	err := RequireOwnerOrAdmin(attendee, 2, "update this event")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.EqualError(t, err, "Not authorized to update this event")
}
