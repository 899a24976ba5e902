package seed

import (
	"context"
	"testing"
	"time"

	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/eventrsvp"
	"github.com/sharath018/eventify-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSeedsOnce(t *testing.T) {
	db := testutil.NewDB(t, &auth.User{}, &event.Event{}, &eventrsvp.RSVP{})
	ctx := context.Background()
	now := time.Date(2030, 1, 10, 15, 30, 0, 0, time.UTC)

	res, err := Run(ctx, db, now)
	require.NoError(t, err)
	assert.Equal(t, Result{Users: 5, Events: 5, RSVPs: 6}, res)

	var admin auth.User
	require.NoError(t, db.Where("email = ?", "admin@eventify.com").First(&admin).Error)
	assert.Equal(t, auth.RoleAdmin, admin.Role)
	assert.True(t, auth.VerifyPassword("admin123", admin.HashedPassword))

	var evs []event.Event
	require.NoError(t, db.Order("date").Find(&evs).Error)
	require.Len(t, evs, 5)
	for _, e := range evs {
		assert.True(t, e.Date.After(now), e.Title)
		assert.True(t, e.IsActive)
	}
	assert.Equal(t, "Technology", evs[0].Category)

	again, err := Run(ctx, db, now)
	require.NoError(t, err)
	assert.True(t, again.Skipped)

	var n int64
	require.NoError(t, db.Model(&eventrsvp.RSVP{}).Count(&n).Error)
	assert.Equal(t, int64(6), n)
}
