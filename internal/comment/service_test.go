package comment

import (
	"context"
	"testing"

	"github.com/sharath018/eventify-backend/internal/activity"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/pagination"
	"github.com/sharath018/eventify-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var firstPage = pagination.Page{Skip: 0, Limit: 50}

type fixture struct {
	db        *gorm.DB
	events    event.Service
	recorder  *testutil.Recorder
	organizer *auth.User
	author    *auth.User
	other     *auth.User
	admin     *auth.User
	event     *event.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t, &auth.User{}, &event.Event{}, &Comment{}, &auditlog.AuditLog{})
	rec := &testutil.Recorder{}
	audit := auditlog.NewService(auditlog.NewRepository(db))
	events := event.NewService(event.NewRepository(db), audit, rec)

	f := &fixture{
		db:        db,
		events:    events,
		recorder:  rec,
		organizer: createUser(t, db, "organizer@example.com", "Event Organizer", auth.RoleOrganizer),
		author:    createUser(t, db, "jane@example.com", "Jane Smith", auth.RoleAttendee),
		other:     createUser(t, db, "john@example.com", "John Doe", auth.RoleAttendee),
		admin:     createUser(t, db, "admin@example.com", "Admin User", auth.RoleAdmin),
	}
	e, err := events.Create(context.Background(), f.organizer, event.CreateEventRequest{
		Title: "Music Festival", Description: "Outdoor music", Category: "Music",
		Date: "2030-06-01", Location: "Austin, TX", MaxAttendees: 1000,
	}, "")
	require.NoError(t, err)
	f.event = e
	return f
}

func (f *fixture) service(autoApprove bool) Service {
	audit := auditlog.NewService(auditlog.NewRepository(f.db))
	return NewService(NewRepository(f.db), f.events, audit, f.recorder, autoApprove)
}

func createUser(t *testing.T, db *gorm.DB, email, name, role string) *auth.User {
	t.Helper()
	u := &auth.User{Email: email, FullName: name, HashedPassword: "x", Role: role, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func TestCreateAndList(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.event.ID, CreateRequest{Content: "Great lineup!", Rating: intPtr(5)})
	require.NoError(t, err)
	assert.True(t, created.IsApproved)
	assert.Equal(t, "Jane Smith", created.UserName)
	require.NotNil(t, created.Rating)
	assert.Equal(t, 5, *created.Rating)

	_, err = svc.Create(ctx, f.other, f.event.ID, CreateRequest{Content: "See you there"})
	require.NoError(t, err)

	list, err := svc.List(ctx, f.event.ID, firstPage)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Great lineup!", list[0].Content)
	assert.Equal(t, "Jane Smith", list[0].UserName)
	assert.Equal(t, "John Doe", list[1].UserName)
	assert.Nil(t, list[1].Rating)

	paged, err := svc.List(ctx, f.event.ID, pagination.Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "See you there", paged[0].Content)

	created2 := f.recorder.OfType(activity.CommentCreated)
	require.Len(t, created2, 2)
	assert.Equal(t, []uint{f.organizer.ID}, created2[0].RecipientIDs)
}

func TestCreateRejections(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true)
	ctx := context.Background()

	_, err := svc.Create(ctx, f.author, 9999, CreateRequest{Content: "hello"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.Create(ctx, f.author, f.event.ID, CreateRequest{Content: "<script>alert(1)</script>"})
	assert.ErrorIs(t, err, apperr.ErrBadRequest)

	require.NoError(t, f.events.Delete(ctx, f.organizer, f.event.ID, ""))
	_, err = svc.Create(ctx, f.author, f.event.ID, CreateRequest{Content: "hello"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.List(ctx, f.event.ID, firstPage)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestModeration(t *testing.T) {
	f := newFixture(t)
	svc := f.service(false)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.event.ID, CreateRequest{Content: "Needs review"})
	require.NoError(t, err)
	assert.False(t, created.IsApproved)

	visible, err := svc.List(ctx, f.event.ID, firstPage)
	require.NoError(t, err)
	assert.Empty(t, visible)

	_, err = svc.Pending(ctx, f.author, firstPage)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	pending, err := svc.Pending(ctx, f.admin, firstPage)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)
	assert.Equal(t, "Jane Smith", pending[0].UserName)

	assert.ErrorIs(t, svc.Approve(ctx, f.organizer, created.ID, ""), apperr.ErrForbidden)
	assert.ErrorIs(t, svc.Approve(ctx, f.admin, 9999, ""), apperr.ErrNotFound)
	require.NoError(t, svc.Approve(ctx, f.admin, created.ID, "10.0.0.1"))
	require.NoError(t, svc.Approve(ctx, f.admin, created.ID, ""))

	visible, err = svc.List(ctx, f.event.ID, firstPage)
	require.NoError(t, err)
	require.Len(t, visible, 1)

	pending, err = svc.Pending(ctx, f.admin, firstPage)
	require.NoError(t, err)
	assert.Empty(t, pending)

	approved := f.recorder.OfType(activity.CommentApproved)
	require.Len(t, approved, 1)
	assert.Equal(t, []uint{f.author.ID}, approved[0].RecipientIDs)

	var audits int64
	require.NoError(t, f.db.Model(&auditlog.AuditLog{}).Where("action = ?", auditlog.ActionCommentApproved).Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestUpdatePermissionsAndPatch(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.event.ID, CreateRequest{Content: "Good", Rating: intPtr(3)})
	require.NoError(t, err)

	_, err = svc.Update(ctx, f.other, created.ID, UpdateRequest{Content: strPtr("Bad")})
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	assert.EqualError(t, err, "Not authorized to update this comment")

	updated, err := svc.Update(ctx, f.author, created.ID, UpdateRequest{Rating: intPtr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Good", updated.Content)
	assert.Equal(t, 4, *updated.Rating)
	assert.Equal(t, "Jane Smith", updated.UserName)

	byAdmin, err := svc.Update(ctx, f.admin, created.ID, UpdateRequest{Content: strPtr("Edited by admin")})
	require.NoError(t, err)
	assert.Equal(t, "Edited by admin", byAdmin.Content)
	assert.Equal(t, "Jane Smith", byAdmin.UserName)

	_, err = svc.Update(ctx, f.author, 9999, UpdateRequest{Content: strPtr("x")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	svc := f.service(true)
	ctx := context.Background()

	created, err := svc.Create(ctx, f.author, f.event.ID, CreateRequest{Content: "Bye"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, f.other, created.ID, ""), apperr.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, f.author, created.ID, ""))
	assert.ErrorIs(t, svc.Delete(ctx, f.author, created.ID, ""), apperr.ErrNotFound)

	var count int64
	require.NoError(t, f.db.Model(&Comment{}).Count(&count).Error)
	assert.Zero(t, count)
}
