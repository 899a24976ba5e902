package auditlog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auditlog"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (auditlog.Service, *gorm.DB, *auth.User, *event.Event) {
	t.Helper()
	db := testutil.NewDB(t, &auth.User{}, &event.Event{}, &auditlog.AuditLog{})

	u := &auth.User{Email: "admin@example.com", FullName: "Admin User", HashedPassword: "x", Role: auth.RoleAdmin, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	e := &event.Event{Title: "Tech Conference", Description: "d", Category: "Technology",
		Date: time.Date(2030, 3, 15, 0, 0, 0, 0, time.UTC), Time: "18:00", Location: "SF", MaxAttendees: 10, OrganizerID: u.ID, IsActive: true}
	require.NoError(t, db.Create(e).Error)

	return auditlog.NewService(auditlog.NewRepository(db)), db, u, e
}

func TestLogActionAndFilter(t *testing.T) {
	svc, _, u, e := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.LogAction(ctx, &u.ID, nil, auditlog.ActionLogin, nil, "10.0.0.1", auditlog.StatusSuccess))
	require.NoError(t, svc.LogAction(ctx, &u.ID, &e.ID, auditlog.ActionEventCreated,
		map[string]interface{}{"title": e.Title}, "10.0.0.1", auditlog.StatusSuccess))
	require.NoError(t, svc.LogAction(ctx, nil, nil, auditlog.ActionLogin,
		map[string]interface{}{"email": "nobody@example.com"}, "10.0.0.2", auditlog.StatusFailure))

	all, err := svc.GetAuditLogs(ctx, auditlog.AuditLogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 1, all.Page)
	assert.Equal(t, 20, all.Limit)
	assert.Equal(t, 1, all.TotalPages)
	require.Len(t, all.Data, 3)
	assert.Nil(t, all.Data[0].UserName)

	created := all.Data[1]
	assert.Equal(t, auditlog.ActionEventCreated, created.Action)
	require.NotNil(t, created.UserName)
	assert.Equal(t, "Admin User", *created.UserName)
	require.NotNil(t, created.EventTitle)
	assert.Equal(t, "Tech Conference", *created.EventTitle)

	var details map[string]string
	require.NoError(t, json.Unmarshal(created.Details, &details))
	assert.Equal(t, "Tech Conference", details["title"])

	failures, err := svc.GetAuditLogs(ctx, auditlog.AuditLogFilter{Status: auditlog.StatusFailure})
	require.NoError(t, err)
	assert.Equal(t, int64(1), failures.Total)

	logins, err := svc.GetAuditLogs(ctx, auditlog.AuditLogFilter{Action: "login", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), logins.Total)
	assert.Len(t, logins.Data, 1)
	assert.Equal(t, 2, logins.TotalPages)

	byEvent, err := svc.GetAuditLogs(ctx, auditlog.AuditLogFilter{EventID: &e.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byEvent.Total)
}

func TestGetAuditLogByID(t *testing.T) {
	svc, db, u, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.LogAction(ctx, &u.ID, nil, auditlog.ActionProfileUpdated, nil, "", auditlog.StatusSuccess))
	var row auditlog.AuditLog
	require.NoError(t, db.First(&row).Error)

	got, err := svc.GetAuditLogByID(ctx, row.ID)
	require.NoError(t, err)
	assert.Equal(t, auditlog.ActionProfileUpdated, got.Action)

	_, err = svc.GetAuditLogByID(ctx, row.ID+100)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestHandlerRejectsBadDates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _, _, _ := setup(t)
	h := auditlog.NewHandler(svc)

	r := gin.New()
	r.GET("/auditlogs", h.GetAuditLogs)
	r.GET("/auditlogs/:id", h.GetAuditLogByID)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auditlogs?from_date=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auditlogs?to_date=2099-01-01", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auditlogs/42", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
