package notification

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/pagination"
)

// TokenResolver turns a bearer token into an active user. auth.Service
// satisfies it.
type TokenResolver interface {
	ResolveUser(ctx context.Context, token string) (*auth.User, error)
}

type Handler struct {
	Service  Service
	redis    *redis.Client
	resolver TokenResolver
}

func NewHandler(s Service, rdb *redis.Client, resolver TokenResolver) *Handler {
	return &Handler{Service: s, redis: rdb, resolver: resolver}
}

// GET /api/v1/notifications
// @Summary Caller's in-app notifications, newest first
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20, max 100)"
// @Param unread query bool false "Only unread"
// @Success 200 {array} InAppNotification
// @Router /notifications [get]
func (h *Handler) GetMyInApp(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	page := pagination.FromQuery(c, 20, 100)
	unread, _ := strconv.ParseBool(c.Query("unread"))

	items, err := h.Service.ListInAppByUser(c.Request.Context(), user.ID, ListFilter{Limit: page.Limit, UnreadOnly: unread})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	count, err := h.Service.UnreadCount(c.Request.Context(), user.ID)
	if err == nil {
		c.Header("X-Unread-Count", strconv.FormatInt(count, 10))
	}
	c.JSON(http.StatusOK, items)
}

// PUT /api/v1/notifications/:id/read
// @Summary Mark one notification as read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /notifications/{id}/read [put]
func (h *Handler) MarkInAppRead(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		apperr.Respond(c, apperr.NotFound("Notification not found"))
		return
	}

	if err := h.Service.MarkInAppAsRead(c.Request.Context(), uint(id), user.ID); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "marked as read"})
}

// GET /api/v1/notifications/stream (SSE)
// @Summary Live notification stream (server-sent events)
// @Tags Notifications
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {string} string
// @Failure 503 {object} map[string]string
// @Router /notifications/stream [get]
func (h *Handler) StreamInApp(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	h.stream(c, user.ID)
}

// StreamInAppWithToken serves the stream without auth middleware.
// EventSource cannot send an Authorization header, so the token travels in the query.
// @Summary Live notification stream authenticated by query token
// @Tags Notifications
// @Produce text/event-stream
// @Param token query string true "Access token"
// @Success 200 {string} string
// @Failure 401 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /notifications/stream-token [get]
func (h *Handler) StreamInAppWithToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" || h.resolver == nil {
		apperr.Respond(c, apperr.ErrUnauthenticated)
		return
	}
	user, err := h.resolver.ResolveUser(c.Request.Context(), token)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	if err := auth.RequireActive(user); err != nil {
		apperr.Respond(c, err)
		return
	}
	h.stream(c, user.ID)
}

func (h *Handler) stream(c *gin.Context, userID uint) {
	if h.redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Live notifications are not enabled"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	ctx := c.Request.Context()
	sub := h.redis.Subscribe(ctx, Channel(userID))
	defer sub.Close()

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: inapp\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-ctx.Done():
			return
		}
	}
}
