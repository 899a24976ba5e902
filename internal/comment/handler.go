package comment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
	"github.com/sharath018/eventify-backend/internal/pagination"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// ===========================
// List Comments - GET /events/:id/comments
// @Summary Approved comments for an active event
// @Tags Comments
// @Produce json
// @Param id path int true "Event ID"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 50, max 100)"
// @Success 200 {array} CommentResponse
// @Failure 404 {object} map[string]string
// @Router /events/{id}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	eventID, ok := event.EventIDParam(c)
	if !ok {
		return
	}

	out, err := h.service.List(c.Request.Context(), eventID, pagination.FromQuery(c, 50, 100))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ===========================
// Create Comment - POST /events/:id/comments
// @Summary Comment on an event
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body CreateRequest true "Comment"
// @Success 201 {object} CommentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	eventID, ok := event.EventIDParam(c)
	if !ok {
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid input: "+err.Error()))
		return
	}

	out, err := h.service.Create(c.Request.Context(), user, eventID, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ===========================
// Update Comment - PUT /events/comments/:comment_id
// @Summary Edit a comment (author or admin)
// @Tags Comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param comment_id path int true "Comment ID"
// @Param body body UpdateRequest true "Fields to change"
// @Success 200 {object} CommentResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/comments/{comment_id} [put]
// @Router /comments/{comment_id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	id, ok := commentIDParam(c)
	if !ok {
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid input: "+err.Error()))
		return
	}

	out, err := h.service.Update(c.Request.Context(), user, id, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ===========================
// Delete Comment - DELETE /events/comments/:comment_id
// @Summary Delete a comment (author or admin)
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/comments/{comment_id} [delete]
// @Router /comments/{comment_id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	id, ok := commentIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id, auth.ClientIP(c)); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// ===========================
// Pending Comments - GET /events/comments/pending
// @Summary Comments waiting for moderation (admin)
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (default 50, max 100)"
// @Success 200 {array} CommentResponse
// @Failure 403 {object} map[string]string
// @Router /events/comments/pending [get]
// @Router /comments/pending [get]
func (h *Handler) ListPending(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	out, err := h.service.Pending(c.Request.Context(), user, pagination.FromQuery(c, 50, 100))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// ===========================
// Approve Comment - PUT /events/comments/:comment_id/approve
// @Summary Approve a pending comment (admin)
// @Tags Comments
// @Produce json
// @Security BearerAuth
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/comments/{comment_id}/approve [put]
// @Router /comments/{comment_id}/approve [put]
func (h *Handler) ApproveComment(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	id, ok := commentIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Approve(c.Request.Context(), user, id, auth.ClientIP(c)); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment approved successfully"})
}

func commentIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("comment_id"), 10, 32)
	if err != nil || id == 0 {
		apperr.Respond(c, errCommentNotFound)
		return 0, false
	}
	return uint(id), true
}
