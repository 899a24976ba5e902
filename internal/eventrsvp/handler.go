package eventrsvp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// ===========================
// RSVP - POST /events/:id/rsvp
// @Summary Create or update the caller's RSVP
// @Tags RSVPs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body UpsertRequest true "RSVP"
// @Success 200 {object} RSVP
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rsvp [post]
func (h *Handler) UpsertRSVP(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	eventID, ok := event.EventIDParam(c)
	if !ok {
		return
	}

	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid input: "+err.Error()))
		return
	}

	rsvp, err := h.service.Upsert(c.Request.Context(), user, eventID, req)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, rsvp)
}

// ===========================
// RSVP list - GET /events/:id/rsvps
// @Summary List RSVPs (all for owner/admin, own otherwise)
// @Tags RSVPs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {array} Attendee
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rsvps [get]
func (h *Handler) ListRSVPs(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	eventID, ok := event.EventIDParam(c)
	if !ok {
		return
	}

	rows, err := h.service.List(c.Request.Context(), user, eventID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ===========================
// Check-in - POST /events/:id/rsvps/:rsvp_id/check-in
// @Summary Mark an attendee as checked in (owner or admin)
// @Tags RSVPs
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param rsvp_id path int true "RSVP ID"
// @Success 200 {object} RSVP
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rsvps/{rsvp_id}/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	eventID, ok := event.EventIDParam(c)
	if !ok {
		return
	}
	rsvpID, err := strconv.ParseUint(c.Param("rsvp_id"), 10, 32)
	if err != nil || rsvpID == 0 {
		apperr.Respond(c, apperr.NotFound("RSVP not found"))
		return
	}

	rsvp, err := h.service.CheckIn(c.Request.Context(), user, eventID, uint(rsvpID), auth.ClientIP(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, rsvp)
}
