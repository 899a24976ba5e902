package event

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/pagination"
	"github.com/sharath018/eventify-backend/internal/validation"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// ===========================
// List Events - GET /events
// @Summary List active events
// @Tags Events
// @Produce json
// @Param search query string false "Substring of title or description"
// @Param category query string false "Category substring"
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Param location query string false "Location substring"
// @Param created_by query int false "Organizer id"
// @Param rsvp_status query string false "Only events the caller RSVP'd to with this status"
// @Param skip query int false "Offset"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {array} Event
// @Router /events [get]
func (h *Handler) ListEvents(c *gin.Context) {
	page := pagination.FromQuery(c, 100, 100)
	f := ListFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Location: c.Query("location"),
		Skip:     page.Skip,
		Limit:    page.Limit,
	}

	if day, ok := DayStart(c.Query("date")); ok {
		f.Day = &day
	}
	if v, err := strconv.ParseUint(c.Query("created_by"), 10, 32); err == nil {
		id := uint(v)
		f.CreatedBy = &id
	}
	if status := c.Query("rsvp_status"); validation.IsRSVPStatus(status) {
		if viewer := auth.OptionalUser(c); viewer != nil {
			f.RSVPStatus = status
			f.ViewerID = &viewer.ID
		}
	}

	events, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ===========================
// Get Event - GET /events/:id
// @Summary Get an active event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} Event
// @Failure 404 {object} map[string]string
// @Router /events/{id} [get]
func (h *Handler) GetEvent(c *gin.Context) {
	id, ok := EventIDParam(c)
	if !ok {
		return
	}

	e, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ===========================
// Create Event - POST /events
// @Summary Create an event (organizer or admin)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event"
// @Success 201 {object} Event
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /events [post]
func (h *Handler) CreateEvent(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid input: "+err.Error()))
		return
	}

	e, err := h.service.Create(c.Request.Context(), user, req, auth.ClientIP(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ===========================
// Update Event - PUT /events/:id
// @Summary Update an event (owner or admin)
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} Event
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [put]
func (h *Handler) UpdateEvent(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	id, ok := EventIDParam(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Respond(c, apperr.BadRequest("invalid input: "+err.Error()))
		return
	}

	e, err := h.service.Update(c.Request.Context(), user, id, req, auth.ClientIP(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ===========================
// Delete Event - DELETE /events/:id
// @Summary Soft-delete an event (owner or admin)
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id} [delete]
func (h *Handler) DeleteEvent(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	id, ok := EventIDParam(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, id, auth.ClientIP(c)); err != nil {
		apperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// EventIDParam parses :id and responds NotFound when it is not a positive integer.
func EventIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		apperr.Respond(c, errEventNotFound)
		return 0, false
	}
	return uint(id), true
}
