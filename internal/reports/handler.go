package reports

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
	"github.com/sharath018/eventify-backend/internal/event"
)

type Handler struct {
	service ReportService
}

func NewHandler(svc ReportService) *Handler {
	return &Handler{service: svc}
}

// ExportAttendees streams the RSVP list of an event as a file download.
// @Summary Export an event's RSVPs (owner or admin)
// @Tags RSVPs
// @Produce octet-stream
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param format query string false "csv (default), excel or pdf"
// @Param status query string false "Only RSVPs with this status"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /events/{id}/rsvps/export [get]
func (h *Handler) ExportAttendees(c *gin.Context) {
	user, err := auth.CurrentUser(c)
	if err != nil {
		apperr.Respond(c, err)
		return
	}
	eventID, ok := event.EventIDParam(c)
	if !ok {
		return
	}

	req := ExportRequest{
		EventID: eventID,
		Format:  strings.ToLower(c.DefaultQuery("format", FormatCSV)),
		Status:  c.Query("status"),
	}

	body, filename, mimeType, err := h.service.ExportAttendees(c.Request.Context(), user, req, auth.ClientIP(c))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mimeType, body)
}
