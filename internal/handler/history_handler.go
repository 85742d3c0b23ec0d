package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/middleware"
	"github.com/thumbgrab/thumbnail-service-go/internal/models"
)

// HistoryHandler serves a signed-in user's download history.
type HistoryHandler struct {
	gw  gateway.HistoryFolderGateway
	now func() time.Time
}

func NewHistoryHandler(gw gateway.HistoryFolderGateway) *HistoryHandler {
	return &HistoryHandler{gw: gw, now: time.Now}
}

// filterSince converts a filter name to the lower time bound. "day" means
// since local midnight, not a rolling 24 hours; the other windows roll.
func (h *HistoryHandler) filterSince(filter string) (*time.Time, bool) {
	now := h.now()
	var since time.Time
	switch filter {
	case "", "all":
		return nil, true
	case "hour":
		since = now.Add(-time.Hour)
	case "day":
		since = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		since = now.AddDate(0, 0, -7)
	case "month":
		since = now.AddDate(0, -1, 0)
	default:
		return nil, false
	}
	return &since, true
}

// List returns the user's history, newest first, bounded by the filter query
// parameter.
func (h *HistoryHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	since, ok := h.filterSince(c.Query("filter"))
	if !ok {
		sendError(c, http.StatusBadRequest, "Bad Request",
			"Invalid filter: expected one of hour, day, week, month, all")
		return
	}

	entries, err := h.gw.ListHistory(c.Request.Context(), userID, since)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteEntry removes one history entry owned by the user.
func (h *HistoryHandler) DeleteEntry(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		sendError(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		sendError(c, http.StatusBadRequest, "Bad Request", "Invalid history entry ID")
		return
	}

	if err := h.gw.DeleteHistoryEntry(c.Request.Context(), id, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
