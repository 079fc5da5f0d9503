package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripgenie/internal/shell"
	"tripgenie/internal/trip"
)

// ItineraryHandler serves the stateless JSON API; it bypasses the session shell.
type ItineraryHandler struct {
	planner shell.Planner
	timeout time.Duration
	logger  *zap.Logger
}

func NewItineraryHandler(planner shell.Planner, timeout time.Duration, logger *zap.Logger) *ItineraryHandler {
	if timeout <= 0 {
		timeout = shell.DefaultGenerationTimeout
	}
	return &ItineraryHandler{planner: planner, timeout: timeout, logger: logger.Named("api")}
}

// Create handles POST /api/itineraries.
func (h *ItineraryHandler) Create(c *gin.Context) {
	var prefs trip.Preferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.planner.Plan(ctx, prefs)
	if err != nil {
		h.logger.Warn("itinerary request failed", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	if res.Sources == nil {
		res.Sources = []trip.Source{}
	}
	writeJSON(c, http.StatusOK, res)
}
