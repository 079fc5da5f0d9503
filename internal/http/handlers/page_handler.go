// README: Browser-facing handlers; every action redirects back to the session's current page.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripgenie/internal/display"
	"tripgenie/internal/http/middleware"
	"tripgenie/internal/shell"
	"tripgenie/internal/trip"
)

// SessionShell is the part of *shell.Shell the pages drive.
type SessionShell interface {
	Current(ctx context.Context, sid string) (shell.State, error)
	Submit(ctx context.Context, sid string, prefs trip.Preferences) error
	Reset(ctx context.Context, sid string) error
}

type PageHandler struct {
	shell  SessionShell
	logger *zap.Logger
}

func NewPageHandler(sh SessionShell, logger *zap.Logger) *PageHandler {
	return &PageHandler{shell: sh, logger: logger.Named("pages")}
}

type stateResponse struct {
	Status shell.Status `json:"status"`
	State  shell.State  `json:"state"`
}

// Index handles GET /. ?day=N picks the expanded day of a finished itinerary.
func (h *PageHandler) Index(c *gin.Context) {
	st, err := h.shell.Current(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.logger.Error("load session", zap.Error(err))
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.HTML(http.StatusOK, display.PageTemplate, display.PageFor(st, openDay(c)))
}

// Plan handles POST /plan.
func (h *PageHandler) Plan(c *gin.Context) {
	var prefs trip.Preferences
	if err := c.ShouldBind(&prefs); err != nil {
		page := display.PageFor(shell.Idle{
			Form:     trip.DefaultPreferences(),
			Problems: []trip.FieldProblem{{Field: "form", Message: "could not be read"}},
		}, 0)
		c.HTML(http.StatusBadRequest, display.PageTemplate, page)
		return
	}

	err := h.shell.Submit(c.Request.Context(), middleware.SessionID(c), prefs)
	switch {
	case err == nil,
		// the rejected form and its problems are already stored on the session
		errors.Is(err, trip.ErrInvalidPreferences),
		// a double submit just shows whatever is in progress
		errors.Is(err, shell.ErrBusy),
		errors.Is(err, shell.ErrInvalidTransition):
		c.Redirect(http.StatusSeeOther, "/")
	default:
		h.logger.Error("submit", zap.Error(err))
		writeServiceError(c, err)
	}
}

// Reset handles POST /reset, behind both "Plan a new trip" and "Try again".
func (h *PageHandler) Reset(c *gin.Context) {
	err := h.shell.Reset(c.Request.Context(), middleware.SessionID(c))
	if err != nil && !errors.Is(err, shell.ErrBusy) {
		h.logger.Error("reset", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// State handles GET /api/state.
func (h *PageHandler) State(c *gin.Context) {
	st, err := h.shell.Current(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.logger.Error("load session", zap.Error(err))
		writeServiceError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, stateResponse{Status: st.Status(), State: st})
}

func openDay(c *gin.Context) int {
	raw, ok := c.GetQuery("day")
	if !ok {
		return display.DefaultOpenDay
	}
	day, err := strconv.Atoi(raw)
	if err != nil || day < 0 {
		return display.DefaultOpenDay
	}
	return day
}
