// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripgenie/internal/ai"
	"tripgenie/internal/shell"
	"tripgenie/internal/trip"
)

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Error    string              `json:"error"`
	Problems []trip.FieldProblem `json:"problems"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeServiceError maps planner and shell errors to HTTP responses.
// Generation causes are never exposed; clients get the generic message.
func writeServiceError(c *gin.Context, err error) {
	var verr *trip.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(c, http.StatusBadRequest, validationResponse{Error: trip.ErrInvalidPreferences.Error(), Problems: verr.Problems})
	case errors.Is(err, ai.ErrGenerationFailed):
		writeError(c, http.StatusBadGateway, ai.UserMessage)
	case errors.Is(err, shell.ErrBusy), errors.Is(err, shell.ErrInvalidTransition):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
