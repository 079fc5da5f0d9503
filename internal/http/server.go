// README: HTTP gateway; wires middleware and routes onto a gin engine.
package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"tripgenie/internal/http/handlers"
	"tripgenie/internal/shell"
)

type ServerDeps struct {
	Shell   handlers.SessionShell
	Planner shell.Planner
	Logger  *zap.Logger

	SessionTTL        time.Duration
	GenerationTimeout time.Duration
	RateLimitPerMin   int
	CORSOrigins       []string
	// TraceService enables per-request spans under this service name when set.
	TraceService string
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	return NewRouter(s.deps)
}
