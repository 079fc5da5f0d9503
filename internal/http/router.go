// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tripgenie/internal/display"
	"tripgenie/internal/http/handlers"
	"tripgenie/internal/http/middleware"
)

func NewRouter(deps ServerDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.RequestID())
	if deps.TraceService != "" {
		r.Use(middleware.Trace(deps.TraceService))
	}
	r.Use(middleware.Logging(logger), middleware.Metrics())
	r.SetHTMLTemplate(display.Templates())

	r.GET("/health", handlers.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limiter := middleware.NewRateLimiter(deps.RateLimitPerMin)
	session := middleware.Session(deps.SessionTTL)

	pages := handlers.NewPageHandler(deps.Shell, logger)
	r.GET("/", session, pages.Index)
	r.POST("/plan", session, limiter.Limit(), pages.Plan)
	r.POST("/reset", session, pages.Reset)

	api := r.Group("/api", middleware.CORS(deps.CORSOrigins))
	api.OPTIONS("/*path", func(*gin.Context) {})
	api.GET("/state", session, pages.State)

	itineraries := handlers.NewItineraryHandler(deps.Planner, deps.GenerationTimeout, logger)
	api.POST("/itineraries", limiter.Limit(), itineraries.Create)

	return r
}
