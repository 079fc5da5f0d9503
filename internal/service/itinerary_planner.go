// README: Orchestrates preference validation, the optional destination check and the AI call.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"tripgenie/internal/ai"
	"tripgenie/internal/maps"
	"tripgenie/internal/metrics"
	"tripgenie/internal/tracer"
	"tripgenie/internal/trip"
)

// DestinationChecker confirms a destination resolves to a real place.
type DestinationChecker interface {
	CheckDestination(ctx context.Context, destination string) (string, error)
}

// ItineraryPlanner wraps an ItineraryProvider with validation and instrumentation.
type ItineraryPlanner struct {
	provider ai.ItineraryProvider
	checker  DestinationChecker
	mode     ai.Mode
	logger   *zap.Logger
}

// NewItineraryPlanner creates a planner. checker may be nil to skip the destination check.
func NewItineraryPlanner(provider ai.ItineraryProvider, checker DestinationChecker, mode ai.Mode, logger *zap.Logger) *ItineraryPlanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItineraryPlanner{
		provider: provider,
		checker:  checker,
		mode:     mode,
		logger:   logger.Named("planner"),
	}
}

// Plan validates prefs and makes one generation call.
// It returns a *trip.ValidationError before any outbound model call, or a *ai.GenerationError.
func (p *ItineraryPlanner) Plan(ctx context.Context, prefs trip.Preferences) (*trip.Result, error) {
	prefs = prefs.Normalized()
	mode := string(p.mode)

	if err := prefs.Validate(); err != nil {
		metrics.GenerationTotal.WithLabelValues(mode, "invalid").Inc()
		return nil, err
	}
	if err := p.checkDestination(ctx, prefs.Destination); err != nil {
		metrics.GenerationTotal.WithLabelValues(mode, "invalid").Inc()
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "itinerary.generate", trace.WithAttributes(
		attribute.String("tripgenie.mode", mode),
		attribute.String("tripgenie.destination", prefs.Destination),
		attribute.Int("tripgenie.duration_days", prefs.Duration),
		attribute.Int("tripgenie.budget_usd", prefs.Budget),
	))
	defer span.End()

	start := time.Now()
	res, err := p.provider.GenerateItinerary(ctx, prefs)
	elapsed := time.Since(start)
	metrics.GenerationDuration.WithLabelValues(mode).Observe(elapsed.Seconds())

	if err != nil {
		metrics.GenerationTotal.WithLabelValues(mode, "failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "generation failed")
		p.logger.Warn("itinerary generation failed",
			zap.String("destination", prefs.Destination),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return nil, ai.Fail("planner", err)
	}

	metrics.GenerationTotal.WithLabelValues(mode, "ok").Inc()
	metrics.SourcesReturned.Observe(float64(len(res.Sources)))
	span.SetAttributes(
		attribute.Int("tripgenie.days", len(res.Itinerary.DailyPlans)),
		attribute.Int("tripgenie.sources", len(res.Sources)),
	)
	p.logger.Info("itinerary generated",
		zap.String("destination", prefs.Destination),
		zap.String("title", res.Itinerary.TripTitle),
		zap.Int("days", len(res.Itinerary.DailyPlans)),
		zap.Int("sources", len(res.Sources)),
		zap.Duration("elapsed", elapsed),
	)
	return res, nil
}

// checkDestination only fails for a destination the geocoder does not know.
// Transport problems are logged and ignored.
func (p *ItineraryPlanner) checkDestination(ctx context.Context, destination string) error {
	if p.checker == nil {
		return nil
	}
	addr, err := p.checker.CheckDestination(ctx, destination)
	switch {
	case err == nil:
		p.logger.Debug("destination resolved", zap.String("destination", destination), zap.String("address", addr))
		return nil
	case errors.Is(err, maps.ErrUnknownDestination):
		return &trip.ValidationError{Problems: []trip.FieldProblem{
			{Field: "destination", Message: "could not be found"},
		}}
	default:
		p.logger.Warn("destination check skipped", zap.String("destination", destination), zap.Error(err))
		return nil
	}
}
