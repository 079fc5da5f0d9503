// README: Contract for the itinerary generator backed by a hosted model.
package ai

import (
	"context"

	"tripgenie/internal/trip"
)

// ItineraryProvider turns a set of preferences into an itinerary with its web sources.
// Implementations make exactly one outbound model call per invocation and return
// a *GenerationError for every failure after the call was attempted.
type ItineraryProvider interface {
	GenerateItinerary(ctx context.Context, prefs trip.Preferences) (*trip.Result, error)
}

// Mode names the generation strategy, used as a metrics and log label.
type Mode string

const (
	ModeSearch     Mode = "search"
	ModeStructured Mode = "structured"
)
