// README: Google Maps geocoding used to confirm a travel destination exists before planning.
package maps

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// ErrUnknownDestination is returned when geocoding finds no place for the destination.
var ErrUnknownDestination = errors.New("destination not found")

// GeocodeService handles interactions with the Google Maps Geocoding API.
type GeocodeService struct {
	client   *maps.Client
	language string
}

// NewGeocodeService creates a GeocodeService with the given API key. Extra options
// (base URL, HTTP client) are passed through to the maps client.
func NewGeocodeService(apiKey string, opts ...maps.ClientOption) (*GeocodeService, error) {
	opts = append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)
	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &GeocodeService{client: client, language: "en"}, nil
}

// CheckDestination resolves destination and returns the formatted address of the best match.
func (s *GeocodeService) CheckDestination(ctx context.Context, destination string) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", ErrUnknownDestination
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  destination,
		Language: s.language,
	})
	if err != nil {
		return "", fmt.Errorf("maps api error: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownDestination, destination)
	}
	return results[0].FormattedAddress, nil
}
