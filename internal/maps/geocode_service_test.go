package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

func geocodeServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckDestination_Found(t *testing.T) {
	srv := geocodeServer(t, `{"results":[{"formatted_address":"Kyoto, Japan","place_id":"abc"}],"status":"OK"}`)
	svc, err := NewGeocodeService("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	addr, err := svc.CheckDestination(context.Background(), " Kyoto ")
	require.NoError(t, err)
	assert.Equal(t, "Kyoto, Japan", addr)
}

func TestCheckDestination_ZeroResults(t *testing.T) {
	srv := geocodeServer(t, `{"results":[],"status":"ZERO_RESULTS"}`)
	svc, err := NewGeocodeService("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = svc.CheckDestination(context.Background(), "Atlantis")
	assert.True(t, errors.Is(err, ErrUnknownDestination))
}

func TestCheckDestination_TransportError(t *testing.T) {
	srv := geocodeServer(t, `{"results":[],"status":"REQUEST_DENIED","error_message":"bad key"}`)
	svc, err := NewGeocodeService("test-key", maps.WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = svc.CheckDestination(context.Background(), "Kyoto")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrUnknownDestination))
}

func TestNewGeocodeService_MissingKey(t *testing.T) {
	_, err := NewGeocodeService("")
	assert.Error(t, err)
}
