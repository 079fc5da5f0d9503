package ai

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripgenie/internal/logger"
)

// Live calls run only with TRIPGENIE_INTEGRATION=1 and a GEMINI_API_KEY (env or a parent .env).
func integrationKey(t *testing.T) string {
	t.Helper()
	if testing.Short() || os.Getenv("TRIPGENIE_INTEGRATION") != "1" {
		t.Skip("set TRIPGENIE_INTEGRATION=1 to call the live Gemini API")
	}
	loadDotEnv(t)
	key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if key == "" {
		t.Skip("GEMINI_API_KEY not set")
	}
	return key
}

// loadDotEnv loads the nearest .env above the package directory without overriding the environment.
func loadDotEnv(t *testing.T) {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		return
	}
	for i := 0; i < 8; i++ {
		candidate := filepath.Join(dir, ".env")
		if _, err := os.Stat(candidate); err == nil {
			_ = godotenv.Load(candidate)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func TestIntegration_SearchGrounded(t *testing.T) {
	key := integrationKey(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p, err := NewGeminiProvider(ctx, GeminiConfig{APIKey: key}, logger.NewTest(t))
	require.NoError(t, err)

	res, err := p.GenerateItinerary(ctx, kyotoPreferences())
	require.NoError(t, err)
	assert.NotEmpty(t, res.Itinerary.TripTitle)
	assert.NotEmpty(t, res.Itinerary.TotalEstimatedCost)
	require.Len(t, res.Itinerary.DailyPlans, 3)
	for i, d := range res.Itinerary.DailyPlans {
		assert.Equal(t, i+1, d.Day)
	}
	t.Logf("%q with %d sources", res.Itinerary.TripTitle, len(res.Sources))
}

func TestIntegration_Structured(t *testing.T) {
	key := integrationKey(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p, err := NewStructuredGeminiProvider(ctx, GeminiConfig{APIKey: key}, logger.NewTest(t))
	require.NoError(t, err)
	defer p.Close()

	res, err := p.GenerateItinerary(ctx, kyotoPreferences())
	require.NoError(t, err)
	assert.Len(t, res.Itinerary.DailyPlans, 3)
	assert.Empty(t, res.Sources)
}
