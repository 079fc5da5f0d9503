package main

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripgenie/internal/ai"
	httptransport "tripgenie/internal/http"
	"tripgenie/internal/logger"
	"tripgenie/internal/service"
	"tripgenie/internal/shell"
	"tripgenie/internal/trip"
)

type threeDayProvider struct{}

func (threeDayProvider) GenerateItinerary(_ context.Context, prefs trip.Preferences) (*trip.Result, error) {
	it := trip.Itinerary{TripTitle: prefs.Destination + " in 3 days", TotalEstimatedCost: "$1,000"}
	for d := 1; d <= 3; d++ {
		it.DailyPlans = append(it.DailyPlans, trip.DailyPlan{Day: d, Theme: "Explore"})
	}
	return &trip.Result{Itinerary: it, Sources: []trip.Source{{URI: "https://example.com"}}}, nil
}

func TestRunAll_AgainstLocalServer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewTest(t)

	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })

	planner := service.NewItineraryPlanner(threeDayProvider{}, nil, ai.ModeSearch, log)
	sh := shell.New(shell.NewRedisStore(rc, time.Hour), planner, shell.Options{Logger: log})
	t.Cleanup(sh.Wait)

	srv := httptest.NewServer(httptransport.NewServer(httptransport.ServerDeps{
		Shell:       sh,
		Planner:     planner,
		Logger:      log,
		SessionTTL:  time.Hour,
		CORSOrigins: []string{"http://localhost:3000"},
	}).Routes())
	t.Cleanup(srv.Close)

	cfg := Config{
		BaseURL:   srv.URL,
		RedisAddr: mr.Addr(),
		Origin:    "http://localhost:3000",
		Generate:  true,
		Timeout:   10 * time.Second,
		PollEvery: 10 * time.Millisecond,
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	results := NewRunner(cfg).RunAll(ctx)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, StatusPass, r.Status, "%s: %s", r.Name, r.Note)
	}
}

func TestRunAll_SkipsWithoutGenerateOrRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.NewTest(t)
	planner := service.NewItineraryPlanner(threeDayProvider{}, nil, ai.ModeSearch, log)
	sh := shell.New(shell.NewMemoryStore(time.Hour), planner, shell.Options{Logger: log})
	srv := httptest.NewServer(httptransport.NewServer(httptransport.ServerDeps{
		Shell: sh, Planner: planner, Logger: log, SessionTTL: time.Hour,
	}).Routes())
	t.Cleanup(srv.Close)

	results := NewRunner(Config{BaseURL: srv.URL, Origin: "http://localhost:3000", Timeout: 5 * time.Second}).RunAll(context.Background())
	skipped := 0
	for _, r := range results {
		assert.NotEqual(t, StatusFail, r.Status, "%s: %s", r.Name, r.Note)
		if r.Status == StatusSkip {
			skipped++
		}
	}
	assert.Equal(t, 3, skipped)
}
