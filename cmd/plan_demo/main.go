// README: Command-line planner; runs one itinerary generation and prints it as text.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"tripgenie/internal/ai"
	"tripgenie/internal/config"
	"tripgenie/internal/display"
	"tripgenie/internal/logger"
	"tripgenie/internal/maps"
	"tripgenie/internal/service"
	"tripgenie/internal/shell"
	"tripgenie/internal/trip"
)

func main() {
	destination := flag.String("destination", "Kyoto, Japan", "where to go")
	days := flag.Int("days", 3, "trip duration in days")
	budget := flag.Int("budget", 1200, "total budget in USD")
	interests := flag.String("interests", "Culture", "comma-separated interests: "+interestNames())
	notes := flag.String("notes", "", "special requirements")
	openDay := flag.Int("day", display.DefaultOpenDay, "day to expand, 0 for none")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	zl := logger.New(cfg.Log.Level, "console")
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	provider, mode, closeProvider, err := ai.NewProvider(ctx, cfg.AI, zl)
	if err != nil {
		zl.Fatal("ai provider init", zap.Error(err))
	}
	defer func() { _ = closeProvider() }()

	var checker service.DestinationChecker
	if cfg.Maps.APIKey != "" {
		geo, err := maps.NewGeocodeService(cfg.Maps.APIKey)
		if err != nil {
			zl.Fatal("maps init", zap.Error(err))
		}
		checker = geo
	}
	planner := service.NewItineraryPlanner(provider, checker, mode, zl)
	sh := shell.New(shell.NewMemoryStore(cfg.Session.TTL), planner, shell.Options{
		GenerationTimeout: cfg.AI.GenerationTimeout,
		Logger:            zl,
	})

	prefs := trip.Preferences{
		Destination:         *destination,
		Duration:            *days,
		Budget:              *budget,
		Interests:           parseInterests(*interests),
		SpecialRequirements: *notes,
	}
	fmt.Fprintf(os.Stderr, "Planning %d days in %s (%s mode)...\n", prefs.Duration, prefs.Destination, mode)

	st, err := sh.SubmitAndWait(ctx, "cli", prefs)
	var verr *trip.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, p := range verr.Problems {
			fmt.Fprintf(os.Stderr, "%s %s\n", p.Field, p.Message)
		}
		os.Exit(2)
	case err != nil:
		zl.Fatal("plan", zap.Error(err))
	}

	switch s := st.(type) {
	case shell.Success:
		if err := display.RenderText(os.Stdout, display.NewView(s.Itinerary, s.Sources, *openDay)); err != nil {
			zl.Fatal("render", zap.Error(err))
		}
	case shell.Failed:
		fmt.Fprintln(os.Stderr, s.Message)
		os.Exit(1)
	default:
		zl.Fatal("unexpected state", zap.String("status", string(st.Status())))
	}
}

func parseInterests(raw string) []trip.Interest {
	var out []trip.Interest
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, trip.Interest(part))
		}
	}
	return out
}

func interestNames() string {
	names := make([]string, 0, len(trip.AllInterests))
	for _, i := range trip.AllInterests {
		names = append(names, string(i))
	}
	return strings.Join(names, ", ")
}
