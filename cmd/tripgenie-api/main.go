// README: Entry point; loads config, wires the planner and the session shell, serves HTTP until signalled.
package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tripgenie/internal/ai"
	"tripgenie/internal/config"
	httptransport "tripgenie/internal/http"
	"tripgenie/internal/infra"
	"tripgenie/internal/logger"
	"tripgenie/internal/maps"
	"tripgenie/internal/service"
	"tripgenie/internal/shell"
	"tripgenie/internal/tracer"
)

const (
	serviceName     = "tripgenie"
	shutdownTimeout = 15 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracer.Init(ctx, tracer.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.Tracing.Endpoint,
		Enabled:     cfg.Tracing.Enabled,
	})
	if err != nil {
		zl.Fatal("tracing init", zap.Error(err))
	}

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

	var store shell.SessionStore = shell.NewMemoryStore(cfg.Session.TTL)
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			zl.Fatal("redis init", zap.Error(err))
		}
		defer redisClient.Close()
		store = shell.NewRedisStore(redisClient, cfg.Session.TTL)
	}

	sh := shell.New(store, planner, shell.Options{
		GenerationTimeout: cfg.AI.GenerationTimeout,
		BaseContext:       ctx,
		Logger:            zl,
	})

	deps := httptransport.ServerDeps{
		Shell:             sh,
		Planner:           planner,
		Logger:            zl,
		SessionTTL:        cfg.Session.TTL,
		GenerationTimeout: cfg.AI.GenerationTimeout,
		RateLimitPerMin:   cfg.HTTP.RateLimitPerMin,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
	}
	if cfg.Tracing.Enabled {
		deps.TraceService = serviceName
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httptransport.NewServer(deps).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		zl.Fatal("http listen", zap.Error(err))
	}
	zl.Info("listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("mode", string(mode)),
		zap.Bool("redis", cfg.Redis.Addr != ""),
		zap.Bool("destination_check", checker != nil),
	)
	if err := serve(ctx, server, ln, shutdownTimeout, zl); err != nil {
		zl.Fatal("http server", zap.Error(err))
	}

	// handlers have drained, so no Submit can start a generation now;
	// in-flight ones see the cancelled base context and resolve to Failed
	sh.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdownTracing(flushCtx); err != nil {
		zl.Warn("tracing shutdown", zap.Error(err))
	}
	zl.Info("stopped")
}
