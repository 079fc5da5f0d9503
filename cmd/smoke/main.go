// README: Smoke runner for a deployed TripGenie; executes HTTP and Redis checks and prints results.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 || (cfg.Strict && skipped > 0) {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL   string
	RedisAddr string
	Origin    string
	Generate  bool
	Strict    bool
	Timeout   time.Duration
	PollEvery time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("TRIPGENIE_SMOKE_BASE_URL", "http://localhost:8080"), "TripGenie base URL")
	flag.StringVar(&cfg.RedisAddr, "redis", envOrDefault("TRIPGENIE_REDIS_ADDR", ""), "Redis address of the session store (optional)")
	flag.StringVar(&cfg.Origin, "origin", envOrDefault("TRIPGENIE_SMOKE_ORIGIN", "http://localhost:3000"), "Origin used for the CORS preflight")
	flag.BoolVar(&cfg.Generate, "generate", envOrDefaultBool("TRIPGENIE_SMOKE_GENERATE", false), "Run checks that call the model (costs quota)")
	flag.BoolVar(&cfg.Strict, "strict", envOrDefaultBool("TRIPGENIE_SMOKE_STRICT", false), "Fail on skipped checks")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("TRIPGENIE_SMOKE_TIMEOUT", 5*time.Minute), "Total timeout")
	flag.DurationVar(&cfg.PollEvery, "poll", envOrDefaultDuration("TRIPGENIE_SMOKE_POLL", 2*time.Second), "Session state poll interval")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
