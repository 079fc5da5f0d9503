// README: Config loader; reads .env and environment variables through viper with service defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredential is returned by Load when the model API key is absent.
var ErrMissingCredential = errors.New("missing credential")

type AIConfig struct {
	GeminiKey         string
	Model             string
	Language          string
	SearchGrounding   bool
	GenerationTimeout time.Duration
}

type Config struct {
	HTTP struct {
		Addr            string
		RateLimitPerMin int
		CORSOrigins     []string
	}
	Redis struct {
		Addr string
	}
	Session struct {
		TTL time.Duration
	}
	Maps struct {
		APIKey string
	}
	Log struct {
		Level  string
		Format string
	}
	Tracing struct {
		Enabled  bool
		Endpoint string
	}
	AI AIConfig
}

var defaults = map[string]any{
	"TRIPGENIE_HTTP_ADDR":          ":8080",
	"TRIPGENIE_MODEL":              "gemini-2.5-flash",
	"TRIPGENIE_LANGUAGE":           "English",
	"TRIPGENIE_SEARCH_GROUNDING":   true,
	"TRIPGENIE_GENERATION_TIMEOUT": "90s",
	"TRIPGENIE_MAPS_API_KEY":       "",
	"TRIPGENIE_REDIS_ADDR":         "",
	"TRIPGENIE_SESSION_TTL":        "30m",
	"TRIPGENIE_RATE_LIMIT_PER_MIN": 10,
	"TRIPGENIE_CORS_ORIGINS":       "*",
	"TRIPGENIE_LOG_LEVEL":          "info",
	"TRIPGENIE_LOG_FORMAT":         "json",
	"TRIPGENIE_TRACING_ENABLED":    false,
	"TRIPGENIE_TRACING_ENDPOINT":   "localhost:4317",
	"GEMINI_API_KEY":               "",
}

// Load reads .env (when present) and the process environment.
// A missing GEMINI_API_KEY yields ErrMissingCredential.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	for key, def := range defaults {
		v.SetDefault(key, def)
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var cfg Config
	cfg.HTTP.Addr = v.GetString("TRIPGENIE_HTTP_ADDR")
	cfg.HTTP.RateLimitPerMin = v.GetInt("TRIPGENIE_RATE_LIMIT_PER_MIN")
	cfg.HTTP.CORSOrigins = splitList(v.GetString("TRIPGENIE_CORS_ORIGINS"))
	cfg.Redis.Addr = strings.TrimSpace(v.GetString("TRIPGENIE_REDIS_ADDR"))
	cfg.Session.TTL = v.GetDuration("TRIPGENIE_SESSION_TTL")
	cfg.Maps.APIKey = strings.TrimSpace(v.GetString("TRIPGENIE_MAPS_API_KEY"))
	cfg.Log.Level = v.GetString("TRIPGENIE_LOG_LEVEL")
	cfg.Log.Format = v.GetString("TRIPGENIE_LOG_FORMAT")
	cfg.Tracing.Enabled = v.GetBool("TRIPGENIE_TRACING_ENABLED")
	cfg.Tracing.Endpoint = v.GetString("TRIPGENIE_TRACING_ENDPOINT")

	cfg.AI.GeminiKey = strings.TrimSpace(v.GetString("GEMINI_API_KEY"))
	cfg.AI.Model = v.GetString("TRIPGENIE_MODEL")
	cfg.AI.Language = v.GetString("TRIPGENIE_LANGUAGE")
	cfg.AI.SearchGrounding = v.GetBool("TRIPGENIE_SEARCH_GROUNDING")
	cfg.AI.GenerationTimeout = v.GetDuration("TRIPGENIE_GENERATION_TIMEOUT")

	if cfg.AI.GeminiKey == "" {
		return cfg, fmt.Errorf("%w: GEMINI_API_KEY is required", ErrMissingCredential)
	}
	if cfg.AI.GenerationTimeout <= 0 {
		return cfg, fmt.Errorf("TRIPGENIE_GENERATION_TIMEOUT must be positive, got %q", v.GetString("TRIPGENIE_GENERATION_TIMEOUT"))
	}
	if cfg.Session.TTL <= 0 {
		return cfg, fmt.Errorf("TRIPGENIE_SESSION_TTL must be positive, got %q", v.GetString("TRIPGENIE_SESSION_TTL"))
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
