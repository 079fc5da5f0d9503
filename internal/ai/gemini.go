// README: Gemini itinerary generator with Google Search grounding.
package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"tripgenie/internal/config"
	"tripgenie/internal/trip"
)

const (
	DefaultModel       = "gemini-2.5-flash"
	defaultTemperature = float32(0.4)
)

// GeminiConfig holds the settings shared by both Gemini providers.
type GeminiConfig struct {
	APIKey   string
	Model    string
	Language string
	// BaseURL overrides the API endpoint. Only the search provider honours it.
	BaseURL string
}

func (c GeminiConfig) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

// contentGenerator is the slice of *genai.Models the provider uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiProvider implements ItineraryProvider with search grounding enabled.
// The schema travels in the prompt only; the endpoint does not enforce it in this mode.
type GeminiProvider struct {
	models   contentGenerator
	model    string
	language string
	logger   *zap.Logger
}

// NewGeminiProvider initializes a Gemini API client.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: gemini api key", config.ErrMissingCredential)
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return newGeminiProvider(client.Models, cfg, logger), nil
}

func newGeminiProvider(models contentGenerator, cfg GeminiConfig, logger *zap.Logger) *GeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiProvider{
		models:   models,
		model:    cfg.model(),
		language: cfg.Language,
		logger:   logger.Named("gemini"),
	}
}

// GenerateItinerary sends one grounded request and parses the reply.
func (p *GeminiProvider) GenerateItinerary(ctx context.Context, prefs trip.Preferences) (*trip.Result, error) {
	prompt := buildItineraryPrompt(prefs.Normalized(), promptOptions{Language: p.language, SearchGrounding: true})

	resp, err := p.models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools:       []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
		Temperature: genai.Ptr(defaultTemperature),
	})
	if err != nil {
		return nil, Fail("request", err)
	}
	if resp == nil {
		return nil, Fail("request", errEmptyReply)
	}

	reply := resp.Text()
	p.logger.Debug("model replied", zap.String("model", p.model), zap.Int("reply_bytes", len(reply)))

	itinerary, err := parseItinerary(reply)
	if err != nil {
		return nil, err
	}
	return &trip.Result{
		Itinerary: *itinerary,
		Sources:   sourcesFromResponse(resp),
	}, nil
}

// sourcesFromResponse reads web citations from the first candidate. Chunks without
// a web reference or with an empty URI are dropped.
func sourcesFromResponse(resp *genai.GenerateContentResponse) []trip.Source {
	sources := []trip.Source{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return sources
	}
	meta := resp.Candidates[0].GroundingMetadata
	if meta == nil {
		return sources
	}
	for _, chunk := range meta.GroundingChunks {
		if chunk == nil || chunk.Web == nil {
			continue
		}
		uri := strings.TrimSpace(chunk.Web.URI)
		if uri == "" {
			continue
		}
		title := strings.TrimSpace(chunk.Web.Title)
		if title == "" {
			title = uri
		}
		sources = append(sources, trip.Source{URI: uri, Title: title})
	}
	return sources
}
