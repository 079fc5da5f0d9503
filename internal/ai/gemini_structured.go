package ai

import (
	"context"
	"fmt"
	"strings"

	legacy "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"tripgenie/internal/config"
	"tripgenie/internal/trip"
)

type partsGenerator interface {
	GenerateContent(ctx context.Context, parts ...legacy.Part) (*legacy.GenerateContentResponse, error)
}

// StructuredGeminiProvider asks the endpoint to enforce the itinerary schema.
// Search grounding is unavailable in this mode, so results never carry sources.
type StructuredGeminiProvider struct {
	client   *legacy.Client
	model    partsGenerator
	name     string
	language string
	logger   *zap.Logger
}

// NewStructuredGeminiProvider initializes a Gemini client in JSON response mode.
func NewStructuredGeminiProvider(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*StructuredGeminiProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: gemini api key", config.ErrMissingCredential)
	}
	client, err := legacy.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.model())
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = toLegacySchema(itinerarySchema)
	model.SetTemperature(defaultTemperature)

	p := newStructuredGeminiProvider(model, cfg, logger)
	p.client = client
	return p, nil
}

func newStructuredGeminiProvider(model partsGenerator, cfg GeminiConfig, logger *zap.Logger) *StructuredGeminiProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StructuredGeminiProvider{
		model:    model,
		name:     cfg.model(),
		language: cfg.Language,
		logger:   logger.Named("gemini_structured"),
	}
}

// Close releases the underlying client.
func (p *StructuredGeminiProvider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

func (p *StructuredGeminiProvider) GenerateItinerary(ctx context.Context, prefs trip.Preferences) (*trip.Result, error) {
	prompt := buildItineraryPrompt(prefs.Normalized(), promptOptions{Language: p.language})

	resp, err := p.model.GenerateContent(ctx, legacy.Text(prompt))
	if err != nil {
		return nil, Fail("request", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, Fail("request", errEmptyReply)
	}

	var reply strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(legacy.Text); ok {
			reply.WriteString(string(txt))
		}
	}
	p.logger.Debug("model replied", zap.String("model", p.name), zap.Int("reply_bytes", reply.Len()))

	itinerary, err := parseItinerary(reply.String())
	if err != nil {
		return nil, err
	}
	return &trip.Result{Itinerary: *itinerary, Sources: []trip.Source{}}, nil
}
