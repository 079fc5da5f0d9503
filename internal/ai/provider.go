package ai

import (
	"context"

	"go.uber.org/zap"

	"tripgenie/internal/config"
)

// NewProvider builds the search-grounded provider, or the structured one when
// search grounding is switched off. closeFn releases the client either way.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (provider ItineraryProvider, mode Mode, closeFn func() error, err error) {
	gc := GeminiConfig{APIKey: cfg.GeminiKey, Model: cfg.Model, Language: cfg.Language}
	if cfg.SearchGrounding {
		p, err := NewGeminiProvider(ctx, gc, logger)
		if err != nil {
			return nil, "", nil, err
		}
		return p, ModeSearch, func() error { return nil }, nil
	}
	p, err := NewStructuredGeminiProvider(ctx, gc, logger)
	if err != nil {
		return nil, "", nil, err
	}
	return p, ModeStructured, p.Close, nil
}
