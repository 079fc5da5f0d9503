package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	legacy "github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"tripgenie/internal/config"
	"tripgenie/internal/logger"
	"tripgenie/internal/trip"
)

type fakeModels struct {
	calls  int
	prompt string
	cfg    *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeModels) GenerateContent(_ context.Context, _ string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.cfg = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func replyWith(text string, chunks ...*genai.GroundingChunk) *genai.GenerateContentResponse {
	cand := &genai.Candidate{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
	}
	if chunks != nil {
		cand.GroundingMetadata = &genai.GroundingMetadata{GroundingChunks: chunks}
	}
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{cand}}
}

func webChunk(uri, title string) *genai.GroundingChunk {
	return &genai.GroundingChunk{Web: &genai.GroundingChunkWeb{URI: uri, Title: title}}
}

func TestGeminiProvider_Success(t *testing.T) {
	fake := &fakeModels{resp: replyWith("```json\n"+kyotoJSON+"\n```",
		webChunk("https://a.example", "Guide A"),
		&genai.GroundingChunk{RetrievedContext: &genai.GroundingChunkRetrievedContext{URI: "gs://x"}},
		webChunk("https://b.example", ""),
		webChunk("", "no uri"),
	)}
	p := newGeminiProvider(fake, GeminiConfig{Language: "English"}, logger.NewTest(t))

	res, err := p.GenerateItinerary(context.Background(), kyotoPreferences())
	require.NoError(t, err)

	assert.Equal(t, 1, fake.calls)
	require.NotNil(t, fake.cfg)
	require.Len(t, fake.cfg.Tools, 1)
	assert.NotNil(t, fake.cfg.Tools[0].GoogleSearch)
	assert.Empty(t, fake.cfg.ResponseMIMEType)
	assert.Contains(t, fake.prompt, "Kyoto, Japan")

	assert.Equal(t, "Kyoto Culture Trip", res.Itinerary.TripTitle)
	assert.Len(t, res.Itinerary.DailyPlans, 3)
	assert.Equal(t, []trip.Source{
		{URI: "https://a.example", Title: "Guide A"},
		{URI: "https://b.example", Title: "https://b.example"},
	}, res.Sources)
}

func TestGeminiProvider_PromptUsesTrimmedPreferences(t *testing.T) {
	fake := &fakeModels{resp: replyWith(kyotoJSON)}
	p := newGeminiProvider(fake, GeminiConfig{}, logger.NewTest(t))

	prefs := kyotoPreferences()
	prefs.Destination = "  Kyoto, Japan \n"
	prefs.SpecialRequirements = "\tvegetarian  "
	_, err := p.GenerateItinerary(context.Background(), prefs)
	require.NoError(t, err)

	assert.Contains(t, fake.prompt, "Destination: Kyoto, Japan\n")
	assert.Contains(t, fake.prompt, "Additional notes and constraints: vegetarian\n")
}

func TestGeminiProvider_NoGroundingMetadata(t *testing.T) {
	fake := &fakeModels{resp: replyWith(kyotoJSON)}
	p := newGeminiProvider(fake, GeminiConfig{}, nil)

	res, err := p.GenerateItinerary(context.Background(), kyotoPreferences())
	require.NoError(t, err)
	assert.NotNil(t, res.Sources)
	assert.Empty(t, res.Sources)
}

func TestGeminiProvider_Failures(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeModels
	}{
		{name: "transport", fake: &fakeModels{err: errors.New("connection reset")}},
		{name: "nil response", fake: &fakeModels{}},
		{name: "no candidates", fake: &fakeModels{resp: &genai.GenerateContentResponse{}}},
		{name: "invalid json", fake: &fakeModels{resp: replyWith("```json\n{oops\n```")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newGeminiProvider(tt.fake, GeminiConfig{}, nil)
			res, err := p.GenerateItinerary(context.Background(), kyotoPreferences())
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrGenerationFailed))
			assert.Equal(t, 1, tt.fake.calls)
		})
	}
}

func TestNewGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{}, nil)
	assert.True(t, errors.Is(err, config.ErrMissingCredential))

	_, err = NewStructuredGeminiProvider(context.Background(), GeminiConfig{APIKey: " "}, nil)
	assert.True(t, errors.Is(err, config.ErrMissingCredential))
}

func TestGeminiProvider_OverHTTP(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.HasSuffix(r.URL.Path, ":generateContent") || r.Header.Get("x-goog-api-key") != "test-key" {
			http.Error(w, "unexpected request", http.StatusNotFound)
			return
		}
		body := map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": "```json\n" + kyotoJSON + "\n```"}},
				},
				"groundingMetadata": map[string]any{
					"groundingChunks": []any{
						map[string]any{"web": map[string]any{"uri": "https://kyoto.travel", "title": "Kyoto Travel"}},
					},
				},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	require.NoError(t, err)

	res, err := p.GenerateItinerary(context.Background(), kyotoPreferences())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "Kyoto Culture Trip", res.Itinerary.TripTitle)
	assert.Equal(t, []trip.Source{{URI: "https://kyoto.travel", Title: "Kyoto Travel"}}, res.Sources)
}

type fakeParts struct {
	calls int
	resp  *legacy.GenerateContentResponse
	err   error
}

func (f *fakeParts) GenerateContent(_ context.Context, _ ...legacy.Part) (*legacy.GenerateContentResponse, error) {
	f.calls++
	return f.resp, f.err
}

func TestStructuredGeminiProvider(t *testing.T) {
	fake := &fakeParts{resp: &legacy.GenerateContentResponse{
		Candidates: []*legacy.Candidate{{
			Content: &legacy.Content{Parts: []legacy.Part{legacy.Text(kyotoJSON)}},
		}},
	}}
	p := newStructuredGeminiProvider(fake, GeminiConfig{}, nil)

	res, err := p.GenerateItinerary(context.Background(), kyotoPreferences())
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls)
	assert.Equal(t, "Kyoto Culture Trip", res.Itinerary.TripTitle)
	assert.Empty(t, res.Sources)
	assert.NoError(t, p.Close())
}

func TestStructuredGeminiProvider_Failure(t *testing.T) {
	fake := &fakeParts{err: errors.New("quota exceeded")}
	p := newStructuredGeminiProvider(fake, GeminiConfig{}, nil)

	_, err := p.GenerateItinerary(context.Background(), kyotoPreferences())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGenerationFailed))
}

func TestNewProvider_MissingKey(t *testing.T) {
	for _, search := range []bool{true, false} {
		_, _, _, err := NewProvider(context.Background(), config.AIConfig{SearchGrounding: search}, nil)
		assert.ErrorIs(t, err, config.ErrMissingCredential)
	}
}

func TestNewProvider_SelectsMode(t *testing.T) {
	p, mode, closeFn, err := NewProvider(context.Background(), config.AIConfig{GeminiKey: "k", SearchGrounding: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, ModeSearch, mode)
	assert.IsType(t, &GeminiProvider{}, p)
	assert.NoError(t, closeFn())
}
