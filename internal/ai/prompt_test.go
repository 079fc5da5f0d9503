package ai

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripgenie/internal/trip"
)

func kyotoPreferences() trip.Preferences {
	return trip.Preferences{
		Destination: "Kyoto, Japan",
		Duration:    3,
		Budget:      1200,
		Interests:   []trip.Interest{trip.InterestCulture, trip.InterestGastronomy},
	}
}

func TestBuildItineraryPrompt_InterpolatesPreferences(t *testing.T) {
	prefs := kyotoPreferences()
	prefs.SpecialRequirements = "vegetarian"

	prompt := buildItineraryPrompt(prefs, promptOptions{SearchGrounding: true})

	assert.Contains(t, prompt, "'TripGenie'")
	assert.Contains(t, prompt, "Destination: Kyoto, Japan")
	assert.Contains(t, prompt, "Trip duration: 3 days")
	assert.Contains(t, prompt, "approximately $1200 USD")
	assert.Contains(t, prompt, "Main interests: Culture, Gastronomy")
	assert.Contains(t, prompt, "Additional notes and constraints: vegetarian")
	assert.Contains(t, prompt, "written in English")
	assert.Contains(t, prompt, "Google Search")
	assert.Contains(t, prompt, "justification")
	assert.Contains(t, prompt, "geographically")
}

func TestBuildItineraryPrompt_NoneWhenEmpty(t *testing.T) {
	prefs := kyotoPreferences()
	prefs.Interests = nil
	prefs.SpecialRequirements = "   "

	prompt := buildItineraryPrompt(prefs, promptOptions{})

	assert.Contains(t, prompt, "Main interests: None")
	assert.Contains(t, prompt, "Additional notes and constraints: None")
	assert.NotContains(t, prompt, "Google Search")
}

func TestBuildItineraryPrompt_Language(t *testing.T) {
	prompt := buildItineraryPrompt(kyotoPreferences(), promptOptions{Language: "Spanish"})
	assert.Contains(t, prompt, "MUST be written in Spanish")
	assert.Contains(t, prompt, "itinerary in Spanish")
}

func TestBuildItineraryPrompt_EmbedsSchema(t *testing.T) {
	prompt := buildItineraryPrompt(kyotoPreferences(), promptOptions{})

	start := strings.Index(prompt, "```json\n")
	require.GreaterOrEqual(t, start, 0)
	rest := prompt[start+len("```json\n"):]
	end := strings.Index(rest, "\n```")
	require.Greater(t, end, 0)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(rest[:end]), &doc))
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	for _, field := range []string{"trip_title", "total_estimated_cost", "summary", "daily_plans"} {
		assert.Contains(t, props, field)
	}
}

func TestToLegacySchema(t *testing.T) {
	s := toLegacySchema(itinerarySchema)
	require.NotNil(t, s)
	assert.ElementsMatch(t, []string{"trip_title", "total_estimated_cost", "summary", "daily_plans"}, s.Required)

	plans := s.Properties["daily_plans"]
	require.NotNil(t, plans)
	require.NotNil(t, plans.Items)
	activity := plans.Items.Properties["activities"].Items
	require.NotNil(t, activity)
	assert.Contains(t, activity.Required, "justification")
}
