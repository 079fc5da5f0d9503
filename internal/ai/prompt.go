package ai

import (
	"fmt"
	"strings"

	"tripgenie/internal/trip"
)

const (
	defaultLanguage = "English"
	fence           = "```"
	noneText        = "None"
)

type promptOptions struct {
	Language        string
	SearchGrounding bool
}

// buildItineraryPrompt renders the single instruction sent to the model.
func buildItineraryPrompt(prefs trip.Preferences, opts promptOptions) string {
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = defaultLanguage
	}

	grounding := "Use the Google Search results available to you so that every recommendation (restaurants, sights, activities) is current, relevant and well reviewed."
	if !opts.SearchGrounding {
		grounding = "Recommend only places you are confident exist and are well reviewed; prefer well-known, currently operating venues."
	}

	interests := prefs.InterestList()
	if interests == "" {
		interests = noneText
	}
	requirements := strings.TrimSpace(prefs.SpecialRequirements)
	if requirements == "" {
		requirements = noneText
	}

	return fmt.Sprintf(`You are 'TripGenie', an expert travel agent and logistics copilot. Your task is to create a detailed, personalised, engaging and feasible travel itinerary based on the traveller's preferences. The response MUST be written in %[1]s.

CRITICAL INSTRUCTIONS:
1. Ground your answer: %[2]s
2. Explainability is key: for every recommended activity give a clear, concise 'justification' that explains exactly WHY it matches the traveller's specific interests. For example, if they like Outdoors, explain how the suggested hike fits that interest.
3. Be coherent: group each day's activities geographically to minimise travel time. Keep the pace realistic and unhurried.
4. Follow the schema: format your answer as a single valid JSON object that strictly follows the JSON schema below. Do not deviate. Do not include any explanation or text outside the JSON object.

JSON schema:
%[3]sjson
%[4]s
%[3]s

Traveller preferences:
- Destination: %[5]s
- Trip duration: %[6]d days
- Total budget: approximately $%[7]d USD
- Main interests: %[8]s
- Additional notes and constraints: %[9]s

Now generate the complete, personalised itinerary in %[1]s based on these requirements.`,
		language,
		grounding,
		fence,
		schemaJSON(),
		prefs.Destination,
		prefs.Duration,
		prefs.Budget,
		interests,
		requirements,
	)
}
