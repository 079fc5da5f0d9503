package ai

import (
	"encoding/json"
	"fmt"
	"sync"

	legacy "github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
)

// schemaNode is the subset of JSON Schema the itinerary needs. The same tree is
// embedded in the prompt, checked against replies and handed to the structured endpoint.
type schemaNode struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*schemaNode `json:"properties,omitempty"`
	Items       *schemaNode            `json:"items,omitempty"`
	Required    []string               `json:"required,omitempty"`
	MinLength   *int                   `json:"minLength,omitempty"`
	Minimum     *int                   `json:"minimum,omitempty"`
}

func intPtr(v int) *int { return &v }

var itinerarySchema = &schemaNode{
	Type: "object",
	Properties: map[string]*schemaNode{
		"trip_title": {
			Type:        "string",
			Description: "An attractive, descriptive title for the trip.",
		},
		"total_estimated_cost": {
			Type:        "string",
			Description: "Estimated total cost of the whole trip in USD, including the currency symbol.",
		},
		"summary": {
			Type:        "string",
			Description: "A short, engaging summary of the trip as a whole.",
		},
		"daily_plans": {
			Type:        "array",
			Description: "A day-by-day plan for the trip.",
			Items: &schemaNode{
				Type: "object",
				Properties: map[string]*schemaNode{
					"day": {
						Type:        "integer",
						Description: "The day number within the itinerary (1, 2, 3, ...).",
						Minimum:     intPtr(1),
					},
					"theme": {
						Type:        "string",
						Description: "A theme for the day's activities, such as 'Cultural Immersion' or 'Coastal Exploration'.",
					},
					"activities": {
						Type:        "array",
						Description: "The activities for the day.",
						Items: &schemaNode{
							Type: "object",
							Properties: map[string]*schemaNode{
								"title": {
									Type:        "string",
									Description: "Name of the activity or place.",
								},
								"description": {
									Type:        "string",
									Description: "A detailed description of the activity, what to expect and why it is recommended.",
								},
								"estimated_cost": {
									Type:        "string",
									Description: "Estimated cost of this activity in USD. May be a range (e.g. '$20-$30') or 'Free'.",
								},
								"justification": {
									Type:        "string",
									Description: "A clear explanation of why this specific activity was chosen, tied directly to the traveller's stated interests and preferences.",
									MinLength:   intPtr(1),
								},
							},
							Required: []string{"title", "description", "estimated_cost", "justification"},
						},
					},
				},
				Required: []string{"day", "theme", "activities"},
			},
		},
	},
	Required: []string{"trip_title", "total_estimated_cost", "summary", "daily_plans"},
}

// schemaJSON renders the schema as indented JSON for the prompt.
func schemaJSON() string {
	b, err := json.MarshalIndent(itinerarySchema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("itinerary schema: %v", err))
	}
	return string(b)
}

var compiledSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(itinerarySchema))
})

var legacyTypes = map[string]legacy.Type{
	"object":  legacy.TypeObject,
	"array":   legacy.TypeArray,
	"string":  legacy.TypeString,
	"integer": legacy.TypeInteger,
}

// toLegacySchema converts the tree into the response schema accepted by the structured endpoint.
func toLegacySchema(n *schemaNode) *legacy.Schema {
	if n == nil {
		return nil
	}
	out := &legacy.Schema{
		Type:        legacyTypes[n.Type],
		Description: n.Description,
		Items:       toLegacySchema(n.Items),
		Required:    n.Required,
	}
	if len(n.Properties) > 0 {
		out.Properties = make(map[string]*legacy.Schema, len(n.Properties))
		for name, child := range n.Properties {
			out.Properties[name] = toLegacySchema(child)
		}
	}
	return out
}
