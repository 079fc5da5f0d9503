package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"tripgenie/internal/trip"
)

var fencePattern = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

// extractJSON trims the reply and keeps only the first fenced block when one is present.
func extractJSON(reply string) string {
	text := strings.TrimSpace(reply)
	if m := fencePattern.FindStringSubmatch(text); m != nil && m[1] != "" {
		return m[1]
	}
	return text
}

// parseItinerary decodes a model reply. Anything that is not a complete itinerary
// document is a *GenerationError; nothing is salvaged.
func parseItinerary(reply string) (*trip.Itinerary, error) {
	payload := extractJSON(reply)
	if payload == "" {
		return nil, Fail("parse", errEmptyReply)
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, Fail("schema", err)
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(payload))
	if err != nil {
		return nil, Fail("parse", fmt.Errorf("decode reply: %w", err))
	}
	if !res.Valid() {
		return nil, Fail("shape", fmt.Errorf("reply does not match schema: %s", describeSchemaErrors(res.Errors())))
	}

	var it trip.Itinerary
	if err := json.Unmarshal([]byte(payload), &it); err != nil {
		return nil, Fail("parse", fmt.Errorf("decode reply: %w", err))
	}
	if err := checkDays(it.DailyPlans); err != nil {
		return nil, Fail("shape", err)
	}
	return &it, nil
}

func checkDays(plans []trip.DailyPlan) error {
	seen := make(map[int]struct{}, len(plans))
	for _, p := range plans {
		if _, dup := seen[p.Day]; dup {
			return fmt.Errorf("day %d appears more than once", p.Day)
		}
		seen[p.Day] = struct{}{}
	}
	return nil
}

func describeSchemaErrors(errs []gojsonschema.ResultError) string {
	const limit = 5
	msgs := make([]string, 0, limit)
	for i, e := range errs {
		if i == limit {
			msgs = append(msgs, fmt.Sprintf("and %d more", len(errs)-limit))
			break
		}
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}
