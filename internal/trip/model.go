// README: Trip preference model and the itinerary shapes returned by the AI adapter.
package trip

import "strings"

// Interest is one of the fixed tags a traveller can pick on the form.
type Interest string

const (
	InterestOutdoors   Interest = "Outdoors"
	InterestCulture    Interest = "Culture"
	InterestGastronomy Interest = "Gastronomy"
	InterestRelaxation Interest = "Relaxation"
	InterestNightlife  Interest = "Nightlife"
	InterestAdventure  Interest = "Adventure"
)

// AllInterests lists the tags in the order the form shows them.
var AllInterests = []Interest{
	InterestOutdoors,
	InterestCulture,
	InterestGastronomy,
	InterestRelaxation,
	InterestNightlife,
	InterestAdventure,
}

const (
	MinDuration = 1
	MaxDuration = 30
	MinBudget   = 100

	DefaultDuration = 7
	DefaultBudget   = 1500
)

// Preferences is what the traveller submitted for a single itinerary request.
// Treat it as immutable once handed to the planner.
type Preferences struct {
	Destination         string     `json:"destination" form:"destination" validate:"required"`
	Duration            int        `json:"duration" form:"duration" validate:"min=1,max=30"`
	Budget              int        `json:"budget" form:"budget" validate:"min=100"`
	Interests           []Interest `json:"interests" form:"interests" validate:"unique,dive,oneof=Outdoors Culture Gastronomy Relaxation Nightlife Adventure"`
	SpecialRequirements string     `json:"specialRequirements" form:"specialRequirements"`
}

// DefaultPreferences returns the values a fresh form starts with.
func DefaultPreferences() Preferences {
	return Preferences{
		Duration:  DefaultDuration,
		Budget:    DefaultBudget,
		Interests: []Interest{},
	}
}

// Normalized trims surrounding whitespace from the free-text fields and
// returns a copy that shares nothing with p.
func (p Preferences) Normalized() Preferences {
	out := p
	out.Destination = strings.TrimSpace(p.Destination)
	out.SpecialRequirements = strings.TrimSpace(p.SpecialRequirements)
	out.Interests = append([]Interest{}, p.Interests...)
	return out
}

// HasInterest reports whether the tag was selected.
func (p Preferences) HasInterest(i Interest) bool {
	for _, v := range p.Interests {
		if v == i {
			return true
		}
	}
	return false
}

// InterestList joins the selected interests with ", ".
func (p Preferences) InterestList() string {
	parts := make([]string, 0, len(p.Interests))
	for _, i := range p.Interests {
		parts = append(parts, string(i))
	}
	return strings.Join(parts, ", ")
}

// Itinerary is the multi-day plan produced by the model.
type Itinerary struct {
	TripTitle          string      `json:"trip_title"`
	TotalEstimatedCost string      `json:"total_estimated_cost"`
	Summary            string      `json:"summary"`
	DailyPlans         []DailyPlan `json:"daily_plans"`
}

// DailyPlan groups the activities of one day.
type DailyPlan struct {
	Day        int        `json:"day"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

// Activity is a single recommendation. EstimatedCost is free text ("$20-$30", "Free").
type Activity struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	EstimatedCost string `json:"estimated_cost"`
	Justification string `json:"justification"`
}

// Source is a web page the model cited while grounding its answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Label is the text to show for the link.
func (s Source) Label() string {
	if s.Title != "" {
		return s.Title
	}
	return s.URI
}

// Result is what a successful generation returns.
type Result struct {
	Itinerary Itinerary `json:"itinerary"`
	Sources   []Source  `json:"sources"`
}
