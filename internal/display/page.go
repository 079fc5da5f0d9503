package display

import (
	"tripgenie/internal/shell"
	"tripgenie/internal/trip"
)

// RefreshSeconds is how often the loading page polls for the result.
const RefreshSeconds = 2

type InterestOption struct {
	Name    string
	Checked bool
}

type FormView struct {
	Destination         string
	Duration            int
	Budget              int
	SpecialRequirements string
	Interests           []InterestOption
	Problems            []trip.FieldProblem

	MinDuration int
	MaxDuration int
	MinBudget   int
}

// Page is everything the HTML templates need for one shell state.
// Exactly one of Form, Itinerary and Message is meaningful, selected by Status.
type Page struct {
	Status         shell.Status
	Form           *FormView
	Destination    string
	RefreshSeconds int
	Itinerary      *View
	Message        string
}

func NewFormView(p trip.Preferences, problems []trip.FieldProblem) *FormView {
	f := &FormView{
		Destination:         p.Destination,
		Duration:            p.Duration,
		Budget:              p.Budget,
		SpecialRequirements: p.SpecialRequirements,
		Problems:            problems,
		MinDuration:         trip.MinDuration,
		MaxDuration:         trip.MaxDuration,
		MinBudget:           trip.MinBudget,
	}
	for _, i := range trip.AllInterests {
		f.Interests = append(f.Interests, InterestOption{Name: string(i), Checked: p.HasInterest(i)})
	}
	return f
}

// PageFor maps a shell state to its page. openDay only matters for Success.
func PageFor(st shell.State, openDay int) Page {
	switch s := st.(type) {
	case shell.Loading:
		return Page{Status: shell.StatusLoading, Destination: s.Preferences.Destination, RefreshSeconds: RefreshSeconds}
	case shell.Success:
		v := NewView(s.Itinerary, s.Sources, openDay)
		return Page{Status: shell.StatusSuccess, Itinerary: &v}
	case shell.Failed:
		return Page{Status: shell.StatusFailed, Message: s.Message}
	case shell.Idle:
		return Page{Status: shell.StatusIdle, Form: NewFormView(s.Form, s.Problems)}
	default:
		return Page{Status: shell.StatusIdle, Form: NewFormView(trip.DefaultPreferences(), nil)}
	}
}
