// README: View models for rendering an itinerary as collapsible day sections.
package display

import "tripgenie/internal/trip"

// DefaultOpenDay is the day expanded when an itinerary is first shown.
const DefaultOpenDay = 1

type ActivityView struct {
	Title         string
	Description   string
	EstimatedCost string
	Justification string
}

type DayView struct {
	Day   int
	Theme string
	Open  bool
	// ToggleDay is the openDay value that clicking this section's header selects.
	ToggleDay  int
	Activities []ActivityView
}

type View struct {
	Title   string
	Cost    string
	Summary string
	OpenDay int
	Days    []DayView
	// Sources is nil when there is nothing to cite.
	Sources []trip.Source
}

func (v View) HasSources() bool {
	return len(v.Sources) > 0
}

// Toggle returns the open day after a click on day: clicking the open day
// collapses everything, any other day becomes the only open one.
func Toggle(openDay, day int) int {
	if day == openDay {
		return 0
	}
	return day
}

// NewView lays out an itinerary in model order with only openDay expanded.
// An openDay of 0 or one that matches no plan leaves every day collapsed.
func NewView(it trip.Itinerary, sources []trip.Source, openDay int) View {
	v := View{
		Title:   it.TripTitle,
		Cost:    it.TotalEstimatedCost,
		Summary: it.Summary,
		OpenDay: openDay,
		Days:    make([]DayView, 0, len(it.DailyPlans)),
	}
	for _, plan := range it.DailyPlans {
		d := DayView{
			Day:       plan.Day,
			Theme:     plan.Theme,
			Open:      openDay != 0 && plan.Day == openDay,
			ToggleDay: Toggle(openDay, plan.Day),
		}
		for _, a := range plan.Activities {
			d.Activities = append(d.Activities, ActivityView{
				Title:         a.Title,
				Description:   a.Description,
				EstimatedCost: a.EstimatedCost,
				Justification: a.Justification,
			})
		}
		v.Days = append(v.Days, d)
	}
	if len(sources) > 0 {
		v.Sources = append([]trip.Source(nil), sources...)
	}
	return v
}
