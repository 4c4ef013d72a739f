package calendar

import "github.com/geocoder89/campusevents/internal/domain/event"

// Panel is the side panel opened when a member clicks a grid day.
type Panel struct {
	Date   Day           `json:"date"`
	Label  string        `json:"label"`
	Events []event.Event `json:"events"`
}

func DayPanel(events []event.Event, day Day, opts Options) Panel {
	opts = opts.withDefaults()

	out := make([]event.Event, 0)
	for _, e := range events {
		if DayOf(e.StartDate, opts.Location) == day {
			out = append(out, e)
		}
	}
	SortByStart(out)

	return Panel{
		Date:   day,
		Label:  RelativeLabel(day, opts.today()),
		Events: out,
	}
}
