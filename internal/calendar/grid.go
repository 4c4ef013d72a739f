package calendar

import (
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
)

type GridDay struct {
	Date           Day           `json:"date"`
	IsCurrentMonth bool          `json:"isCurrentMonth"`
	IsToday        bool          `json:"isToday"`
	IsSelected     bool          `json:"isSelected"`
	Events         []event.Event `json:"events"`
	OverflowCount  int           `json:"overflowCount"`
}

// GridBounds returns the Sunday on/before the first of m and the Saturday
// on/after its last day.
func GridBounds(m Month) (first, last Day) {
	first = m.FirstDay()
	first = first.AddDays(-int(first.Weekday()))

	last = m.LastDay()
	last = last.AddDays(int(time.Saturday - last.Weekday()))

	return first, last
}

// Grid lays out whole weeks around m. Each cell previews at most
// opts.PreviewLimit events and counts the rest in OverflowCount.
func Grid(events []event.Event, m Month, selected *Day, opts Options) []GridDay {
	opts = opts.withDefaults()
	today := opts.today()

	first, last := GridBounds(m)
	buckets := bucketByDay(events, opts.Location)

	cells := make([]GridDay, 0, 42)
	for d := first; !d.After(last); d = d.AddDays(1) {
		dayEvents := buckets[d]

		preview := dayEvents
		overflow := 0
		if len(dayEvents) > opts.PreviewLimit {
			preview = dayEvents[:opts.PreviewLimit]
			overflow = len(dayEvents) - opts.PreviewLimit
		}
		if preview == nil {
			preview = []event.Event{}
		}

		cells = append(cells, GridDay{
			Date:           d,
			IsCurrentMonth: m.Contains(d),
			IsToday:        d == today,
			IsSelected:     selected != nil && *selected == d,
			Events:         preview,
			OverflowCount:  overflow,
		})
	}

	return cells
}

// Weeks splits a grid into rows of seven.
func Weeks(cells []GridDay) [][]GridDay {
	weeks := make([][]GridDay, 0, len(cells)/7)
	for i := 0; i+7 <= len(cells); i += 7 {
		weeks = append(weeks, cells[i:i+7])
	}
	return weeks
}
