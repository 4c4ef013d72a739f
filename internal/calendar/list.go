package calendar

import (
	"sort"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
)

const DefaultPreviewLimit = 3

// Options carries the clock and display zone so aggregation stays deterministic.
type Options struct {
	Now          time.Time
	Location     *time.Location
	PreviewLimit int
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.PreviewLimit <= 0 {
		o.PreviewLimit = DefaultPreviewLimit
	}
	return o
}

func (o Options) today() Day {
	return DayOf(o.Now, o.Location)
}

type Group struct {
	Date       Day           `json:"date"`
	Label      string        `json:"label"`
	IsToday    bool          `json:"isToday"`
	IsTomorrow bool          `json:"isTomorrow"`
	Events     []event.Event `json:"events"`
}

// ListGroups groups events by local start day. Groups come out in ascending
// date order and each group's events in ascending start order.
func ListGroups(events []event.Event, opts Options) []Group {
	opts = opts.withDefaults()
	today := opts.today()

	buckets := bucketByDay(events, opts.Location)

	days := make([]Day, 0, len(buckets))
	for d := range buckets {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	groups := make([]Group, 0, len(days))
	for _, d := range days {
		groups = append(groups, Group{
			Date:       d,
			Label:      RelativeLabel(d, today),
			IsToday:    d == today,
			IsTomorrow: d == today.AddDays(1),
			Events:     buckets[d],
		})
	}

	return groups
}

// bucketByDay returns every day's events already sorted by start.
func bucketByDay(events []event.Event, loc *time.Location) map[Day][]event.Event {
	buckets := make(map[Day][]event.Event)
	for _, e := range events {
		d := DayOf(e.StartDate, loc)
		buckets[d] = append(buckets[d], e)
	}
	for d := range buckets {
		SortByStart(buckets[d])
	}
	return buckets
}

// SortByStart orders events by start instant, breaking ties by id.
func SortByStart(events []event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
}
