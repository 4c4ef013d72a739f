// Package conflict checks a prospective booking against the venue schedule
// and proposes other times on the same day or other venues at the same time.
package conflict

import (
	"time"

	"github.com/geocoder89/campusevents/internal/calendar"
	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
)

// Candidate is the booking being validated.
type Candidate struct {
	Location         location.Location
	StartDate        time.Time
	EndDate          time.Time
	RequiredCapacity int
	Needs            location.Capabilities
	// IgnoreEventID skips the event being edited so it cannot clash with itself.
	IgnoreEventID string
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Suggestions struct {
	TimeSlots            []TimeSlot          `json:"timeSlots"`
	AlternativeLocations []location.Location `json:"alternativeLocations"`
}

type Detection struct {
	HasConflict      bool         `json:"hasConflict"`
	ConflictingEvent *event.Event `json:"conflictingEvent,omitempty"`
	Suggestions      Suggestions  `json:"suggestions"`
}

// Config bounds the slot search. OpenAt and CloseAt are wall-clock times of
// day, given as durations past local midnight.
type Config struct {
	OpenAt   time.Duration
	CloseAt  time.Duration
	Step     time.Duration
	MaxSlots int
	Location *time.Location
}

const (
	DefaultOpenAt   = 8 * time.Hour
	DefaultCloseAt  = 22 * time.Hour
	DefaultStep     = 15 * time.Minute
	DefaultMaxSlots = 3
)

type Detector struct {
	cfg Config
}

func NewDetector(cfg Config) *Detector {
	if cfg.OpenAt == 0 && cfg.CloseAt == 0 {
		cfg.OpenAt, cfg.CloseAt = DefaultOpenAt, DefaultCloseAt
	}
	if cfg.OpenAt < 0 || cfg.CloseAt > 24*time.Hour || cfg.CloseAt <= cfg.OpenAt {
		cfg.OpenAt, cfg.CloseAt = DefaultOpenAt, DefaultCloseAt
	}
	if cfg.Step <= 0 {
		cfg.Step = DefaultStep
	}
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = DefaultMaxSlots
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Detector{cfg: cfg}
}

func (d *Detector) Config() Config {
	return d.cfg
}

// Overlaps is half-open: intervals that only touch at a boundary do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Detect reports the earliest-starting event that clashes with c at the same
// venue and, when there is one, computes suggestions. Every event occupies its
// venue regardless of status. A candidate whose end is not after its start
// yields an empty detection.
func (d *Detector) Detect(c Candidate, events []event.Event, catalog []location.Location) Detection {
	none := Detection{Suggestions: Suggestions{
		TimeSlots:            []TimeSlot{},
		AlternativeLocations: []location.Location{},
	}}

	if !c.EndDate.After(c.StartDate) {
		return none
	}

	clashes := occupying(events, c.Location.ID, c.IgnoreEventID, c.StartDate, c.EndDate)
	if len(clashes) == 0 {
		return none
	}

	first := clashes[0].Clone()

	return Detection{
		HasConflict:      true,
		ConflictingEvent: &first,
		Suggestions: Suggestions{
			TimeSlots:            d.freeSlots(c, events),
			AlternativeLocations: d.alternativeLocations(c, events, catalog),
		},
	}
}

// occupying returns the events at locationID overlapping [start, end), ordered by start then id.
func occupying(events []event.Event, locationID, ignoreID string, start, end time.Time) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.ID == ignoreID || e.Location.ID != locationID {
			continue
		}
		if Overlaps(start, end, e.StartDate, e.EndDate) {
			out = append(out, e)
		}
	}
	calendar.SortByStart(out)
	return out
}

// freeSlots walks the gaps in the venue's schedule forward from the candidate
// start, inside the opening window of the candidate's day, and takes the
// first MaxSlots gaps long enough for the candidate. Each slot starts at the
// first Step boundary inside its gap.
func (d *Detector) freeSlots(c Candidate, events []event.Event) []TimeSlot {
	slots := []TimeSlot{}
	duration := c.EndDate.Sub(c.StartDate)

	day := calendar.DayOf(c.StartDate, d.cfg.Location)
	open := d.wallClock(day, d.cfg.OpenAt)
	closing := d.wallClock(day, d.cfg.CloseAt)

	from := c.StartDate
	if from.Before(open) {
		from = open
	}

	busy := occupying(events, c.Location.ID, c.IgnoreEventID, from, closing)

	cursor := d.align(from)
	for _, b := range busy {
		if len(slots) == d.cfg.MaxSlots {
			return slots
		}
		if !b.EndDate.After(cursor) {
			continue
		}

		gapEnd := b.StartDate
		if gapEnd.After(closing) {
			gapEnd = closing
		}
		if gapEnd.Sub(cursor) >= duration {
			slots = append(slots, TimeSlot{Start: cursor, End: cursor.Add(duration)})
		}

		cursor = d.align(b.EndDate)
	}

	if len(slots) < d.cfg.MaxSlots && closing.Sub(cursor) >= duration {
		slots = append(slots, TimeSlot{Start: cursor, End: cursor.Add(duration)})
	}

	return slots
}

// wallClock returns the instant the local clock reads off past midnight on
// day. It goes through time.Date, so a DST switch earlier that day does not
// shift the result.
func (d *Detector) wallClock(day calendar.Day, off time.Duration) time.Time {
	return time.Date(day.Year, day.Month, day.Day,
		int(off/time.Hour), int(off%time.Hour/time.Minute), 0, int(off%time.Minute), d.cfg.Location)
}

// align rounds t up to the next Step boundary of the local wall clock.
func (d *Detector) align(t time.Time) time.Time {
	local := t.In(d.cfg.Location)
	h, m, sec := local.Clock()
	offset := time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second + time.Duration(local.Nanosecond())
	rem := offset % d.cfg.Step
	if rem == 0 {
		return t
	}
	return d.wallClock(calendar.DayOf(t, d.cfg.Location), offset+d.cfg.Step-rem)
}

// alternativeLocations keeps catalog order. The candidate's own venue is excluded.
func (d *Detector) alternativeLocations(c Candidate, events []event.Event, catalog []location.Location) []location.Location {
	out := []location.Location{}
	for _, loc := range catalog {
		if loc.ID == c.Location.ID {
			continue
		}
		if loc.Capacity < c.RequiredCapacity || !loc.Supports(c.Needs) {
			continue
		}
		if len(occupying(events, loc.ID, c.IgnoreEventID, c.StartDate, c.EndDate)) > 0 {
			continue
		}
		out = append(out, loc)
	}
	return out
}

// CandidateFor builds the candidate for an existing or prospective event.
func CandidateFor(e event.Event) Candidate {
	return Candidate{
		Location:         e.Location,
		StartDate:        e.StartDate,
		EndDate:          e.EndDate,
		RequiredCapacity: e.Capacity,
		Needs:            e.TechnicalChecklist.Needs(),
		IgnoreEventID:    e.ID,
	}
}
