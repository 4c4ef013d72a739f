package query

import (
	"slices"
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/calendar"
	"github.com/geocoder89/campusevents/internal/domain/event"
)

// Matches reports whether e satisfies every clause of f. Clauses are ANDed;
// the values inside one clause are ORed. Day comparisons use loc.
func Matches(e event.Event, f Filter, loc *time.Location) bool {
	if needle := f.searchNeedle(); needle != "" {
		if !containsFold(e.Title, needle) &&
			!containsFold(e.Description, needle) &&
			!containsFold(e.Organizer.Name, needle) {
			return false
		}
	}

	if len(f.Themes) > 0 && !slices.Contains(f.Themes, e.Theme) {
		return false
	}

	if len(f.Audiences) > 0 && !slices.ContainsFunc(f.Audiences, e.HasAudience) {
		return false
	}

	if len(f.Modalities) > 0 && !slices.Contains(f.Modalities, e.Modality) {
		return false
	}

	if len(f.Campuses) > 0 && !slices.Contains(f.Campuses, e.Location.Campus) {
		return false
	}

	if r := f.DateRange; r != nil {
		day := calendar.DayOf(e.StartDate, loc)

		if r.Start != nil && day.Before(calendar.DayOf(*r.Start, loc)) {
			return false
		}
		if r.End != nil && day.After(calendar.DayOf(*r.End, loc)) {
			return false
		}
	}

	return true
}

// needle is already lowercased
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), needle)
}

// Apply filters events and keeps only the published ones, preserving input order.
func Apply(events []event.Event, f Filter, loc *time.Location) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if !e.IsPublished() {
			continue
		}
		if Matches(e, f, loc) {
			out = append(out, e)
		}
	}
	return out
}
