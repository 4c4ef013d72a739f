package utils

import (
	"testing"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/query"
)

func TestBuildEventsQueryCacheKeyIsOrderIndependent(t *testing.T) {
	a := query.Filter{
		Themes:   []event.Theme{event.ThemeScience, event.ThemeProgramming},
		Campuses: []string{"Norte", "Centro"},
		Search:   "  Taller ",
	}
	b := query.Filter{
		Themes:   []event.Theme{event.ThemeProgramming, event.ThemeScience},
		Campuses: []string{"centro", "norte"},
		Search:   "taller",
	}

	if got, want := BuildEventsQueryCacheKey("list", a), BuildEventsQueryCacheKey("list", b); got != want {
		t.Fatalf("keys differ:\n got  %s\n want %s", got, want)
	}
}

func TestBuildEventsQueryCacheKeyDistinguishesViews(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	f := query.Filter{DateRange: &query.DateRange{Start: &start}}

	list := BuildEventsQueryCacheKey("list", f)
	cal := BuildEventsQueryCacheKey("calendar", f, "2025-10")

	if list == cal {
		t.Fatalf("expected different keys for different views")
	}
	if len(list) < len(EventsCachePrefix) || list[:len(EventsCachePrefix)] != EventsCachePrefix {
		t.Fatalf("key %q does not start with %q", list, EventsCachePrefix)
	}
}

func TestIsUUID(t *testing.T) {
	if !IsUUID("6f1c1f2e-1d5e-4e1c-9a3b-2c1d4e5f6a7b") {
		t.Fatalf("expected valid uuid")
	}
	if IsUUID("evt-1") {
		t.Fatalf("expected invalid uuid")
	}
}
