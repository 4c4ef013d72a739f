package ics

import (
	"net/url"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
)

func sampleEvent() event.Event {
	return event.Event{
		ID:          "evt-1",
		Title:       "Taller de Go",
		Description: "Concurrencia práctica",
		StartDate:   time.Date(2025, 10, 3, 15, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 10, 3, 17, 0, 0, 0, time.UTC),
		Theme:       event.ThemeProgramming,
		Audience:    []event.Audience{event.AudienceStudents},
		Modality:    event.ModalityPresencial,
		Location:    location.Location{ID: "loc-1", Name: "Aula Magna", Campus: "Centro", Capacity: 200},
		Capacity:    100,
		Organizer:   event.Organizer{Name: "Ana Ruiz", Email: "ana@campus.edu"},
		Status:      event.StatusPublished,
	}
}

func TestCalendarRoundTrip(t *testing.T) {
	now := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	out := Calendar("Eventos", []event.Event{sampleEvent()}, now)

	cal, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	events := cal.Events()
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ve := events[0]
	if got := ve.Id(); got != "evt-1@campusevents" {
		t.Fatalf("got uid %q", got)
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Taller de Go" {
		t.Fatalf("unexpected summary %+v", p)
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p == nil || p.Value != "Aula Magna, Centro" {
		t.Fatalf("unexpected location %+v", p)
	}

	start, err := ve.GetStartAt()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if !start.Equal(sampleEvent().StartDate) {
		t.Fatalf("got start %v, want %v", start, sampleEvent().StartDate)
	}
}

func TestCalendarEmpty(t *testing.T) {
	out := Calendar("", nil, time.Now())
	if !strings.Contains(out, "BEGIN:VCALENDAR") || strings.Contains(out, "BEGIN:VEVENT") {
		t.Fatalf("unexpected empty calendar:\n%s", out)
	}
}

func TestGoogleCalendarURL(t *testing.T) {
	raw := GoogleCalendarURL(sampleEvent())

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Host != "calendar.google.com" {
		t.Fatalf("got host %q", u.Host)
	}

	q := u.Query()
	if got := q.Get("dates"); got != "20251003T150000Z/20251003T170000Z" {
		t.Fatalf("got dates %q", got)
	}
	if got := q.Get("location"); got != "Aula Magna, Centro" {
		t.Fatalf("got location %q", got)
	}
	if got := q.Get("action"); got != "TEMPLATE" {
		t.Fatalf("got action %q", got)
	}
}
