package ics

import (
	"net/url"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/geocoder89/campusevents/internal/domain/event"
)

const productID = "-//campusevents//events//ES"

// compact UTC form shared by Google Calendar links and DTSTART/DTEND
const stampLayout = "20060102T150405Z"

// Calendar renders events as a VCALENDAR. Order is preserved.
func Calendar(name string, events []event.Event, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	if name != "" {
		cal.SetName(name)
	}

	for _, e := range events {
		addEvent(cal, e, now)
	}

	return cal.Serialize()
}

// Single renders one event as a downloadable calendar file.
func Single(e event.Event, now time.Time) string {
	return Calendar(e.Title, []event.Event{e}, now)
}

func addEvent(cal *ical.Calendar, e event.Event, now time.Time) {
	ve := cal.AddEvent(e.ID + "@campusevents")
	ve.SetDtStampTime(now.UTC())
	if !e.CreatedAt.IsZero() {
		ve.SetCreatedTime(e.CreatedAt.UTC())
	}
	if !e.UpdatedAt.IsZero() {
		ve.SetModifiedAt(e.UpdatedAt.UTC())
	}
	ve.SetStartAt(e.StartDate.UTC())
	ve.SetEndAt(e.EndDate.UTC())
	ve.SetSummary(e.Title)
	if e.Description != "" {
		ve.SetDescription(e.Description)
	}
	ve.SetLocation(venueLabel(e))
	if e.Organizer.Email != "" {
		ve.SetOrganizer("mailto:"+e.Organizer.Email, ical.WithCN(e.Organizer.Name))
	}

	if e.IsPublished() {
		ve.SetStatus(ical.ObjectStatusConfirmed)
	} else {
		ve.SetStatus(ical.ObjectStatusTentative)
	}
}

func venueLabel(e event.Event) string {
	parts := make([]string, 0, 2)
	if e.Location.Name != "" {
		parts = append(parts, e.Location.Name)
	}
	if e.Location.Campus != "" {
		parts = append(parts, e.Location.Campus)
	}
	return strings.Join(parts, ", ")
}

// GoogleCalendarURL builds an "add to calendar" template link.
func GoogleCalendarURL(e event.Event) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", e.Title)
	q.Set("dates", e.StartDate.UTC().Format(stampLayout)+"/"+e.EndDate.UTC().Format(stampLayout))
	q.Set("details", e.Description)
	q.Set("location", venueLabel(e))

	return "https://calendar.google.com/calendar/render?" + q.Encode()
}
