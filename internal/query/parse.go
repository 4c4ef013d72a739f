package query

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/calendar"
	"github.com/geocoder89/campusevents/internal/domain/event"
)

// ParseFilter reads a Filter from query parameters:
//
//	theme, audience, modality, campus  repeated or comma separated
//	from, to                           YYYY-MM-DD (in loc) or RFC3339
//	q                                  free text search
func ParseFilter(values url.Values, loc *time.Location) (Filter, error) {
	var f Filter

	for _, v := range splitMulti(values["theme"]) {
		f.Themes = append(f.Themes, event.Theme(v))
	}
	for _, v := range splitMulti(values["audience"]) {
		f.Audiences = append(f.Audiences, event.Audience(v))
	}
	for _, v := range splitMulti(values["modality"]) {
		f.Modalities = append(f.Modalities, event.Modality(v))
	}
	f.Campuses = splitMulti(values["campus"])

	from, err := parseBound(values.Get("from"), loc)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: from: %v", ErrInvalidFilter, err)
	}
	to, err := parseBound(values.Get("to"), loc)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: to: %v", ErrInvalidFilter, err)
	}
	if from != nil || to != nil {
		f.DateRange = &DateRange{Start: from, End: to}
	}

	f.Search = values.Get("q")

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}

	return f, nil
}

func splitMulti(raw []string) []string {
	var out []string
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func parseBound(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if d, err := calendar.ParseDay(raw); err == nil {
		t := d.Time(loc)
		return &t, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD or RFC3339, got %q", raw)
	}
	return &t, nil
}
