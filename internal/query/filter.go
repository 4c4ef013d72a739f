package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
)

// DateRange bounds are inclusive and day-granular. A nil bound is open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// Filter is a value: every update produces a new Filter. An empty clause
// places no constraint. A DateRange whose start is after its end is kept as
// given and matches nothing.
type Filter struct {
	Themes     []event.Theme    `json:"theme,omitempty"`
	Audiences  []event.Audience `json:"audience,omitempty"`
	Modalities []event.Modality `json:"modality,omitempty"`
	Campuses   []string         `json:"campus,omitempty"`
	DateRange  *DateRange       `json:"dateRange,omitempty"`
	Search     string           `json:"search,omitempty"`
}

var ErrInvalidFilter = errors.New("invalid filter")

// Validate rejects enum members outside the fixed sets. It does not look at
// the date range ordering.
func (f Filter) Validate() error {
	for _, t := range f.Themes {
		if !t.IsValid() {
			return fmt.Errorf("%w: theme %q", ErrInvalidFilter, t)
		}
	}
	for _, a := range f.Audiences {
		if !a.IsValid() {
			return fmt.Errorf("%w: audience %q", ErrInvalidFilter, a)
		}
	}
	for _, m := range f.Modalities {
		if !m.IsValid() {
			return fmt.Errorf("%w: modality %q", ErrInvalidFilter, m)
		}
	}
	for _, c := range f.Campuses {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: empty campus", ErrInvalidFilter)
		}
	}
	return nil
}

// ActiveCount is the number of clauses currently constraining results.
func (f Filter) ActiveCount() int {
	n := 0
	if len(f.Themes) > 0 {
		n++
	}
	if len(f.Audiences) > 0 {
		n++
	}
	if len(f.Modalities) > 0 {
		n++
	}
	if len(f.Campuses) > 0 {
		n++
	}
	if f.DateRange != nil && (f.DateRange.Start != nil || f.DateRange.End != nil) {
		n++
	}
	if f.searchNeedle() != "" {
		n++
	}
	return n
}

func (f Filter) IsZero() bool {
	return f.ActiveCount() == 0
}

func (f Filter) searchNeedle() string {
	return strings.ToLower(strings.TrimSpace(f.Search))
}

// Patch carries the clauses to replace. Nil slices and pointers leave the
// clause untouched; an empty non-nil slice clears it.
type Patch struct {
	Themes         []event.Theme
	Audiences      []event.Audience
	Modalities     []event.Modality
	Campuses       []string
	DateRange      *DateRange
	ClearDateRange bool
	Search         *string
}

// Merge returns base with the patched clauses replaced.
func Merge(base Filter, p Patch) Filter {
	out := base.clone()

	if p.Themes != nil {
		out.Themes = append([]event.Theme{}, p.Themes...)
	}
	if p.Audiences != nil {
		out.Audiences = append([]event.Audience{}, p.Audiences...)
	}
	if p.Modalities != nil {
		out.Modalities = append([]event.Modality{}, p.Modalities...)
	}
	if p.Campuses != nil {
		out.Campuses = append([]string{}, p.Campuses...)
	}
	if p.ClearDateRange {
		out.DateRange = nil
	}
	if p.DateRange != nil {
		r := *p.DateRange
		out.DateRange = &r
	}
	if p.Search != nil {
		out.Search = *p.Search
	}

	return out
}

func (f Filter) clone() Filter {
	out := f
	out.Themes = append([]event.Theme(nil), f.Themes...)
	out.Audiences = append([]event.Audience(nil), f.Audiences...)
	out.Modalities = append([]event.Modality(nil), f.Modalities...)
	out.Campuses = append([]string(nil), f.Campuses...)
	if f.DateRange != nil {
		r := *f.DateRange
		out.DateRange = &r
	}
	return out
}
