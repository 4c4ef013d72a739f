package query

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/geocoder89/campusevents/internal/calendar"
	"github.com/geocoder89/campusevents/internal/domain/event"
)

var tracer = otel.Tracer("github.com/geocoder89/campusevents/internal/query")

// EventSource hands out a stable snapshot of the event collection.
type EventSource interface {
	List(ctx context.Context) ([]event.Event, error)
}

// Engine answers filtered queries over whatever the source holds right now.
// It keeps no state between calls; callers decide when to recompute or cache.
type Engine struct {
	src EventSource
	loc *time.Location
}

func NewEngine(src EventSource, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.Local
	}
	return &Engine{src: src, loc: loc}
}

func (en *Engine) Location() *time.Location {
	return en.loc
}

// QueryEvents returns the published events matching f in snapshot order.
func (en *Engine) QueryEvents(ctx context.Context, f Filter) ([]event.Event, error) {
	ctx, span := tracer.Start(ctx, "query.QueryEvents")
	defer span.End()

	all, err := en.src.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	out := Apply(all, f, en.loc)

	span.SetAttributes(
		attribute.Int("filter.active_clauses", f.ActiveCount()),
		attribute.Int("events.total", len(all)),
		attribute.Int("events.matched", len(out)),
	)

	return out, nil
}

// EventsOn returns the published events matching f that start on day, by start time.
func (en *Engine) EventsOn(ctx context.Context, day calendar.Day, f Filter) ([]event.Event, error) {
	events, err := en.QueryEvents(ctx, f)
	if err != nil {
		return nil, err
	}
	return calendar.DayPanel(events, day, calendar.Options{Location: en.loc}).Events, nil
}
