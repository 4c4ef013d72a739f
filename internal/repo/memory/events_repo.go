package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/google/uuid"
)

type EventsRepo struct {
	s *Store
}

// Add inserts a fully formed event. Missing id and timestamps are filled in;
// everything else must already satisfy the event invariants.
func (r *EventsRepo) Add(ctx context.Context, e event.Event) (out event.Event, err error) {
	err = r.s.observe("events.add", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		e = e.Clone()
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if _, exists := r.s.events[e.ID]; exists {
			return fmt.Errorf("%w: id %s already taken", event.ErrInvalid, e.ID)
		}

		loc, ok := r.s.locations[e.Location.ID]
		if !ok {
			return location.ErrNotFound
		}
		e.Location = loc

		now := r.s.now()
		if e.CreatedAt.IsZero() {
			e.CreatedAt = now
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = e.CreatedAt
		}

		if err := e.Validate(); err != nil {
			return err
		}

		r.s.events[e.ID] = e
		out = e.Clone()
		return nil
	})
	return
}

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (out event.Event, err error) {
	err = r.s.observe("events.create", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		loc, ok := r.s.locations[req.LocationID]
		if !ok {
			return location.ErrNotFound
		}

		e := event.NewFromCreateRequest(req, loc)
		if err := e.Validate(); err != nil {
			return err
		}

		r.s.events[e.ID] = e
		out = e.Clone()
		return nil
	})
	return
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (event.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.events[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	return e.Clone(), nil
}

// List returns a snapshot ordered by start date, then id. Callers may keep
// and modify it freely.
func (r *EventsRepo) List(ctx context.Context) ([]event.Event, error) {
	r.s.mu.RLock()
	out := make([]event.Event, 0, len(r.s.events))
	for _, e := range r.s.events {
		out = append(out, e.Clone())
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// Update applies a partial update. The merged event is validated before it
// replaces the stored one, so a rejected update leaves no trace.
func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (out event.Event, err error) {
	err = r.s.observe("events.update", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		existing, ok := r.s.events[id]
		if !ok {
			return event.ErrNotFound
		}

		updated := req.Apply(existing)

		if req.LocationID != nil {
			loc, ok := r.s.locations[*req.LocationID]
			if !ok {
				return location.ErrNotFound
			}
			updated.Location = loc
		}

		if err := updated.Validate(); err != nil {
			return err
		}

		updated.ID = existing.ID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = r.s.now()

		r.s.events[id] = updated
		out = updated.Clone()
		return nil
	})
	return
}

// Delete removes the event together with its registrations.
func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	return r.s.observe("events.delete", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		if _, ok := r.s.events[id]; !ok {
			return event.ErrNotFound
		}
		delete(r.s.events, id)

		for regID, reg := range r.s.registrations {
			if reg.EventID == id {
				delete(r.s.registrations, regID)
				delete(r.s.registrationKeys, registrationKey(reg.EventID, reg.Email))
			}
		}
		return nil
	})
}
