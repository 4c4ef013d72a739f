package memory

import (
	"context"
	"sort"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/registration"
)

type RegistrationsRepo struct {
	s *Store
}

func registrationKey(eventID, email string) string {
	return eventID + "|" + registration.NormalizeEmail(email)
}

// Create takes a seat with a compare-and-increment under the store lock:
// the count only moves when it is still below capacity.
func (r *RegistrationsRepo) Create(ctx context.Context, req registration.CreateRegistrationRequest) (reg registration.Registration, err error) {
	err = r.s.observe("registrations.create", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		e, ok := r.s.events[req.EventID]
		if !ok {
			return event.ErrNotFound
		}
		if !e.IsPublished() {
			return registration.ErrNotPublished
		}

		key := registrationKey(req.EventID, req.Email)
		if _, exists := r.s.registrationKeys[key]; exists {
			return registration.ErrAlreadyRegistered
		}

		if e.RegisteredCount >= e.Capacity {
			return registration.ErrEventFull
		}

		reg = registration.NewFromCreateRequest(req)

		e.RegisteredCount++
		e.UpdatedAt = r.s.now()
		r.s.events[e.ID] = e

		r.s.registrations[reg.ID] = reg
		r.s.registrationKeys[key] = reg.ID
		return nil
	})
	return
}

func (r *RegistrationsRepo) ListByEvent(ctx context.Context, eventID string) ([]registration.Registration, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if _, ok := r.s.events[eventID]; !ok {
		return nil, event.ErrNotFound
	}

	out := make([]registration.Registration, 0)
	for _, reg := range r.s.registrations {
		if reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete cancels a registration and releases its seat.
func (r *RegistrationsRepo) Delete(ctx context.Context, eventID, registrationID string) error {
	return r.s.observe("registrations.delete", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		e, ok := r.s.events[eventID]
		if !ok {
			return event.ErrNotFound
		}

		reg, ok := r.s.registrations[registrationID]
		if !ok || reg.EventID != eventID {
			return registration.ErrNotFound
		}

		delete(r.s.registrations, registrationID)
		delete(r.s.registrationKeys, registrationKey(eventID, reg.Email))

		if e.RegisteredCount > 0 {
			e.RegisteredCount--
		}
		e.UpdatedAt = r.s.now()
		r.s.events[eventID] = e
		return nil
	})
}
