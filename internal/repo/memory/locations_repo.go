package memory

import (
	"context"

	"github.com/geocoder89/campusevents/internal/domain/location"
)

// LocationsRepo is the venue catalog. List keeps insertion order.
type LocationsRepo struct {
	s *Store
}

func (r *LocationsRepo) Add(ctx context.Context, loc location.Location) (location.Location, error) {
	err := r.s.observe("locations.add", func() error {
		if err := loc.Validate(); err != nil {
			return err
		}

		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		if _, exists := r.s.locations[loc.ID]; !exists {
			r.s.locationOrder = append(r.s.locationOrder, loc.ID)
		}
		r.s.locations[loc.ID] = loc

		// events embed a copy of their venue; keep them in step
		for id, e := range r.s.events {
			if e.Location.ID == loc.ID {
				e.Location = loc
				r.s.events[id] = e
			}
		}
		return nil
	})
	if err != nil {
		return location.Location{}, err
	}
	return loc, nil
}

func (r *LocationsRepo) Create(ctx context.Context, req location.CreateLocationRequest) (location.Location, error) {
	return r.Add(ctx, location.NewFromCreateRequest(req))
}

func (r *LocationsRepo) GetByID(ctx context.Context, id string) (location.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	loc, ok := r.s.locations[id]
	if !ok {
		return location.Location{}, location.ErrNotFound
	}
	return loc, nil
}

func (r *LocationsRepo) List(ctx context.Context) ([]location.Location, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]location.Location, 0, len(r.s.locationOrder))
	for _, id := range r.s.locationOrder {
		out = append(out, r.s.locations[id])
	}
	return out, nil
}

// Delete refuses to remove a venue that any event still references.
func (r *LocationsRepo) Delete(ctx context.Context, id string) error {
	return r.s.observe("locations.delete", func() error {
		r.s.mu.Lock()
		defer r.s.mu.Unlock()

		if _, ok := r.s.locations[id]; !ok {
			return location.ErrNotFound
		}
		for _, e := range r.s.events {
			if e.Location.ID == id {
				return location.ErrInUse
			}
		}

		delete(r.s.locations, id)
		for i, existing := range r.s.locationOrder {
			if existing == id {
				r.s.locationOrder = append(r.s.locationOrder[:i], r.s.locationOrder[i+1:]...)
				break
			}
		}
		return nil
	})
}
