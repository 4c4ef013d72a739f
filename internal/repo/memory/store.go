package memory

import (
	"sync"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/domain/registration"
	"github.com/geocoder89/campusevents/internal/observability"
)

// Store is the in-process event store. Events, the location catalog and
// registrations share one lock so cross-entity rules (a location in use
// cannot be deleted, a registration never oversells) hold atomically.
type Store struct {
	mu sync.RWMutex

	events map[string]event.Event

	locations     map[string]location.Location
	locationOrder []string

	registrations map[string]registration.Registration
	// eventID + "|" + normalized email -> registration id
	registrationKeys map[string]string

	prom *observability.Prom
	now  func() time.Time
}

func NewStore(prom *observability.Prom) *Store {
	return &Store{
		events:           make(map[string]event.Event),
		locations:        make(map[string]location.Location),
		registrations:    make(map[string]registration.Registration),
		registrationKeys: make(map[string]string),
		prom:             prom,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Events() *EventsRepo {
	return &EventsRepo{s: s}
}

func (s *Store) Locations() *LocationsRepo {
	return &LocationsRepo{s: s}
}

func (s *Store) Registrations() *RegistrationsRepo {
	return &RegistrationsRepo{s: s}
}

func (s *Store) observe(op string, fn func() error) error {
	if s.prom != nil {
		return s.prom.ObserveStore(op, fn)
	}
	return fn()
}
