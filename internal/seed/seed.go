package seed

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
)

// Fixture is the on-disk shape of a seed file.
type Fixture struct {
	Locations []location.Location `yaml:"locations"`
	Events    []EventFixture      `yaml:"events"`
}

type EventFixture struct {
	ID                 string                   `yaml:"id"`
	Title              string                   `yaml:"title"`
	Description        string                   `yaml:"description"`
	StartDate          time.Time                `yaml:"startDate"`
	EndDate            time.Time                `yaml:"endDate"`
	Theme              event.Theme              `yaml:"theme"`
	Audience           []event.Audience         `yaml:"audience"`
	Modality           event.Modality           `yaml:"modality"`
	LocationID         string                   `yaml:"locationId"`
	Capacity           int                      `yaml:"capacity"`
	RegisteredCount    int                      `yaml:"registeredCount"`
	Organizer          event.Organizer          `yaml:"organizer"`
	TechnicalChecklist event.TechnicalChecklist `yaml:"technicalChecklist"`
	Status             event.Status             `yaml:"status"`
	Accessibility      string                   `yaml:"accessibility"`
	RulesForMinors     string                   `yaml:"rulesForMinors"`
}

func (f EventFixture) toEvent() event.Event {
	status := f.Status
	if status == "" {
		status = event.StatusPublished
	}
	return event.Event{
		ID:                 f.ID,
		Title:              f.Title,
		Description:        f.Description,
		StartDate:          f.StartDate,
		EndDate:            f.EndDate,
		Theme:              f.Theme,
		Audience:           f.Audience,
		Modality:           f.Modality,
		Location:           location.Location{ID: f.LocationID},
		Capacity:           f.Capacity,
		RegisteredCount:    f.RegisteredCount,
		Organizer:          f.Organizer,
		TechnicalChecklist: f.TechnicalChecklist,
		Status:             status,
		Accessibility:      f.Accessibility,
		RulesForMinors:     f.RulesForMinors,
	}
}

type LocationAdder interface {
	Add(ctx context.Context, loc location.Location) (location.Location, error)
}

type EventAdder interface {
	Add(ctx context.Context, e event.Event) (event.Event, error)
}

func Parse(data []byte) (Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return Fixture{}, fmt.Errorf("seed: decode: %w", err)
	}
	return fx, nil
}

func LoadFile(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(data)
}

type Result struct {
	Locations int
	Events    int
}

// Apply inserts locations first so every event can resolve its venue.
// It stops at the first record the store rejects.
func Apply(ctx context.Context, fx Fixture, locations LocationAdder, events EventAdder) (Result, error) {
	var res Result

	for _, loc := range fx.Locations {
		if _, err := locations.Add(ctx, loc); err != nil {
			return res, fmt.Errorf("seed: location %q: %w", loc.ID, err)
		}
		res.Locations++
	}

	for _, ef := range fx.Events {
		if _, err := events.Add(ctx, ef.toEvent()); err != nil {
			return res, fmt.Errorf("seed: event %q: %w", ef.ID, err)
		}
		res.Events++
	}

	return res, nil
}
