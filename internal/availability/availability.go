package availability

import "github.com/geocoder89/campusevents/internal/domain/event"

type State string

const (
	StateOpen       State = "open"
	StateAlmostFull State = "almost_full"
	StateFull       State = "full"
)

const DefaultAlmostFullRatio = 0.2

// Policy holds the presentation thresholds. The zero value uses the defaults.
type Policy struct {
	// AlmostFullRatio is a share of total capacity, not a seat count.
	AlmostFullRatio float64
}

func (p Policy) ratio() float64 {
	if p.AlmostFullRatio <= 0 {
		return DefaultAlmostFullRatio
	}
	return p.AlmostFullRatio
}

type Result struct {
	// AvailableSpots is clamped at zero for display.
	AvailableSpots int   `json:"availableSpots"`
	Raw            int   `json:"raw"`
	State          State `json:"state"`
}

// CanRegister gates the registration action.
func (r Result) CanRegister() bool {
	return r.State != StateFull
}

func Calculate(e event.Event, p Policy) Result {
	raw := e.Capacity - e.RegisteredCount

	state := StateOpen
	switch {
	case raw <= 0:
		state = StateFull
	case float64(raw) <= float64(e.Capacity)*p.ratio():
		state = StateAlmostFull
	}

	spots := raw
	if spots < 0 {
		spots = 0
	}

	return Result{AvailableSpots: spots, Raw: raw, State: state}
}
