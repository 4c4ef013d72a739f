package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geocoder89/campusevents/internal/domain/event"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name       string
		capacity   int
		registered int
		policy     Policy
		wantSpots  int
		wantRaw    int
		wantState  State
	}{
		{"open", 100, 10, Policy{}, 90, 90, StateOpen},
		{"threshold is inclusive", 100, 80, Policy{}, 20, 20, StateAlmostFull},
		{"just above threshold", 100, 79, Policy{}, 21, 21, StateOpen},
		{"one seat left", 10, 9, Policy{}, 1, 1, StateAlmostFull},
		{"exactly full", 30, 30, Policy{}, 0, 0, StateFull},
		{"oversold clamps display", 30, 34, Policy{}, 0, -4, StateFull},
		{"zero capacity", 0, 0, Policy{}, 0, 0, StateFull},
		{"custom ratio", 100, 55, Policy{AlmostFullRatio: 0.5}, 45, 45, StateAlmostFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(event.Event{Capacity: tt.capacity, RegisteredCount: tt.registered}, tt.policy)

			assert.Equal(t, tt.wantSpots, got.AvailableSpots)
			assert.Equal(t, tt.wantRaw, got.Raw)
			assert.Equal(t, tt.wantState, got.State)
			assert.Equal(t, tt.wantState != StateFull, got.CanRegister())
		})
	}
}
