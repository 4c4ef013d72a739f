package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/campusevents/internal/conflict"
	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/http/handlers"
	"github.com/geocoder89/campusevents/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func newConflictsRouter(t *testing.T) *gin.Engine {
	t.Helper()

	store := memory.NewStore(nil)
	ctx := context.Background()

	sala := location.Location{ID: "sala-b", Name: "Sala B", Campus: "Norte", Capacity: 250, HasProjector: true, HasMicrophone: true}
	lab := location.Location{ID: "lab", Name: "Laboratorio", Campus: "Norte", Capacity: 20}
	for _, l := range []location.Location{aula, lab, sala} {
		if _, err := store.Locations().Add(ctx, l); err != nil {
			t.Fatalf("seed location: %v", err)
		}
	}

	// an unpublished event still holds the room
	booked := testEvent("ensayo", time.Date(2025, 10, 10, 10, 0, 0, 0, testZone), func(e *event.Event) {
		e.Status = event.StatusUnderReview
	})
	if _, err := store.Events().Add(ctx, booked); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	h := handlers.NewConflictsHandler(store.Events(), store.Locations(), conflict.NewDetector(conflict.Config{Location: testZone}), nil, nil)

	r := gin.New()
	r.POST("/conflicts/check", h.Check)
	return r
}

func checkConflict(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/conflicts/check", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestConflictsCheckHandler(t *testing.T) {
	r := newConflictsRouter(t)

	w := checkConflict(r, `{
		"locationId": "aula-magna",
		"startDate": "2025-10-10T11:00:00+01:00",
		"endDate": "2025-10-10T12:00:00+01:00",
		"requiredCapacity": 150,
		"needs": {"projector": true}
	}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var got struct {
		HasConflict      bool `json:"hasConflict"`
		ConflictingEvent *struct {
			ID string `json:"id"`
		} `json:"conflictingEvent"`
		Suggestions struct {
			TimeSlots []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"timeSlots"`
			AlternativeLocations []struct {
				ID string `json:"id"`
			} `json:"alternativeLocations"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !got.HasConflict || got.ConflictingEvent == nil || got.ConflictingEvent.ID != "ensayo" {
		t.Fatalf("expected clash with ensayo, got %+v", got)
	}
	if len(got.Suggestions.TimeSlots) == 0 {
		t.Fatalf("expected time slot suggestions")
	}
	first := got.Suggestions.TimeSlots[0]
	if !first.Start.Equal(time.Date(2025, 10, 10, 12, 0, 0, 0, testZone)) || first.End.Sub(first.Start) != time.Hour {
		t.Fatalf("unexpected first slot %+v", first)
	}
	if len(got.Suggestions.AlternativeLocations) != 1 || got.Suggestions.AlternativeLocations[0].ID != "sala-b" {
		t.Fatalf("unexpected alternatives %+v", got.Suggestions.AlternativeLocations)
	}
}

func TestConflictsCheckHandler_Edges(t *testing.T) {
	r := newConflictsRouter(t)

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantClashes bool
	}{
		{
			name:       "touching boundary is free",
			body:       `{"locationId":"aula-magna","startDate":"2025-10-10T12:00:00+01:00","endDate":"2025-10-10T13:00:00+01:00"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "editing the booked event itself",
			body:       `{"locationId":"aula-magna","startDate":"2025-10-10T10:30:00+01:00","endDate":"2025-10-10T12:30:00+01:00","ignoreEventId":"ensayo"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "inverted window",
			body:       `{"locationId":"aula-magna","startDate":"2025-10-10T12:00:00+01:00","endDate":"2025-10-10T10:00:00+01:00"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown location",
			body:       `{"locationId":"nowhere","startDate":"2025-10-10T11:00:00+01:00","endDate":"2025-10-10T12:00:00+01:00"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "missing dates",
			body:       `{"locationId":"aula-magna"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := checkConflict(r, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if w.Code != http.StatusOK {
				return
			}

			var got struct {
				HasConflict bool `json:"hasConflict"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.HasConflict != tt.wantClashes {
				t.Fatalf("got hasConflict %v, want %v", got.HasConflict, tt.wantClashes)
			}
		})
	}
}
