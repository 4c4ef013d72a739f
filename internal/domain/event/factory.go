package event

import (
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/google/uuid"
)

// NewFromCreateRequest builds an event from the incoming DTO. New events start as
// drafts unless the request says otherwise; RegisteredCount always starts at zero.
func NewFromCreateRequest(req CreateEventRequest, loc location.Location) Event {
	now := time.Now().UTC()

	status := req.Status
	if status == "" {
		status = StatusDraft
	}

	return Event{
		ID:                 uuid.NewString(),
		Title:              strings.TrimSpace(req.Title),
		Description:        req.Description,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Theme:              req.Theme,
		Audience:           append([]Audience(nil), req.Audience...),
		Modality:           req.Modality,
		Location:           loc,
		Capacity:           req.Capacity,
		Organizer:          req.Organizer,
		TechnicalChecklist: req.TechnicalChecklist,
		Status:             status,
		Accessibility:      req.Accessibility,
		RulesForMinors:     req.RulesForMinors,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}
