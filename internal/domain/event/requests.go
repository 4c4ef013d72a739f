package event

import "time"

type CreateEventRequest struct {
	Title              string             `json:"title" binding:"required,min=3,max=120"`
	Description        string             `json:"description" binding:"omitempty,max=2000"`
	StartDate          time.Time          `json:"startDate" binding:"required"`
	EndDate            time.Time          `json:"endDate" binding:"required"`
	Theme              Theme              `json:"theme" binding:"required,event_theme"`
	Audience           []Audience         `json:"audience" binding:"required,min=1,dive,event_audience"`
	Modality           Modality           `json:"modality" binding:"required,event_modality"`
	LocationID         string             `json:"locationId" binding:"required"`
	Capacity           int                `json:"capacity" binding:"gte=0,lte=50000"`
	Organizer          Organizer          `json:"organizer"`
	TechnicalChecklist TechnicalChecklist `json:"technicalChecklist"`
	Status             Status             `json:"status" binding:"omitempty,event_status"`
	Accessibility      string             `json:"accessibility" binding:"omitempty,max=1000"`
	RulesForMinors     string             `json:"rulesForMinors" binding:"omitempty,max=1000"`
}

// UpdateEventRequest is a partial update: nil fields keep the stored value.
// The merged event is validated as a whole, so a patch that only moves the
// start date past the end date is still rejected. RegisteredCount is not
// patchable: it only moves through registration create and cancel.
type UpdateEventRequest struct {
	Title              *string             `json:"title" binding:"omitempty,min=3,max=120"`
	Description        *string             `json:"description" binding:"omitempty,max=2000"`
	StartDate          *time.Time          `json:"startDate"`
	EndDate            *time.Time          `json:"endDate"`
	Theme              *Theme              `json:"theme" binding:"omitempty,event_theme"`
	Audience           []Audience          `json:"audience" binding:"omitempty,dive,event_audience"`
	Modality           *Modality           `json:"modality" binding:"omitempty,event_modality"`
	LocationID         *string             `json:"locationId" binding:"omitempty,min=1"`
	Capacity           *int                `json:"capacity" binding:"omitempty,gte=0,lte=50000"`
	Organizer          *Organizer          `json:"organizer"`
	TechnicalChecklist *TechnicalChecklist `json:"technicalChecklist"`
	Status             *Status             `json:"status" binding:"omitempty,event_status"`
	Accessibility      *string             `json:"accessibility" binding:"omitempty,max=1000"`
	RulesForMinors     *string             `json:"rulesForMinors" binding:"omitempty,max=1000"`
}

// Apply merges the patch into a copy of e. LocationID is resolved by the store.
func (req UpdateEventRequest) Apply(e Event) Event {
	out := e.Clone()

	if req.Title != nil {
		out.Title = *req.Title
	}
	if req.Description != nil {
		out.Description = *req.Description
	}
	if req.StartDate != nil {
		out.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		out.EndDate = *req.EndDate
	}
	if req.Theme != nil {
		out.Theme = *req.Theme
	}
	if req.Audience != nil {
		out.Audience = append([]Audience(nil), req.Audience...)
	}
	if req.Modality != nil {
		out.Modality = *req.Modality
	}
	if req.Capacity != nil {
		out.Capacity = *req.Capacity
	}
	if req.Organizer != nil {
		out.Organizer = *req.Organizer
	}
	if req.TechnicalChecklist != nil {
		out.TechnicalChecklist = *req.TechnicalChecklist
	}
	if req.Status != nil {
		out.Status = *req.Status
	}
	if req.Accessibility != nil {
		out.Accessibility = *req.Accessibility
	}
	if req.RulesForMinors != nil {
		out.RulesForMinors = *req.RulesForMinors
	}

	return out
}
