package event

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/location"
)

type Organizer struct {
	Name  string `json:"name" yaml:"name" binding:"required,min=2,max=120"`
	Email string `json:"email" yaml:"email" binding:"required,email"`
	Phone string `json:"phone,omitempty" yaml:"phone" binding:"omitempty,max=40"`
}

// TechnicalChecklist is filled in by the venue team before an event goes live.
type TechnicalChecklist struct {
	Microphone  bool       `json:"microphone" yaml:"microphone"`
	Streaming   bool       `json:"streaming" yaml:"streaming"`
	Projector   bool       `json:"projector" yaml:"projector"`
	EarlyAccess bool       `json:"earlyAccess" yaml:"earlyAccess"` // 1 hour before
	Reviewed    bool       `json:"reviewed" yaml:"reviewed"`
	ReviewedBy  string     `json:"reviewedBy,omitempty" yaml:"reviewedBy"`
	ReviewDate  *time.Time `json:"reviewDate,omitempty" yaml:"reviewDate"`
	Notes       string     `json:"notes,omitempty" yaml:"notes"`
}

// Needs maps the checklist onto the venue capabilities it implies.
func (c TechnicalChecklist) Needs() location.Capabilities {
	return location.Capabilities{
		Projector:  c.Projector,
		Microphone: c.Microphone,
		Streaming:  c.Streaming,
	}
}

type Event struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	StartDate          time.Time          `json:"startDate"`
	EndDate            time.Time          `json:"endDate"`
	Theme              Theme              `json:"theme"`
	Audience           []Audience         `json:"audience"`
	Modality           Modality           `json:"modality"`
	Location           location.Location  `json:"location"`
	Capacity           int                `json:"capacity"`
	RegisteredCount    int                `json:"registeredCount"`
	Organizer          Organizer          `json:"organizer"`
	TechnicalChecklist TechnicalChecklist `json:"technicalChecklist"`
	Status             Status             `json:"status"`
	Accessibility      string             `json:"accessibility,omitempty"`
	RulesForMinors     string             `json:"rulesForMinors,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// ErrInvalid is wrapped by every invariant violation so callers can match the whole class.
var ErrInvalid = errors.New("invalid event")

var (
	ErrNotFound             = errors.New("event not found")
	ErrMissingTitle         = fmt.Errorf("%w: title is required", ErrInvalid)
	ErrInvalidTimeWindow    = fmt.Errorf("%w: end date must be after start date", ErrInvalid)
	ErrNegativeCapacity     = fmt.Errorf("%w: capacity must not be negative", ErrInvalid)
	ErrRegisteredOutOfRange = fmt.Errorf("%w: registered count must be between 0 and capacity", ErrInvalid)
	ErrEmptyAudience        = fmt.Errorf("%w: at least one audience is required", ErrInvalid)
	ErrInvalidTheme         = fmt.Errorf("%w: unknown theme", ErrInvalid)
	ErrInvalidAudience      = fmt.Errorf("%w: unknown audience", ErrInvalid)
	ErrInvalidModality      = fmt.Errorf("%w: unknown modality", ErrInvalid)
	ErrInvalidStatus        = fmt.Errorf("%w: unknown status", ErrInvalid)
	ErrMissingLocation      = fmt.Errorf("%w: location is required", ErrInvalid)
	ErrMissingOrganizer     = fmt.Errorf("%w: organizer name and email are required", ErrInvalid)
)

// Validate checks the invariants the store relies on. It never repairs a value.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrMissingTitle
	}
	if !e.EndDate.After(e.StartDate) {
		return ErrInvalidTimeWindow
	}
	if e.Capacity < 0 {
		return ErrNegativeCapacity
	}
	if e.RegisteredCount < 0 || e.RegisteredCount > e.Capacity {
		return ErrRegisteredOutOfRange
	}
	if !e.Theme.IsValid() {
		return ErrInvalidTheme
	}
	if !e.Modality.IsValid() {
		return ErrInvalidModality
	}
	if !e.Status.IsValid() {
		return ErrInvalidStatus
	}
	if len(e.Audience) == 0 {
		return ErrEmptyAudience
	}
	for _, a := range e.Audience {
		if !a.IsValid() {
			return ErrInvalidAudience
		}
	}
	if strings.TrimSpace(e.Location.ID) == "" {
		return ErrMissingLocation
	}
	if strings.TrimSpace(e.Organizer.Name) == "" || strings.TrimSpace(e.Organizer.Email) == "" {
		return ErrMissingOrganizer
	}
	return nil
}

func (e Event) IsPublished() bool {
	return e.Status == StatusPublished
}

func (e Event) Duration() time.Duration {
	return e.EndDate.Sub(e.StartDate)
}

func (e Event) HasAudience(a Audience) bool {
	for _, own := range e.Audience {
		if own == a {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with e.
func (e Event) Clone() Event {
	out := e
	if e.Audience != nil {
		out.Audience = append([]Audience(nil), e.Audience...)
	}
	if e.TechnicalChecklist.ReviewDate != nil {
		d := *e.TechnicalChecklist.ReviewDate
		out.TechnicalChecklist.ReviewDate = &d
	}
	return out
}
