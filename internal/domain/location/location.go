package location

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Location is a venue events can be booked into. Events reference it, they do not own it.
type Location struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Campus        string `json:"campus" yaml:"campus"`
	Capacity      int    `json:"capacity" yaml:"capacity"`
	HasProjector  bool   `json:"hasProjector" yaml:"hasProjector"`
	HasMicrophone bool   `json:"hasMicrophone" yaml:"hasMicrophone"`
	HasStreaming  bool   `json:"hasStreaming" yaml:"hasStreaming"`
}

// Capabilities lists the technical equipment a booking needs.
type Capabilities struct {
	Projector  bool `json:"projector"`
	Microphone bool `json:"microphone"`
	Streaming  bool `json:"streaming"`
}

var (
	ErrNotFound = errors.New("location not found")
	ErrInvalid  = errors.New("invalid location")

	// deleting a location that events still point at
	ErrInUse = errors.New("location is referenced by events")
)

// Supports reports whether the venue has every capability in need.
func (l Location) Supports(need Capabilities) bool {
	if need.Projector && !l.HasProjector {
		return false
	}
	if need.Microphone && !l.HasMicrophone {
		return false
	}
	if need.Streaming && !l.HasStreaming {
		return false
	}
	return true
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.ID) == "" || strings.TrimSpace(l.Name) == "" || strings.TrimSpace(l.Campus) == "" {
		return ErrInvalid
	}
	if l.Capacity < 0 {
		return ErrInvalid
	}
	return nil
}

type CreateLocationRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=120"`
	Campus        string `json:"campus" binding:"required,min=2,max=80"`
	Capacity      int    `json:"capacity" binding:"gte=0,lte=50000"`
	HasProjector  bool   `json:"hasProjector"`
	HasMicrophone bool   `json:"hasMicrophone"`
	HasStreaming  bool   `json:"hasStreaming"`
}

func NewFromCreateRequest(req CreateLocationRequest) Location {
	return Location{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		Campus:        strings.TrimSpace(req.Campus),
		Capacity:      req.Capacity,
		HasProjector:  req.HasProjector,
		HasMicrophone: req.HasMicrophone,
		HasStreaming:  req.HasStreaming,
	}
}
