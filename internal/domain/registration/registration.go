package registration

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Registration is one attendee's seat at a published event. An email holds at
// most one seat per event, compared case-insensitively.
type Registration struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

var (
	ErrNotFound          = errors.New("registration not found")
	ErrAlreadyRegistered = errors.New("registration already exists")
	ErrEventFull         = errors.New("event is full")
	ErrNotPublished      = errors.New("event is not open for registration")
)

type CreateRegistrationRequest struct {
	// taken from the route, never from the body
	EventID string `json:"-"`
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Email   string `json:"email" binding:"required,email"`
}

func NewFromCreateRequest(req CreateRegistrationRequest) Registration {
	now := time.Now().UTC()
	return Registration{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		Name:      strings.TrimSpace(req.Name),
		Email:     NormalizeEmail(req.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeEmail is the key used for duplicate detection.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
