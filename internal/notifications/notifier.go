package notifications

import (
	"context"
	"time"
)

type SendRegistrationConfirmationInput struct {
	Email          string
	Name           string
	EventID        string
	EventTitle     string
	StartDate      time.Time
	Venue          string
	RegistrationID string
	// "add to calendar" link included in the message
	CalendarURL string
}

type Notifier interface {
	SendRegistrationConfirmation(ctx context.Context, input SendRegistrationConfirmationInput) error
}
