package notifications

import (
	"context"
	"log/slog"
	"time"

	"github.com/geocoder89/campusevents/internal/calendar"
)

// LogNotifier writes confirmations to the structured log instead of a mail provider.
type LogNotifier struct {
	log *slog.Logger
	loc *time.Location
}

func NewLogNotifier(log *slog.Logger, loc *time.Location) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log, loc: loc}
}

func (n *LogNotifier) SendRegistrationConfirmation(ctx context.Context, in SendRegistrationConfirmationInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.log.InfoContext(ctx, "notification.registration_confirmation",
		"email", in.Email,
		"name", in.Name,
		"event_id", in.EventID,
		"registration_id", in.RegistrationID,
		"message", ConfirmationMessage(in, n.loc),
	)
	return nil
}

// ConfirmationMessage is the text shown to the attendee after signing up.
func ConfirmationMessage(in SendRegistrationConfirmationInput, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	start := in.StartDate.In(loc)

	msg := "¡Inscripción confirmada! " + in.Name + ", te esperamos en \"" + in.EventTitle + "\" el " +
		calendar.LongLabel(calendar.DayOf(start, loc)) + " a las " + start.Format("15:04")
	if in.Venue != "" {
		msg += " en " + in.Venue
	}
	return msg + "."
}
