package handlers

import (
	"errors"
	"net/http"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/domain/registration"
	"github.com/gin-gonic/gin"
)

// APIError is the body of every non-2xx response, wrapped as {"error": ...}.
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	ctx.JSON(status, gin.H{
		"error": APIError{
			Code:      code,
			Message:   message,
			RequestID: ctx.GetString("request_id"),
			Details:   details,
		},
	})
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

// RespondUnprocessable is for well-formed requests that break a domain invariant.
func RespondUnprocessable(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnprocessableEntity, code, message, nil)
}

type domainError struct {
	target  error
	status  int
	code    string
	message string // empty means err.Error()
}

// domainErrors is checked in order; invalid-input sentinels echo the wrapped reason.
var domainErrors = []domainError{
	{registration.ErrNotFound, http.StatusNotFound, "not_found", "Registration not found"},
	{event.ErrNotFound, http.StatusNotFound, "not_found", "Event not found"},
	{location.ErrNotFound, http.StatusNotFound, "not_found", "Location not found"},
	{registration.ErrAlreadyRegistered, http.StatusConflict, "already_registered", "this email is already registered for this event."},
	{registration.ErrEventFull, http.StatusConflict, "event_full", "this event is already at full capacity."},
	{registration.ErrNotPublished, http.StatusConflict, "not_published", "this event is not open for registration."},
	{location.ErrInUse, http.StatusConflict, "location_in_use", "events are still booked at this location."},
	{event.ErrInvalid, http.StatusUnprocessableEntity, "invalid_event", ""},
	{location.ErrInvalid, http.StatusUnprocessableEntity, "invalid_location", ""},
}

// respondDomainError writes the envelope for a known store sentinel and
// reports false when err is not one, leaving the 500 to the caller.
func respondDomainError(ctx *gin.Context, err error) bool {
	for _, de := range domainErrors {
		if !errors.Is(err, de.target) {
			continue
		}
		msg := de.message
		if msg == "" {
			msg = err.Error()
		}
		RespondError(ctx, de.status, de.code, msg, nil)
		return true
	}
	return false
}
