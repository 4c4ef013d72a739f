package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/campusevents/internal/availability"
	"github.com/geocoder89/campusevents/internal/cache"
	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/registration"
	"github.com/geocoder89/campusevents/internal/ics"
	"github.com/geocoder89/campusevents/internal/notifications"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/geocoder89/campusevents/internal/utils"
	"github.com/gin-gonic/gin"
)

type RegistrationStore interface {
	Create(ctx context.Context, req registration.CreateRegistrationRequest) (registration.Registration, error)
	ListByEvent(ctx context.Context, eventID string) ([]registration.Registration, error)
	Delete(ctx context.Context, eventID, registrationID string) error
}

type EventGetter interface {
	GetByID(ctx context.Context, id string) (event.Event, error)
}

type RegistrationHandlerConfig struct {
	Availability availability.Policy
	Notifier     notifications.Notifier
	Cache        cache.Store
	Prom         *observability.Prom
	Log          *slog.Logger
}

type RegistrationHandler struct {
	repo   RegistrationStore
	events EventGetter
	cfg    RegistrationHandlerConfig
}

func NewRegistrationHandler(repo RegistrationStore, events EventGetter, cfg RegistrationHandlerConfig) *RegistrationHandler {
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &RegistrationHandler{repo: repo, events: events, cfg: cfg}
}

// POST /events/:id/register
func (h *RegistrationHandler) Register(ctx *gin.Context) {
	eventID := ctx.Param("id")

	var req registration.CreateRegistrationRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// force URL param as the source of truth
	req.EventID = eventID

	reg, err := h.repo.Create(ctx.Request.Context(), req)
	if err != nil {
		h.cfg.Prom.CountRegistration(rejectionReason(err))
		if !respondDomainError(ctx, err) {
			h.cfg.Log.ErrorContext(ctx.Request.Context(), "registration failed", "err", err, "event_id", eventID)
			RespondInternal(ctx, "Could not register for event")
		}
		return
	}
	h.cfg.Prom.CountRegistration("ok")
	h.invalidate(ctx.Request.Context())

	resp := gin.H{"registration": reg}

	e, err := h.events.GetByID(ctx.Request.Context(), eventID)
	if err == nil {
		resp["availability"] = availability.Calculate(e, h.cfg.Availability)
		resp["calendarLinks"] = gin.H{
			"google": ics.GoogleCalendarURL(e),
			"ics":    "/events/" + e.ID + "/ics",
		}
		h.notify(ctx.Request.Context(), reg, e)
	} else {
		h.cfg.Log.WarnContext(ctx.Request.Context(), "registered event lookup failed", "err", err, "event_id", eventID)
	}

	ctx.JSON(http.StatusCreated, resp)
}

// notify never fails the request: the seat is already taken.
func (h *RegistrationHandler) notify(ctx context.Context, reg registration.Registration, e event.Event) {
	if h.cfg.Notifier == nil {
		return
	}

	in := notifications.SendRegistrationConfirmationInput{
		Email:          reg.Email,
		Name:           reg.Name,
		EventID:        e.ID,
		EventTitle:     e.Title,
		StartDate:      e.StartDate,
		Venue:          e.Location.Name + ", " + e.Location.Campus,
		RegistrationID: reg.ID,
		CalendarURL:    ics.GoogleCalendarURL(e),
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := h.cfg.Notifier.SendRegistrationConfirmation(sendCtx, in); err != nil {
		h.cfg.Log.WarnContext(ctx, "registration confirmation not sent", "err", err, "registration_id", reg.ID)
	}
}

// GET /events/:id/registrations
func (h *RegistrationHandler) ListByEvent(ctx *gin.Context) {
	regs, err := h.repo.ListByEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if !respondDomainError(ctx, err) {
			RespondInternal(ctx, "Could not list registrations")
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": regs,
		"count": len(regs),
	})
}

// DELETE /events/:id/registrations/:registrationId
func (h *RegistrationHandler) Cancel(ctx *gin.Context) {
	registrationID := ctx.Param("registrationId")

	if !utils.IsUUID(registrationID) {
		RespondBadRequest(ctx, "registration id must be a valid UUID", nil)
		return
	}

	err := h.repo.Delete(ctx.Request.Context(), ctx.Param("id"), registrationID)
	if err != nil {
		if !respondDomainError(ctx, err) {
			h.cfg.Log.ErrorContext(ctx.Request.Context(), "registration cancel failed", "err", err)
			RespondInternal(ctx, "Could not cancel registration")
		}
		return
	}

	h.invalidate(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *RegistrationHandler) invalidate(ctx context.Context) {
	if h.cfg.Cache == nil {
		return
	}
	if err := h.cfg.Cache.Clear(ctx, utils.EventsCachePrefix); err != nil {
		h.cfg.Log.WarnContext(ctx, "events cache clear failed", "err", err)
	}
}

// rejectionReason is the outcome label on the registrations counter.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, registration.ErrEventFull):
		return "full"
	case errors.Is(err, registration.ErrNotPublished):
		return "not_published"
	case errors.Is(err, event.ErrNotFound):
		return "not_found"
	}
	return "error"
}
