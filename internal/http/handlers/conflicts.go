package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/campusevents/internal/conflict"
	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/gin-gonic/gin"
)

type EventLister interface {
	List(ctx context.Context) ([]event.Event, error)
}

type LocationLister interface {
	GetByID(ctx context.Context, id string) (location.Location, error)
	List(ctx context.Context) ([]location.Location, error)
}

type ConflictCheckRequest struct {
	LocationID       string                `json:"locationId" binding:"required"`
	StartDate        time.Time             `json:"startDate" binding:"required"`
	EndDate          time.Time             `json:"endDate" binding:"required"`
	RequiredCapacity int                   `json:"requiredCapacity" binding:"gte=0"`
	Needs            location.Capabilities `json:"needs"`
	// set when editing an existing event
	IgnoreEventID string `json:"ignoreEventId"`
}

type ConflictsHandler struct {
	events    EventLister
	locations LocationLister
	detector  *conflict.Detector
	prom      *observability.Prom
	log       *slog.Logger
}

func NewConflictsHandler(events EventLister, locations LocationLister, detector *conflict.Detector, prom *observability.Prom, log *slog.Logger) *ConflictsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ConflictsHandler{events: events, locations: locations, detector: detector, prom: prom, log: log}
}

// POST /conflicts/check
func (h *ConflictsHandler) Check(ctx *gin.Context) {
	var req ConflictCheckRequest

	if !BindJSON(ctx, &req) {
		return
	}

	rctx := ctx.Request.Context()

	loc, err := h.locations.GetByID(rctx, req.LocationID)
	if err != nil {
		if respondDomainError(ctx, err) {
			return
		}
		h.log.ErrorContext(rctx, "conflict check location lookup failed", "err", err)
		RespondInternal(ctx, "Could not check conflicts")
		return
	}

	events, err := h.events.List(rctx)
	if err != nil {
		h.log.ErrorContext(rctx, "conflict check event list failed", "err", err)
		RespondInternal(ctx, "Could not check conflicts")
		return
	}

	catalog, err := h.locations.List(rctx)
	if err != nil {
		h.log.ErrorContext(rctx, "conflict check catalog failed", "err", err)
		RespondInternal(ctx, "Could not check conflicts")
		return
	}

	res := h.detector.Detect(conflict.Candidate{
		Location:         loc,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		RequiredCapacity: req.RequiredCapacity,
		Needs:            req.Needs,
		IgnoreEventID:    req.IgnoreEventID,
	}, events, catalog)

	h.prom.CountConflictCheck(res.HasConflict)

	ctx.JSON(http.StatusOK, res)
}
