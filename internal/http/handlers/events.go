package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/campusevents/internal/availability"
	"github.com/geocoder89/campusevents/internal/cache"
	"github.com/geocoder89/campusevents/internal/calendar"
	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/geocoder89/campusevents/internal/query"
	"github.com/geocoder89/campusevents/internal/utils"
	"github.com/gin-gonic/gin"
)

type EventsStore interface {
	Create(ctx context.Context, req event.CreateEventRequest) (event.Event, error)
	GetByID(ctx context.Context, id string) (event.Event, error)
	List(ctx context.Context) ([]event.Event, error)
	Update(ctx context.Context, id string, req event.UpdateEventRequest) (event.Event, error)
	Delete(ctx context.Context, id string) error
}

type EventsHandlerConfig struct {
	Location     *time.Location
	Availability availability.Policy
	PreviewLimit int
	// nil disables response caching
	Cache cache.Store
	Prom  *observability.Prom
	Log   *slog.Logger
	Now   func() time.Time
}

type EventsHandler struct {
	repo   EventsStore
	engine *query.Engine
	cfg    EventsHandlerConfig
}

func NewEventsHandler(repo EventsStore, cfg EventsHandlerConfig) *EventsHandler {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}
	return &EventsHandler{
		repo:   repo,
		engine: query.NewEngine(repo, cfg.Location),
		cfg:    cfg,
	}
}

// eventView is an event plus its derived seat availability.
type eventView struct {
	event.Event
	Availability availability.Result `json:"availability"`
}

func (h *EventsHandler) view(e event.Event) eventView {
	return eventView{Event: e, Availability: availability.Calculate(e, h.cfg.Availability)}
}

func (h *EventsHandler) calendarOptions() calendar.Options {
	return calendar.Options{
		Now:          h.cfg.Now(),
		Location:     h.cfg.Location,
		PreviewLimit: h.cfg.PreviewLimit,
	}
}

func (h *EventsHandler) today() calendar.Day {
	return calendar.DayOf(h.cfg.Now(), h.cfg.Location)
}

func (h *EventsHandler) parseFilter(ctx *gin.Context) (query.Filter, bool) {
	f, err := query.ParseFilter(ctx.Request.URL.Query(), h.cfg.Location)
	if err != nil {
		RespondBadRequest(ctx, "Invalid filter", gin.H{"reason": err.Error()})
		return query.Filter{}, false
	}
	return f, true
}

// serveQuery answers from the cache when it can, otherwise builds, stores and sends the payload.
func (h *EventsHandler) serveQuery(ctx *gin.Context, key string, build func() (any, error)) {
	if h.cfg.Cache != nil {
		if body, ok := h.cfg.Cache.Get(ctx.Request.Context(), key); ok {
			h.cfg.Prom.CountCacheLookup(true)
			RespondRawJSONWithETag(ctx, http.StatusOK, body)
			return
		}
		h.cfg.Prom.CountCacheLookup(false)
	}

	payload, err := build()
	if err != nil {
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "events query failed", "err", err)
		RespondInternal(ctx, "Could not query events")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		RespondInternal(ctx, "Could not encode events")
		return
	}

	if h.cfg.Cache != nil {
		h.cfg.Cache.Set(ctx.Request.Context(), key, body)
	}

	RespondRawJSONWithETag(ctx, http.StatusOK, body)
}

func (h *EventsHandler) invalidate(ctx context.Context) {
	if h.cfg.Cache == nil {
		return
	}
	if err := h.cfg.Cache.Clear(ctx, utils.EventsCachePrefix); err != nil {
		h.cfg.Log.WarnContext(ctx, "events cache clear failed", "err", err)
	}
}

// GET /events
func (h *EventsHandler) ListEvents(ctx *gin.Context) {
	f, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	key := utils.BuildEventsQueryCacheKey("list", f)
	h.serveQuery(ctx, key, func() (any, error) {
		events, err := h.engine.QueryEvents(ctx.Request.Context(), f)
		if err != nil {
			return nil, err
		}
		h.cfg.Prom.ObserveQuery("list", len(events))

		items := make([]eventView, 0, len(events))
		for _, e := range events {
			items = append(items, h.view(e))
		}

		return gin.H{
			"items":         items,
			"count":         len(items),
			"activeFilters": f.ActiveCount(),
			"filter":        f,
		}, nil
	})
}

// GET /events/groups
func (h *EventsHandler) ListGroups(ctx *gin.Context) {
	f, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	key := utils.BuildEventsQueryCacheKey("groups", f, "today="+h.today().String())
	h.serveQuery(ctx, key, func() (any, error) {
		events, err := h.engine.QueryEvents(ctx.Request.Context(), f)
		if err != nil {
			return nil, err
		}
		h.cfg.Prom.ObserveQuery("groups", len(events))

		groups := calendar.ListGroups(events, h.calendarOptions())

		return gin.H{
			"groups":        groups,
			"count":         len(events),
			"activeFilters": f.ActiveCount(),
		}, nil
	})
}

// GET /events/calendar?month=YYYY-MM&selected=YYYY-MM-DD
func (h *EventsHandler) Calendar(ctx *gin.Context) {
	f, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	month := calendar.MonthOf(h.cfg.Now(), h.cfg.Location)
	if raw := ctx.Query("month"); raw != "" {
		m, err := calendar.ParseMonth(raw)
		if err != nil {
			RespondBadRequest(ctx, "Invalid month", gin.H{"month": "expected YYYY-MM"})
			return
		}
		month = m
	}

	var selected *calendar.Day
	if raw := ctx.Query("selected"); raw != "" {
		d, err := calendar.ParseDay(raw)
		if err != nil {
			RespondBadRequest(ctx, "Invalid selected day", gin.H{"selected": "expected YYYY-MM-DD"})
			return
		}
		selected = &d
	}

	selectedKey := ""
	if selected != nil {
		selectedKey = selected.String()
	}

	key := utils.BuildEventsQueryCacheKey("calendar", f, "month="+month.String(), "selected="+selectedKey, "today="+h.today().String())
	h.serveQuery(ctx, key, func() (any, error) {
		events, err := h.engine.QueryEvents(ctx.Request.Context(), f)
		if err != nil {
			return nil, err
		}
		h.cfg.Prom.ObserveQuery("calendar", len(events))

		opts := h.calendarOptions()
		cells := calendar.Grid(events, month, selected, opts)

		payload := gin.H{
			"month":         month,
			"title":         month.Title(),
			"prevMonth":     month.Prev(),
			"nextMonth":     month.Next(),
			"weekdays":      calendar.WeekdayHeaders(),
			"weeks":         calendar.Weeks(cells),
			"activeFilters": f.ActiveCount(),
		}
		if selected != nil {
			payload["selectedDay"] = calendar.DayPanel(events, *selected, opts)
		}
		return payload, nil
	})
}

// GET /events/day/:date
func (h *EventsHandler) DayPanel(ctx *gin.Context) {
	day, err := calendar.ParseDay(ctx.Param("date"))
	if err != nil {
		RespondBadRequest(ctx, "Invalid date", gin.H{"date": "expected YYYY-MM-DD"})
		return
	}

	f, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	key := utils.BuildEventsQueryCacheKey("day", f, "date="+day.String(), "today="+h.today().String())
	h.serveQuery(ctx, key, func() (any, error) {
		events, err := h.engine.QueryEvents(ctx.Request.Context(), f)
		if err != nil {
			return nil, err
		}

		panel := calendar.DayPanel(events, day, h.calendarOptions())
		h.cfg.Prom.ObserveQuery("day", len(panel.Events))

		return panel, nil
	})
}

// GET /events/:id
func (h *EventsHandler) GetEventByID(ctx *gin.Context) {
	e, ok := h.lookup(ctx)
	if !ok {
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, h.view(e))
}

// GET /events/:id/availability
func (h *EventsHandler) Availability(ctx *gin.Context) {
	e, ok := h.lookup(ctx)
	if !ok {
		return
	}

	res := availability.Calculate(e, h.cfg.Availability)
	ctx.JSON(http.StatusOK, gin.H{
		"eventId":      e.ID,
		"capacity":     e.Capacity,
		"registered":   e.RegisteredCount,
		"availability": res,
		"canRegister":  e.IsPublished() && res.CanRegister(),
	})
}

func (h *EventsHandler) lookup(ctx *gin.Context) (event.Event, bool) {
	e, err := h.repo.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if respondDomainError(ctx, err) {
			return event.Event{}, false
		}
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "event lookup failed", "err", err)
		RespondInternal(ctx, "Could not fetch event")
		return event.Event{}, false
	}
	return e, true
}

// POST /events
func (h *EventsHandler) CreateEvent(ctx *gin.Context) {
	var req event.CreateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	created, err := h.repo.Create(ctx.Request.Context(), req)
	if err != nil {
		h.respondWriteError(ctx, err, "Could not create event")
		return
	}

	h.invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusCreated, h.view(created))
}

// PATCH /events/:id
func (h *EventsHandler) UpdateEvent(ctx *gin.Context) {
	var req event.UpdateEventRequest

	if !BindJSON(ctx, &req) {
		return
	}

	updated, err := h.repo.Update(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		h.respondWriteError(ctx, err, "Could not update event")
		return
	}

	h.invalidate(ctx.Request.Context())
	ctx.JSON(http.StatusOK, h.view(updated))
}

// DELETE /events/:id
func (h *EventsHandler) DeleteEvent(ctx *gin.Context) {
	err := h.repo.Delete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if respondDomainError(ctx, err) {
			return
		}
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "event delete failed", "err", err)
		RespondInternal(ctx, "Could not delete event")
		return
	}

	h.invalidate(ctx.Request.Context())
	ctx.Status(http.StatusNoContent)
}

func (h *EventsHandler) respondWriteError(ctx *gin.Context, err error, fallback string) {
	// a dangling locationId is a bad payload here, not a missing resource
	if errors.Is(err, location.ErrNotFound) {
		RespondUnprocessable(ctx, "unknown_location", "locationId does not match any location")
		return
	}

	if !respondDomainError(ctx, err) {
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "event write failed", "err", err)
		RespondInternal(ctx, fallback)
	}
}
