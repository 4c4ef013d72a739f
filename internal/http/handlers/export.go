package handlers

import (
	"net/http"

	"github.com/geocoder89/campusevents/internal/agenda"
	"github.com/geocoder89/campusevents/internal/calendar"
	"github.com/geocoder89/campusevents/internal/ics"
	"github.com/gin-gonic/gin"
)

const icsContentType = "text/calendar; charset=utf-8"

// GET /events/export.ics
func (h *EventsHandler) ExportICS(ctx *gin.Context) {
	f, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	events, err := h.engine.QueryEvents(ctx.Request.Context(), f)
	if err != nil {
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "events export failed", "err", err)
		RespondInternal(ctx, "Could not export events")
		return
	}
	h.cfg.Prom.ObserveQuery("export", len(events))

	body := ics.Calendar("Eventos del campus", events, h.cfg.Now())

	ctx.Header("Content-Disposition", `attachment; filename="eventos.ics"`)
	ctx.Data(http.StatusOK, icsContentType, []byte(body))
}

// GET /events/export.pdf
func (h *EventsHandler) ExportPDF(ctx *gin.Context) {
	f, ok := h.parseFilter(ctx)
	if !ok {
		return
	}

	events, err := h.engine.QueryEvents(ctx.Request.Context(), f)
	if err != nil {
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "events export failed", "err", err)
		RespondInternal(ctx, "Could not export events")
		return
	}
	h.cfg.Prom.ObserveQuery("export_pdf", len(events))

	groups := calendar.ListGroups(events, h.calendarOptions())
	body, err := agenda.Render("Agenda del campus", groups, h.cfg.Location, h.cfg.Availability)
	if err != nil {
		h.cfg.Log.ErrorContext(ctx.Request.Context(), "agenda render failed", "err", err)
		RespondInternal(ctx, "Could not export events")
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="agenda.pdf"`)
	ctx.Data(http.StatusOK, "application/pdf", body)
}

// GET /events/:id/ics
func (h *EventsHandler) EventICS(ctx *gin.Context) {
	e, ok := h.lookup(ctx)
	if !ok {
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+e.ID+`.ics"`)
	ctx.Data(http.StatusOK, icsContentType, []byte(ics.Single(e, h.cfg.Now())))
}

// GET /events/:id/calendar-links
func (h *EventsHandler) CalendarLinks(ctx *gin.Context) {
	e, ok := h.lookup(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"google": ics.GoogleCalendarURL(e),
		"ics":    "/events/" + e.ID + "/ics",
	})
}
