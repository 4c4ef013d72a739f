package http

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/geocoder89/campusevents/internal/availability"
	"github.com/geocoder89/campusevents/internal/cache"
	"github.com/geocoder89/campusevents/internal/conflict"
	"github.com/geocoder89/campusevents/internal/http/handlers"
	"github.com/geocoder89/campusevents/internal/http/middlewares"
	"github.com/geocoder89/campusevents/internal/notifications"
	"github.com/geocoder89/campusevents/internal/observability"
)

// Deps is everything the API needs. Stores are either the memory or the postgres implementations.
type Deps struct {
	Env         string
	ServiceName string
	Log         *slog.Logger

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Tracing  bool

	Events        handlers.EventsStore
	Locations     handlers.LocationsStore
	Registrations handlers.RegistrationStore

	Cache    cache.Store
	Notifier notifications.Notifier
	Detector *conflict.Detector

	DisplayLocation *time.Location
	Availability    availability.Policy
	PreviewLimit    int

	Ping func(ctx context.Context) error

	CORSAllowedOrigins []string
	MaxBodyBytes       int64
	RateLimitPerMinute int
}

func NewRouter(d Deps) (*gin.Engine, error) {
	if d.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := handlers.RegisterBindingValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	if d.Tracing {
		r.Use(otelgin.Middleware(d.ServiceName))
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.CORSAllowedOrigins))
	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}
	if d.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(d.MaxBodyBytes))
	}

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// Wire up handlers
	eventsHandler := handlers.NewEventsHandler(d.Events, handlers.EventsHandlerConfig{
		Location:     d.DisplayLocation,
		Availability: d.Availability,
		PreviewLimit: d.PreviewLimit,
		Cache:        d.Cache,
		Prom:         d.Prom,
		Log:          d.Log,
	})
	registrationHandler := handlers.NewRegistrationHandler(d.Registrations, d.Events, handlers.RegistrationHandlerConfig{
		Availability: d.Availability,
		Notifier:     d.Notifier,
		Cache:        d.Cache,
		Prom:         d.Prom,
		Log:          d.Log,
	})
	conflictsHandler := handlers.NewConflictsHandler(d.Events, d.Locations, d.Detector, d.Prom, d.Log)
	locationsHandler := handlers.NewLocationsHandler(d.Locations)

	// writes are JSON only and rate limited per client IP; sign-ups per client and event
	writes := []gin.HandlerFunc{middlewares.RequireJSON()}
	signups := []gin.HandlerFunc{}
	if d.RateLimitPerMinute > 0 {
		limiter := middlewares.NewRateLimiter(d.RateLimitPerMinute, time.Minute)
		writes = append(writes, limiter.RateLimiterMiddleware(middlewares.KeyByIP))
		signups = append(signups, limiter.RateLimiterMiddleware(middlewares.KeyByIPAndEvent))
	}

	// read views
	r.GET("/events", eventsHandler.ListEvents)
	r.GET("/events/groups", eventsHandler.ListGroups)
	r.GET("/events/calendar", eventsHandler.Calendar)
	r.GET("/events/day/:date", eventsHandler.DayPanel)
	r.GET("/events/export.ics", eventsHandler.ExportICS)
	r.GET("/events/export.pdf", eventsHandler.ExportPDF)
	r.GET("/events/:id", eventsHandler.GetEventByID)
	r.GET("/events/:id/availability", eventsHandler.Availability)
	r.GET("/events/:id/calendar-links", eventsHandler.CalendarLinks)
	r.GET("/events/:id/ics", eventsHandler.EventICS)
	r.GET("/events/:id/registrations", registrationHandler.ListByEvent)
	r.GET("/locations", locationsHandler.List)

	w := r.Group("/", writes...)
	w.POST("/events", eventsHandler.CreateEvent)
	w.PATCH("/events/:id", eventsHandler.UpdateEvent)
	w.DELETE("/events/:id", eventsHandler.DeleteEvent)
	w.DELETE("/events/:id/registrations/:registrationId", registrationHandler.Cancel)
	w.POST("/conflicts/check", conflictsHandler.Check)
	w.POST("/locations", locationsHandler.Create)
	w.DELETE("/locations/:id", locationsHandler.Delete)

	s := r.Group("/", middlewares.RequireJSON())
	s.Use(signups...)
	s.POST("/events/:id/register", registrationHandler.Register)

	return r, nil
}
