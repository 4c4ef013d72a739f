package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/geocoder89/campusevents/internal/availability"
	"github.com/geocoder89/campusevents/internal/cache"
	"github.com/geocoder89/campusevents/internal/config"
	"github.com/geocoder89/campusevents/internal/conflict"
	"github.com/geocoder89/campusevents/internal/db"
	"github.com/geocoder89/campusevents/internal/jobs"
	httpx "github.com/geocoder89/campusevents/internal/http"
	"github.com/geocoder89/campusevents/internal/notifications"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/geocoder89/campusevents/internal/repo/memory"
	"github.com/geocoder89/campusevents/internal/repo/postgres"
	"github.com/geocoder89/campusevents/internal/seed"
)

const serviceName = "campusevents-api"

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		Enabled:     cfg.OTelEnabled,
		ServiceName: serviceName,
		Environment: cfg.Env,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(registry)

	deps := httpx.Deps{
		Env:         cfg.Env,
		ServiceName: serviceName,
		Log:         log,
		Prom:        prom,
		Gatherer:    registry,
		Tracing:     cfg.OTelEnabled,
		Detector: conflict.NewDetector(conflict.Config{
			OpenAt:   cfg.VenueOpen,
			CloseAt:  cfg.VenueClose,
			Step:     cfg.SlotStep,
			MaxSlots: cfg.MaxSlots,
			Location: cfg.DisplayTimezone,
		}),
		DisplayLocation:    cfg.DisplayTimezone,
		Availability:       availability.Policy{AlmostFullRatio: cfg.AlmostFullRatio},
		PreviewLimit:       cfg.CalendarPreviewLimit,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}

	var closers []func()

	// wire up the event store
	switch cfg.StoreDriver {
	case "postgres":
		pool, err := db.NewPool(ctx, cfg.DBURL, int32(cfg.DBMaxConns))
		if err != nil {
			log.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		closers = append(closers, pool.Close)

		if err := db.Migrate(ctx, pool); err != nil {
			log.Error("db migrate failed", "err", err)
			os.Exit(1)
		}

		deps.Events = postgres.NewEventsRepo(pool, prom)
		deps.Locations = postgres.NewLocationsRepo(pool, prom)
		deps.Registrations = postgres.NewRegistrationsRepo(pool, prom)
		deps.Ping = pool.Ping
	default:
		store := memory.NewStore(prom)

		if cfg.SeedFile != "" {
			fx, err := seed.LoadFile(cfg.SeedFile)
			if err != nil {
				log.Error("seed load failed", "err", err)
				os.Exit(1)
			}
			res, err := seed.Apply(ctx, fx, store.Locations(), store.Events())
			if err != nil {
				log.Error("seed apply failed", "err", err)
				os.Exit(1)
			}
			log.Info("seed applied", "file", cfg.SeedFile, "locations", res.Locations, "events", res.Events)
		}

		deps.Events = store.Events()
		deps.Locations = store.Locations()
		deps.Registrations = store.Registrations()
	}

	// query response cache
	switch cfg.CacheDriver {
	case "redis":
		rc := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rc.Ping(pingCtx)
		cancel()
		if err != nil {
			log.Warn("redis unavailable, falling back to in-process cache", "addr", cfg.RedisAddr, "err", err)
			_ = rc.Close()
			deps.Cache = cache.New(cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries))
		} else {
			closers = append(closers, func() { _ = rc.Close() })
			deps.Cache = rc
		}
	case "none":
	default:
		deps.Cache = cache.New(cfg.CacheTTL, cache.WithMaxEntries(cfg.CacheMaxEntries))
	}

	var scheduler *jobs.Scheduler
	if deps.Cache != nil && cfg.CacheRolloverCron != "off" {
		scheduler = jobs.NewScheduler(cfg.DisplayTimezone, log)
		if err := scheduler.Add("cache.day_rollover", cfg.CacheRolloverCron, jobs.PurgeDayViews(deps.Cache)); err != nil {
			log.Error("invalid CACHE_ROLLOVER_CRON", "err", err, "spec", cfg.CacheRolloverCron)
			os.Exit(1)
		}
		scheduler.Start()
	}

	dispatcher := notifications.NewDispatcher(
		notifications.NewProtectedNotifier(
			notifications.NewLogNotifier(log, cfg.DisplayTimezone),
			notifications.ProtectedNotifierConfig{
				Timeout: 2 * time.Second,
				OnStateChange: func(from, to notifications.BreakerState) {
					log.Warn("notifier circuit changed", "from", from, "to", to)
				},
			},
		),
		notifications.DispatcherConfig{Concurrency: 2, MaxAttempts: 3},
		log,
	)
	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	dispatcher.Start(dispatchCtx)
	closers = append(closers, func() {
		stopDispatch()
		dispatcher.Wait()
	})
	deps.Notifier = dispatcher

	// set up routers with the deps
	router, err := httpx.NewRouter(deps)
	if err != nil {
		log.Error("router setup failed", "err", err)
		os.Exit(1)
	}

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.
	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver, "cache", cfg.CacheDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
		if scheduler != nil {
			scheduler.Stop(ctx)
		}
		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}
