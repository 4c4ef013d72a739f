// Package jobs runs periodic housekeeping on the display clock.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/geocoder89/campusevents/internal/cache"
	"github.com/geocoder89/campusevents/internal/utils"
)

type Func func(ctx context.Context) error

type Scheduler struct {
	cron    *cron.Cron
	log     *slog.Logger
	timeout time.Duration
}

// NewScheduler evaluates cron specs in loc, so "0 0 * * *" fires at local midnight.
func NewScheduler(loc *time.Location, log *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(loc)),
		log:     log,
		timeout: 30 * time.Second,
	}
}

// Add registers fn under a standard five-field cron spec.
func (s *Scheduler) Add(name, spec string, fn Func) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.run(name, fn)
	})
	return err
}

func (s *Scheduler) run(name string, fn Func) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := fn(ctx); err != nil {
		s.log.Error("job failed", "job", name, "err", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	s.log.Info("job done", "job", name, "duration_ms", time.Since(start).Milliseconds())
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// PurgeDayViews drops cached event views. Group and calendar labels say
// "Hoy" and "Mañana", so yesterday's entries are useless after midnight.
func PurgeDayViews(c cache.Store) Func {
	return func(ctx context.Context) error {
		return c.Clear(ctx, utils.EventsCachePrefix)
	}
}
