package observability

import (
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/domain/registration"
	"github.com/jackc/pgx/v5/pgconn"
)

func (p *Prom) ObserveStore(op string, fn func() error) error {
	start := time.Now()
	err := fn()

	status := "ok"

	if err != nil {
		status = "error"
		p.StoreErrorsTotal.WithLabelValues(op, ClassifyStoreErr(err)).Inc()
	}
	p.StoreOpDuration.WithLabelValues(op, status).Observe(time.Since(start).Seconds())
	return err
}

// ClassifyStoreErr buckets domain rejections apart from infrastructure failures.
func ClassifyStoreErr(err error) string {
	switch {
	case errors.Is(err, event.ErrNotFound), errors.Is(err, location.ErrNotFound), errors.Is(err, registration.ErrNotFound):
		return "not_found"
	case errors.Is(err, event.ErrInvalid), errors.Is(err, location.ErrInvalid):
		return "invariant"
	case errors.Is(err, registration.ErrEventFull):
		return "event_full"
	case errors.Is(err, registration.ErrAlreadyRegistered):
		return "duplicate"
	case errors.Is(err, registration.ErrNotPublished):
		return "not_published"
	case errors.Is(err, location.ErrInUse):
		return "in_use"
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return "unique_violation"
		case "23503":
			return "foreign_key_violation"
		case "40001":
			return "serialization_failure"
		case "40P01":
			return "deadlock"
		case "57014":
			return "query_canceled"
		default:
			return "pg_" + pgErr.Code
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline"):
		return "timeout"
	case strings.Contains(msg, "connection"):
		return "connection"
	default:
		return "unknown"
	}
}
