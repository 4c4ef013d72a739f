package postgres

import (
	"context"
	"errors"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/registration"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RegistrationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRegistrationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *RegistrationsRepo {
	return &RegistrationsRepo{pool: pool, prom: prom}
}

func (r *RegistrationsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

// Create takes a seat and records the attendee in one transaction. The seat is
// a guarded increment, so the row lock it takes serializes concurrent sign-ups
// and the count can never pass capacity. A duplicate email rolls the seat back.
func (r *RegistrationsRepo) Create(ctx context.Context, req registration.CreateRegistrationRequest) (reg registration.Registration, err error) {
	err = r.observe("registrations.create", func() error {
		return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
			var registered int
			serr := tx.QueryRow(ctx, `
				UPDATE events
				SET registered_count = registered_count + 1, updated_at = NOW()
				WHERE id = $1 AND status = 'published' AND registered_count < capacity
				RETURNING registered_count`, req.EventID,
			).Scan(&registered)
			if errors.Is(serr, pgx.ErrNoRows) {
				return refusal(ctx, tx, req)
			}
			if serr != nil {
				return serr
			}

			reg = registration.NewFromCreateRequest(req)
			_, ierr := tx.Exec(ctx, `
				INSERT INTO registrations (id, event_id, name, email, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				reg.ID, reg.EventID, reg.Name, reg.Email, reg.CreatedAt, reg.UpdatedAt,
			)
			if IsUniqueViolation(ierr) {
				return registration.ErrAlreadyRegistered
			}
			return ierr
		})
	})
	return
}

// refusal explains why no seat was taken, in the order the memory store checks.
func refusal(ctx context.Context, tx pgx.Tx, req registration.CreateRegistrationRequest) error {
	var (
		status               string
		capacity, registered int
		duplicate            bool
	)
	err := tx.QueryRow(ctx, `
		SELECT e.status, e.capacity, e.registered_count,
			EXISTS (SELECT 1 FROM registrations WHERE event_id = e.id AND email = $2)
		FROM events e
		WHERE e.id = $1`,
		req.EventID, registration.NormalizeEmail(req.Email),
	).Scan(&status, &capacity, &registered, &duplicate)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return event.ErrNotFound
	case err != nil:
		return err
	case event.Status(status) != event.StatusPublished:
		return registration.ErrNotPublished
	case duplicate:
		return registration.ErrAlreadyRegistered
	default:
		return registration.ErrEventFull
	}
}

func (r *RegistrationsRepo) ListByEvent(ctx context.Context, eventID string) (regs []registration.Registration, err error) {
	err = r.observe("registrations.list_by_event", func() error {
		if eerr := eventExists(ctx, r.pool, eventID); eerr != nil {
			return eerr
		}

		rows, qerr := r.pool.Query(ctx, `
			SELECT id, event_id, name, email, created_at, updated_at
			FROM registrations
			WHERE event_id = $1
			ORDER BY created_at ASC, id ASC`, eventID)
		if qerr != nil {
			return qerr
		}

		var cerr error
		regs, cerr = pgx.CollectRows(rows, pgx.RowToStructByPos[registration.Registration])
		return cerr
	})
	return
}

// Delete cancels a registration and gives its seat back in a single statement.
func (r *RegistrationsRepo) Delete(ctx context.Context, eventID, registrationID string) error {
	return r.observe("registrations.delete", func() error {
		tag, err := r.pool.Exec(ctx, `
			WITH gone AS (
				DELETE FROM registrations WHERE id = $1 AND event_id = $2 RETURNING event_id
			)
			UPDATE events
			SET registered_count = GREATEST(registered_count - 1, 0), updated_at = NOW()
			WHERE id IN (SELECT event_id FROM gone)`,
			registrationID, eventID,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() > 0 {
			return nil
		}

		if eerr := eventExists(ctx, r.pool, eventID); eerr != nil {
			return eerr
		}
		return registration.ErrNotFound
	})
}

func eventExists(ctx context.Context, db queryRower, id string) error {
	var ok bool
	if err := db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, id).Scan(&ok); err != nil {
		return err
	}
	if !ok {
		return event.ErrNotFound
	}
	return nil
}
