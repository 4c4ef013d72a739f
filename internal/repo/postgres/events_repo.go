package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geocoder89/campusevents/internal/domain/event"
	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewEventsRepo(pool *pgxpool.Pool, prom *observability.Prom) *EventsRepo {
	return &EventsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *EventsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

const eventColumns = `
	e.id, e.title, e.description, e.start_date, e.end_date, e.theme, e.audience, e.modality,
	l.id, l.name, l.campus, l.capacity, l.has_projector, l.has_microphone, l.has_streaming,
	e.capacity, e.registered_count,
	e.organizer_name, e.organizer_email, e.organizer_phone,
	e.technical_checklist, e.status, e.accessibility, e.rules_for_minors,
	e.created_at, e.updated_at`

const eventFrom = ` FROM events e JOIN locations l ON l.id = e.location_id`

func scanEvent(row pgx.Row) (event.Event, error) {
	var e event.Event
	var audience []string

	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Theme, &audience, &e.Modality,
		&e.Location.ID, &e.Location.Name, &e.Location.Campus, &e.Location.Capacity,
		&e.Location.HasProjector, &e.Location.HasMicrophone, &e.Location.HasStreaming,
		&e.Capacity, &e.RegisteredCount,
		&e.Organizer.Name, &e.Organizer.Email, &e.Organizer.Phone,
		&e.TechnicalChecklist, &e.Status, &e.Accessibility, &e.RulesForMinors,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return event.Event{}, err
	}

	e.Audience = make([]event.Audience, 0, len(audience))
	for _, a := range audience {
		e.Audience = append(e.Audience, event.Audience(a))
	}
	return e, nil
}

func audienceStrings(in []event.Audience) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, string(a))
	}
	return out
}

func (r *EventsRepo) Create(ctx context.Context, req event.CreateEventRequest) (out event.Event, err error) {
	err = r.observe("events.create", func() error {
		loc, lerr := getLocation(ctx, r.pool, req.LocationID)
		if lerr != nil {
			return lerr
		}

		e := event.NewFromCreateRequest(req, loc)
		if verr := e.Validate(); verr != nil {
			return verr
		}

		if ierr := insertEvent(ctx, r.pool, e); ierr != nil {
			return ierr
		}
		out = e
		return nil
	})
	return
}

// Add inserts a fully formed event (seeding, imports).
func (r *EventsRepo) Add(ctx context.Context, e event.Event) (out event.Event, err error) {
	err = r.observe("events.add", func() error {
		loc, lerr := getLocation(ctx, r.pool, e.Location.ID)
		if lerr != nil {
			return lerr
		}
		e.Location = loc

		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.CreatedAt.IsZero() {
			e.CreatedAt = time.Now().UTC()
		}
		if e.UpdatedAt.IsZero() {
			e.UpdatedAt = e.CreatedAt
		}

		if verr := e.Validate(); verr != nil {
			return verr
		}
		if ierr := insertEvent(ctx, r.pool, e); ierr != nil {
			if IsUniqueViolation(ierr) {
				return fmt.Errorf("%w: id %s already taken", event.ErrInvalid, e.ID)
			}
			return ierr
		}
		out = e
		return nil
	})
	return
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertEvent(ctx context.Context, db execer, e event.Event) error {
	_, err := db.Exec(ctx, `
		INSERT INTO events (
			id, title, description, start_date, end_date, theme, audience, modality, location_id,
			capacity, registered_count, organizer_name, organizer_email, organizer_phone,
			technical_checklist, status, accessibility, rules_for_minors, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)`,
		e.ID, e.Title, e.Description, e.StartDate, e.EndDate, string(e.Theme), audienceStrings(e.Audience),
		string(e.Modality), e.Location.ID, e.Capacity, e.RegisteredCount,
		e.Organizer.Name, e.Organizer.Email, e.Organizer.Phone,
		e.TechnicalChecklist, string(e.Status), e.Accessibility, e.RulesForMinors, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (out event.Event, err error) {
	err = r.observe("events.get_by_id", func() error {
		e, serr := scanEvent(r.pool.QueryRow(ctx, `SELECT`+eventColumns+eventFrom+` WHERE e.id = $1`, id))
		if serr != nil {
			if errors.Is(serr, pgx.ErrNoRows) {
				return event.ErrNotFound
			}
			return serr
		}
		out = e
		return nil
	})
	return
}

// List returns every event ordered by start date, then id.
func (r *EventsRepo) List(ctx context.Context) (out []event.Event, err error) {
	err = r.observe("events.list", func() error {
		rows, qerr := r.pool.Query(ctx, `SELECT`+eventColumns+eventFrom+` ORDER BY e.start_date ASC, e.id ASC`)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()

		out = make([]event.Event, 0)
		for rows.Next() {
			e, serr := scanEvent(rows)
			if serr != nil {
				return serr
			}
			out = append(out, e)
		}
		return rows.Err()
	})
	return
}

// Update locks the row, merges the patch and validates the result before writing.
// registered_count is never written here; registrations own it.
func (r *EventsRepo) Update(ctx context.Context, id string, req event.UpdateEventRequest) (out event.Event, err error) {
	err = r.observe("events.update", func() error {
		tx, terr := r.pool.BeginTx(ctx, pgx.TxOptions{})
		if terr != nil {
			return terr
		}
		defer func() { _ = tx.Rollback(ctx) }()

		existing, serr := scanEvent(tx.QueryRow(ctx, `SELECT`+eventColumns+eventFrom+` WHERE e.id = $1 FOR UPDATE OF e`, id))
		if serr != nil {
			if errors.Is(serr, pgx.ErrNoRows) {
				return event.ErrNotFound
			}
			return serr
		}

		updated := req.Apply(existing)
		if req.LocationID != nil {
			loc, lerr := getLocation(ctx, tx, *req.LocationID)
			if lerr != nil {
				return lerr
			}
			updated.Location = loc
		}

		if verr := updated.Validate(); verr != nil {
			return verr
		}

		uerr := tx.QueryRow(ctx, `
			UPDATE events
			SET title = $2, description = $3, start_date = $4, end_date = $5, theme = $6,
				audience = $7, modality = $8, location_id = $9, capacity = $10,
				organizer_name = $11, organizer_email = $12,
				organizer_phone = $13, technical_checklist = $14, status = $15,
				accessibility = $16, rules_for_minors = $17, updated_at = NOW()
			WHERE id = $1
			RETURNING registered_count, updated_at`,
			id, updated.Title, updated.Description, updated.StartDate, updated.EndDate, string(updated.Theme),
			audienceStrings(updated.Audience), string(updated.Modality), updated.Location.ID, updated.Capacity,
			updated.Organizer.Name, updated.Organizer.Email, updated.Organizer.Phone,
			updated.TechnicalChecklist, string(updated.Status), updated.Accessibility, updated.RulesForMinors,
		).Scan(&updated.RegisteredCount, &updated.UpdatedAt)
		if uerr != nil {
			return uerr
		}

		if cerr := tx.Commit(ctx); cerr != nil {
			return cerr
		}
		out = updated
		return nil
	})
	return
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	return r.observe("events.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return err
		}

		// if no rows were deleted as a result return a not found error
		if tag.RowsAffected() == 0 {
			return event.ErrNotFound
		}
		return nil
	})
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getLocation(ctx context.Context, db queryRower, id string) (location.Location, error) {
	var l location.Location
	err := db.QueryRow(ctx, `
		SELECT id, name, campus, capacity, has_projector, has_microphone, has_streaming
		FROM locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Campus, &l.Capacity, &l.HasProjector, &l.HasMicrophone, &l.HasStreaming)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return location.Location{}, location.ErrNotFound
		}
		return location.Location{}, err
	}
	return l, nil
}
