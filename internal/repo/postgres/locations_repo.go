package postgres

import (
	"context"

	"github.com/geocoder89/campusevents/internal/domain/location"
	"github.com/geocoder89/campusevents/internal/observability"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LocationsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewLocationsRepo(pool *pgxpool.Pool, prom *observability.Prom) *LocationsRepo {
	return &LocationsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *LocationsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveStore(op, fn)
	}
	return fn()
}

// Add upserts a venue. Catalog order follows the position assigned on first insert.
func (r *LocationsRepo) Add(ctx context.Context, loc location.Location) (location.Location, error) {
	err := r.observe("locations.add", func() error {
		if err := loc.Validate(); err != nil {
			return err
		}

		_, err := r.pool.Exec(ctx, `
			INSERT INTO locations (id, name, campus, capacity, has_projector, has_microphone, has_streaming)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, campus = EXCLUDED.campus, capacity = EXCLUDED.capacity,
				has_projector = EXCLUDED.has_projector, has_microphone = EXCLUDED.has_microphone,
				has_streaming = EXCLUDED.has_streaming`,
			loc.ID, loc.Name, loc.Campus, loc.Capacity, loc.HasProjector, loc.HasMicrophone, loc.HasStreaming,
		)
		return err
	})
	if err != nil {
		return location.Location{}, err
	}
	return loc, nil
}

func (r *LocationsRepo) Create(ctx context.Context, req location.CreateLocationRequest) (location.Location, error) {
	return r.Add(ctx, location.NewFromCreateRequest(req))
}

func (r *LocationsRepo) GetByID(ctx context.Context, id string) (out location.Location, err error) {
	err = r.observe("locations.get_by_id", func() error {
		var gerr error
		out, gerr = getLocation(ctx, r.pool, id)
		return gerr
	})
	return
}

func (r *LocationsRepo) List(ctx context.Context) (out []location.Location, err error) {
	err = r.observe("locations.list", func() error {
		rows, qerr := r.pool.Query(ctx, `
			SELECT id, name, campus, capacity, has_projector, has_microphone, has_streaming
			FROM locations
			ORDER BY position ASC`)
		if qerr != nil {
			return qerr
		}
		defer rows.Close()

		out = make([]location.Location, 0)
		for rows.Next() {
			var l location.Location
			if serr := rows.Scan(&l.ID, &l.Name, &l.Campus, &l.Capacity, &l.HasProjector, &l.HasMicrophone, &l.HasStreaming); serr != nil {
				return serr
			}
			out = append(out, l)
		}
		return rows.Err()
	})
	return
}

// Delete relies on the events.location_id foreign key to refuse venues still in use.
func (r *LocationsRepo) Delete(ctx context.Context, id string) error {
	return r.observe("locations.delete", func() error {
		tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE id = $1`, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return location.ErrInUse
			}
			return err
		}
		if tag.RowsAffected() == 0 {
			return location.ErrNotFound
		}
		return nil
	})
}
