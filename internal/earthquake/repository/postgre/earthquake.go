package postgres

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/L3pereira/ndgms/internal/earthquake/repository"
	"github.com/L3pereira/ndgms/internal/model"
)

const selectColumns = `id, latitude, longitude, depth_km, magnitude, magnitude_scale,
	occurred_at, source, title, external_id, is_reviewed, created_at`

func (r *implRepository) Save(ctx context.Context, eq model.Earthquake) (string, error) {
	const query = `
		INSERT INTO earthquakes (
			id, latitude, longitude, depth_km, magnitude, magnitude_scale,
			occurred_at, source, title, external_id, is_reviewed, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		eq.ID,
		eq.Location.Latitude,
		eq.Location.Longitude,
		eq.Location.DepthKm,
		eq.Magnitude.Value,
		string(eq.Magnitude.Scale),
		eq.OccurredAt,
		eq.Source,
		eq.Title,
		eq.ExternalID,
		eq.Reviewed,
		eq.CreatedAt,
	)
	if err != nil {
		r.l.Errorf(ctx, "internal.earthquake.repository.postgres.Save.Exec: %v", err)
		return "", err
	}

	return eq.ID, nil
}

func (r *implRepository) FindByID(ctx context.Context, id string) (model.Earthquake, error) {
	query := `SELECT ` + selectColumns + ` FROM earthquakes WHERE id = $1`

	eq, err := r.scanOne(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return model.Earthquake{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.earthquake.repository.postgres.FindByID.Scan: %v", err)
		return model.Earthquake{}, err
	}

	return eq, nil
}

func (r *implRepository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM earthquakes WHERE external_id = $1)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, externalID).Scan(&exists); err != nil {
		r.l.Errorf(ctx, "internal.earthquake.repository.postgres.ExistsByExternalID.Scan: %v", err)
		return false, err
	}

	return exists, nil
}

func (r *implRepository) FindByTimeRange(ctx context.Context, start, end time.Time) ([]model.Earthquake, error) {
	query := `SELECT ` + selectColumns + `
		FROM earthquakes
		WHERE occurred_at BETWEEN $1 AND $2
		ORDER BY occurred_at DESC`

	rows, err := r.db.QueryContext(ctx, query, start, end)
	if err != nil {
		r.l.Errorf(ctx, "internal.earthquake.repository.postgres.FindByTimeRange.Query: %v", err)
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(ctx, rows)
}

func (r *implRepository) FindByMagnitudeRange(ctx context.Context, opts repository.MagnitudeRangeOptions) ([]model.Earthquake, error) {
	var (
		conds = []string{"magnitude >= $1"}
		args  = []any{opts.MinMagnitude}
	)

	if opts.MaxMagnitude != nil {
		args = append(args, *opts.MaxMagnitude)
		conds = append(conds, "magnitude <= $"+strconv.Itoa(len(args)))
	}
	if opts.Start != nil {
		args = append(args, *opts.Start)
		conds = append(conds, "occurred_at >= $"+strconv.Itoa(len(args)))
	}
	if opts.End != nil {
		args = append(args, *opts.End)
		conds = append(conds, "occurred_at <= $"+strconv.Itoa(len(args)))
	}

	query := `SELECT ` + selectColumns + `
		FROM earthquakes
		WHERE ` + strings.Join(conds, " AND ") + `
		ORDER BY occurred_at DESC`

	if opts.Limit > 0 {
		query += " LIMIT " + strconv.Itoa(opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.l.Errorf(ctx, "internal.earthquake.repository.postgres.FindByMagnitudeRange.Query: %v", err)
		return nil, err
	}
	defer rows.Close()

	return r.scanAll(ctx, rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *implRepository) scanOne(row rowScanner) (model.Earthquake, error) {
	var (
		eq         model.Earthquake
		scale      string
		title      sql.NullString
		externalID sql.NullString
	)

	err := row.Scan(
		&eq.ID,
		&eq.Location.Latitude,
		&eq.Location.Longitude,
		&eq.Location.DepthKm,
		&eq.Magnitude.Value,
		&scale,
		&eq.OccurredAt,
		&eq.Source,
		&title,
		&externalID,
		&eq.Reviewed,
		&eq.CreatedAt,
	)
	if err != nil {
		return model.Earthquake{}, err
	}

	eq.Magnitude.Scale = model.MagnitudeScale(scale)
	eq.Title = title.String
	eq.ExternalID = externalID.String
	return eq, nil
}

func (r *implRepository) scanAll(ctx context.Context, rows *sql.Rows) ([]model.Earthquake, error) {
	var out []model.Earthquake
	for rows.Next() {
		eq, err := r.scanOne(rows)
		if err != nil {
			r.l.Errorf(ctx, "internal.earthquake.repository.postgres.scanAll: %v", err)
			return nil, err
		}
		out = append(out, eq)
	}
	return out, rows.Err()
}
