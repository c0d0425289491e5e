package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

const readingColumns = `id, asset_id, timestamp, motor_amps, temperature, vibration, status`

// PostgresStore persists readings in a sensor_readings table.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore { return &PostgresStore{db: db} }

func (s *PostgresStore) Insert(ctx context.Context, r *domain.Reading) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO sensor_readings (asset_id, timestamp, motor_amps, temperature, vibration, status)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		r.AssetID, r.Timestamp, r.MotorAmps, r.Temperature, r.Vibration, r.Status).Scan(&id)
	if err != nil {
		return 0, &StorageError{Op: "insert", Err: err}
	}
	return id, nil
}

func (s *PostgresStore) ByID(ctx context.Context, id int64) (*domain.Reading, error) {
	var r domain.Reading
	err := s.db.GetContext(ctx, &r,
		`SELECT `+readingColumns+` FROM sensor_readings WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "by id", Err: err}
	}
	return &r, nil
}

func (s *PostgresStore) Latest(ctx context.Context, limit int, assetID string) ([]domain.Reading, error) {
	// Pick the newest limit rows, then flip back to chronological order.
	q := `SELECT ` + readingColumns + ` FROM (
		SELECT ` + readingColumns + ` FROM sensor_readings
		WHERE ($2 = '' OR asset_id = $2)
		ORDER BY timestamp DESC, id DESC LIMIT $1
	) newest ORDER BY timestamp ASC, id ASC`
	out := []domain.Reading{}
	if err := s.db.SelectContext(ctx, &out, q, limit, assetID); err != nil {
		return nil, &StorageError{Op: "latest", Err: err}
	}
	return out, nil
}

func (s *PostgresStore) Range(ctx context.Context, start, end time.Time, assetID string) ([]domain.Reading, error) {
	q := `SELECT ` + readingColumns + ` FROM sensor_readings
		WHERE timestamp >= $1 AND timestamp <= $2 AND ($3 = '' OR asset_id = $3)
		ORDER BY timestamp ASC, id ASC`
	out := []domain.Reading{}
	if err := s.db.SelectContext(ctx, &out, q, start, end, assetID); err != nil {
		return nil, &StorageError{Op: "range", Err: err}
	}
	return out, nil
}

func (s *PostgresStore) Since(ctx context.Context, cutoff time.Time, assetID string) ([]domain.Reading, error) {
	q := `SELECT ` + readingColumns + ` FROM sensor_readings
		WHERE timestamp >= $1 AND ($2 = '' OR asset_id = $2)
		ORDER BY timestamp ASC, id ASC`
	out := []domain.Reading{}
	if err := s.db.SelectContext(ctx, &out, q, cutoff, assetID); err != nil {
		return nil, &StorageError{Op: "since", Err: err}
	}
	return out, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sensor_readings`); err != nil {
		return 0, &StorageError{Op: "count", Err: err}
	}
	return n, nil
}

func (s *PostgresStore) AssetSummaries(ctx context.Context) ([]domain.AssetSummary, error) {
	// Latest status per asset ties on timestamp break to the highest id.
	q := `SELECT agg.asset_id, agg.first_seen, agg.last_seen, agg.total_readings, latest.status AS latest_status
		FROM (
			SELECT asset_id, MIN(timestamp) AS first_seen, MAX(timestamp) AS last_seen, COUNT(*) AS total_readings
			FROM sensor_readings GROUP BY asset_id
		) agg
		JOIN (
			SELECT DISTINCT ON (asset_id) asset_id, status
			FROM sensor_readings ORDER BY asset_id, timestamp DESC, id DESC
		) latest USING (asset_id)
		ORDER BY agg.asset_id`
	out := []domain.AssetSummary{}
	if err := s.db.SelectContext(ctx, &out, q); err != nil {
		return nil, &StorageError{Op: "asset summaries", Err: err}
	}
	return out, nil
}
