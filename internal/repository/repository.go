package repository

import (
	"context"
	"errors"
	"time"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// ErrNotFound is returned by lookups that match no reading.
var ErrNotFound = errors.New("reading not found")

// StorageError wraps an I/O fault from a store backend. The store never
// retries; callers decide whether to drop or surface.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return "storage: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// Store is the reading repository contract. All query results are in
// chronological order, meaning ascending (timestamp, id). Implementations must
// serialize concurrent writers and give readers a consistent snapshot; a
// partially written reading is never observable.
type Store interface {
	// Insert appends one reading and returns its assigned id.
	Insert(ctx context.Context, r *domain.Reading) (int64, error)

	// ByID returns the reading with the given id, or ErrNotFound.
	ByID(ctx context.Context, id int64) (*domain.Reading, error)

	// Latest returns the newest limit readings (optionally filtered by asset),
	// oldest-first. Fewer than limit stored means all of them, still
	// chronological.
	Latest(ctx context.Context, limit int, assetID string) ([]domain.Reading, error)

	// Range returns readings with start <= timestamp <= end, chronological.
	// Callers validate start < end before calling.
	Range(ctx context.Context, start, end time.Time, assetID string) ([]domain.Reading, error)

	// Since returns readings with timestamp >= cutoff, chronological.
	Since(ctx context.Context, cutoff time.Time, assetID string) ([]domain.Reading, error)

	// Count returns the total number of stored readings.
	Count(ctx context.Context) (int64, error)

	// AssetSummaries returns one summary per distinct assetId observed.
	AssetSummaries(ctx context.Context) ([]domain.AssetSummary, error)
}
