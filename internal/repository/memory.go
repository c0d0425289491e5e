package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

// MemoryStore keeps readings in an append-only slice. It backs broker-to-API
// demo runs without Postgres and the package tests. Writers are serialized by
// the mutex; readers copy out so callers never share the backing slice.
type MemoryStore struct {
	mu       sync.RWMutex
	readings []domain.Reading
	nextID   int64
}

func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Insert(_ context.Context, r *domain.Reading) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *r
	stored.ID = s.nextID
	s.nextID++
	s.readings = append(s.readings, stored)
	return stored.ID, nil
}

func (s *MemoryStore) ByID(_ context.Context, id int64) (*domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.readings {
		if s.readings[i].ID == id {
			r := s.readings[i]
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Latest(_ context.Context, limit int, assetID string) ([]domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.chronological(assetID)
	if limit < len(matched) {
		matched = matched[len(matched)-limit:]
	}
	return matched, nil
}

func (s *MemoryStore) Range(_ context.Context, start, end time.Time, assetID string) ([]domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Reading{}
	for _, r := range s.chronological(assetID) {
		if !r.Timestamp.Before(start) && !r.Timestamp.After(end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) Since(_ context.Context, cutoff time.Time, assetID string) ([]domain.Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Reading{}
	for _, r := range s.chronological(assetID) {
		if !r.Timestamp.Before(cutoff) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.readings)), nil
}

func (s *MemoryStore) AssetSummaries(_ context.Context) ([]domain.AssetSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byAsset := map[string]*domain.AssetSummary{}
	latest := map[string]domain.Reading{}
	for _, r := range s.readings {
		sum, ok := byAsset[r.AssetID]
		if !ok {
			sum = &domain.AssetSummary{
				AssetID:      r.AssetID,
				FirstReading: r.Timestamp,
				LastReading:  r.Timestamp,
			}
			byAsset[r.AssetID] = sum
		}
		sum.TotalReadings++
		if r.Timestamp.Before(sum.FirstReading) {
			sum.FirstReading = r.Timestamp
		}
		if !r.Timestamp.Before(sum.LastReading) {
			sum.LastReading = r.Timestamp
		}
		// Equal timestamps resolve to the highest id.
		cur, ok := latest[r.AssetID]
		if !ok || r.Timestamp.After(cur.Timestamp) ||
			(r.Timestamp.Equal(cur.Timestamp) && r.ID > cur.ID) {
			latest[r.AssetID] = r
		}
	}

	out := make([]domain.AssetSummary, 0, len(byAsset))
	for assetID, sum := range byAsset {
		sum.LatestStatus = latest[assetID].Status
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out, nil
}

// chronological returns a sorted copy of the matching readings, ascending by
// (timestamp, id). Callers must hold at least the read lock.
func (s *MemoryStore) chronological(assetID string) []domain.Reading {
	out := make([]domain.Reading, 0, len(s.readings))
	for _, r := range s.readings {
		if assetID == "" || r.AssetID == assetID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
