package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/scadatwin/telemetry-engine/internal/domain"
)

func seed(t *testing.T, store *MemoryStore, readings ...domain.Reading) {
	t.Helper()
	ctx := context.Background()
	for i := range readings {
		_, err := store.Insert(ctx, &readings[i])
		require.NoError(t, err)
	}
}

func ts(minute int) time.Time {
	return time.Date(2026, 8, 29, 10, minute, 0, 0, time.UTC)
}

func TestInsertAssignsMonotonicIDs(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	first, err := store.Insert(ctx, &domain.Reading{AssetID: "A", Timestamp: ts(0)})
	require.NoError(t, err)
	second, err := store.Insert(ctx, &domain.Reading{AssetID: "A", Timestamp: ts(1)})
	require.NoError(t, err)
	require.Greater(t, second, first)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)
}

func TestLatestReturnsNewestSubsetChronologically(t *testing.T) {
	store := NewMemory()
	// Inserted out of timestamp order on purpose.
	seed(t, store,
		domain.Reading{AssetID: "A", Timestamp: ts(3)},
		domain.Reading{AssetID: "A", Timestamp: ts(1)},
		domain.Reading{AssetID: "A", Timestamp: ts(5)},
		domain.Reading{AssetID: "A", Timestamp: ts(2)},
	)

	got, err := store.Latest(context.Background(), 2, "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ts(3), got[0].Timestamp)
	require.Equal(t, ts(5), got[1].Timestamp)

	// Asking for more than stored returns everything, still chronological.
	all, err := store.Latest(context.Background(), 100, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		require.False(t, all[i].Timestamp.Before(all[i-1].Timestamp))
	}
}

func TestLatestFiltersByAsset(t *testing.T) {
	store := NewMemory()
	seed(t, store,
		domain.Reading{AssetID: "A", Timestamp: ts(1)},
		domain.Reading{AssetID: "B", Timestamp: ts(2)},
		domain.Reading{AssetID: "A", Timestamp: ts(3)},
	)

	got, err := store.Latest(context.Background(), 10, "A")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		require.Equal(t, "A", r.AssetID)
	}
}

func TestRangeIsInclusiveAndChronological(t *testing.T) {
	store := NewMemory()
	seed(t, store,
		domain.Reading{AssetID: "A", Timestamp: ts(1)},
		domain.Reading{AssetID: "A", Timestamp: ts(2)},
		domain.Reading{AssetID: "A", Timestamp: ts(3)},
		domain.Reading{AssetID: "A", Timestamp: ts(4)},
	)

	got, err := store.Range(context.Background(), ts(2), ts(3), "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ts(2), got[0].Timestamp)
	require.Equal(t, ts(3), got[1].Timestamp)
}

func TestSinceCutoffIsInclusive(t *testing.T) {
	store := NewMemory()
	seed(t, store,
		domain.Reading{AssetID: "A", Timestamp: ts(1)},
		domain.Reading{AssetID: "A", Timestamp: ts(2)},
		domain.Reading{AssetID: "A", Timestamp: ts(3)},
	)

	got, err := store.Since(context.Background(), ts(2), "")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ts(2), got[0].Timestamp)
}

func TestByID(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()
	id, err := store.Insert(ctx, &domain.Reading{AssetID: "A", Timestamp: ts(1), Status: "RUNNING"})
	require.NoError(t, err)

	got, err := store.ByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "RUNNING", got.Status)

	_, err = store.ByID(ctx, id+999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAssetSummaries(t *testing.T) {
	store := NewMemory()
	seed(t, store,
		domain.Reading{AssetID: "A", Timestamp: ts(1), Status: "RUNNING"},
		domain.Reading{AssetID: "B", Timestamp: ts(2), Status: "IDLE"},
		domain.Reading{AssetID: "A", Timestamp: ts(4), Status: "STOPPED"},
		domain.Reading{AssetID: "A", Timestamp: ts(3), Status: "RUNNING"},
	)

	summaries, err := store.AssetSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	a := summaries[0]
	require.Equal(t, "A", a.AssetID)
	require.Equal(t, ts(1), a.FirstReading)
	require.Equal(t, ts(4), a.LastReading)
	require.EqualValues(t, 3, a.TotalReadings)
	require.Equal(t, "STOPPED", a.LatestStatus)

	require.Equal(t, "B", summaries[1].AssetID)
	require.Equal(t, "IDLE", summaries[1].LatestStatus)
}

func TestAssetSummariesTimestampTieBreaksToHighestID(t *testing.T) {
	store := NewMemory()
	// Duplicate timestamps are legal; the later insert wins latestStatus.
	seed(t, store,
		domain.Reading{AssetID: "A", Timestamp: ts(1), Status: "FIRST"},
		domain.Reading{AssetID: "A", Timestamp: ts(1), Status: "SECOND"},
	)

	summaries, err := store.AssetSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "SECOND", summaries[0].LatestStatus)
}
