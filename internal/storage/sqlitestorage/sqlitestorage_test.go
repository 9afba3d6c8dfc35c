package sqlitestorage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SversusN/reviewcheck/internal/internalerrors"
	"github.com/SversusN/reviewcheck/internal/storage/storage"
)

func setupTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestKeyValue(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)

	require.NoError(t, db.Ping(ctx))
	_, err := db.Get(ctx, "urlVisits")
	assert.ErrorIs(t, err, internalerrors.ErrNotFound)

	require.NoError(t, db.Set(ctx, "urlVisits", `{"x":1}`))
	require.NoError(t, db.Set(ctx, "urlVisits", `{"x":2}`))
	v, err := db.Get(ctx, "urlVisits")
	require.NoError(t, err)
	assert.Equal(t, `{"x":2}`, v)
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		require.NoError(t, db.SaveAnalysis(ctx, storage.Analysis{
			ID:           id,
			URL:          "https://www.flipkart.com/p",
			AnalyzedText: "https://www.flipkart.com/p",
			Platform:     "Flipkart",
			AnalyzedAt:   base.Add(time.Duration(i) * time.Second),
		}))
	}
	h, err := db.GetHistory(ctx, 2)
	require.NoError(t, err)
	require.Len(t, h, 2)
	assert.Equal(t, "third", h[0].ID)
	assert.Equal(t, "second", h[1].ID)
	assert.True(t, base.Add(2*time.Second).Equal(h[0].AnalyzedAt))
}
