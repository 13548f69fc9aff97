package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/viability/internal/adapters/sqlite"
	"github.com/aretw0/viability/pkg/domain"
	"github.com/aretw0/viability/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_Contract(t *testing.T) {
	store := openStore(t, filepath.Join(t.TempDir(), "curves.db"))
	ports.RunCurveStoreContract(t, store)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "curves.db")

	first, err := sqlite.Open(path)
	require.NoError(t, err)
	curve := &domain.Curve{
		ID:        "persisted",
		Seed:      ^uint64(0),
		Points:    []domain.Point{{Rho: 1, MeanLifetime: 14}},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, first.Save(ctx, curve))
	require.NoError(t, first.Close())

	second := openStore(t, path)
	loaded, err := second.Load(ctx, "persisted")
	require.NoError(t, err)
	assert.Equal(t, curve.Seed, loaded.Seed, "full uint64 seeds survive the round trip")
	assert.Equal(t, curve.Points, loaded.Points)
}

func TestSQLiteStore_ListOrder(t *testing.T) {
	ctx := context.Background()
	store := openStore(t, filepath.Join(t.TempDir(), "curves.db"))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, &domain.Curve{ID: "b", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.Curve{ID: "a", CreatedAt: base.Add(2 * time.Hour)}))
	require.NoError(t, store.Save(ctx, &domain.Curve{ID: "c", CreatedAt: base}))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids)
}

func TestSQLiteStore_RequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}
