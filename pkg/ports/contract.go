package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCurveStoreContract runs a suite of tests to verify that a CurveStore implementation
// adheres to the defined interface contract.
func RunCurveStoreContract(t *testing.T, store CurveStore) {
	ctx := context.Background()
	curveID := "contract-test-curve-" + time.Now().Format("20060102150405")

	newCurve := func(id string) *domain.Curve {
		return &domain.Curve{
			ID:   id,
			Seed: 42,
			Base: domain.DefaultConfig(),
			Points: []domain.Point{
				{Rho: 0.5, MeanLifetime: 120.25, StdErr: 1.5, TimedOut: 3},
				{Rho: 0, MeanLifetime: 98.5},
				{Rho: 0.5, MeanLifetime: 119.75},
			},
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		curve := newCurve(curveID)

		err := store.Save(ctx, curve)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, curveID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, curve.ID, loaded.ID)
		assert.Equal(t, curve.Seed, loaded.Seed)
		assert.Equal(t, curve.Base, loaded.Base)
		assert.Equal(t, curve.Points, loaded.Points, "point order must be preserved")
		assert.True(t, curve.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		curve := newCurve(curveID)
		curve.Points = curve.Points[:1]
		require.NoError(t, store.Save(ctx, curve))

		loaded, err := store.Load(ctx, curveID)
		require.NoError(t, err)
		assert.Len(t, loaded.Points, 1)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+curveID)
		assert.ErrorIs(t, err, domain.ErrCurveNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newCurve(curveID))
		require.NoError(t, err)

		err = store.Delete(ctx, curveID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, curveID)
		assert.ErrorIs(t, err, domain.ErrCurveNotFound, "Load after Delete should return ErrCurveNotFound")

		assert.NoError(t, store.Delete(ctx, curveID), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := curveID + "-1"
		id2 := curveID + "-2"
		_ = store.Save(ctx, newCurve(id1))
		_ = store.Save(ctx, newCurve(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
