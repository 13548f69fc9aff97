package ports

import (
	"context"

	"github.com/aretw0/viability/pkg/domain"
)

// CurveStore defines the interface for persisting sweep results.
type CurveStore interface {
	// Save persists the curve under curve.ID, replacing any previous value.
	Save(ctx context.Context, curve *domain.Curve) error

	// Load retrieves a curve by ID.
	// Returns domain.ErrCurveNotFound if the curve does not exist.
	Load(ctx context.Context, id string) (*domain.Curve, error)

	// Delete removes a curve. Deleting a missing curve is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of all stored curves.
	List(ctx context.Context) ([]string, error)
}
