package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/viability/pkg/domain"
)

// Store implements ports.CurveStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Curve
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Curve),
	}
}

// Save persists a copy of the curve in memory.
func (s *Store) Save(ctx context.Context, curve *domain.Curve) error {
	copied := curve.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[curve.ID] = copied
	return nil
}

// Load retrieves the curve from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Curve, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	curve, ok := s.data[id]
	if !ok {
		return nil, domain.ErrCurveNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer
	return curve.Clone(), nil
}

// Delete removes the curve.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored curve IDs, oldest first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	curves := make([]*domain.Curve, 0, len(s.data))
	for _, c := range s.data {
		curves = append(curves, c)
	}
	sort.Slice(curves, func(i, j int) bool {
		if curves[i].CreatedAt.Equal(curves[j].CreatedAt) {
			return curves[i].ID < curves[j].ID
		}
		return curves[i].CreatedAt.Before(curves[j].CreatedAt)
	})

	ids := make([]string, len(curves))
	for i, c := range curves {
		ids[i] = c.ID
	}
	return ids, nil
}
