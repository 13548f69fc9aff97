package domain_test

import (
	"testing"

	"github.com/aretw0/viability/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultGrid(t *testing.T) {
	g := domain.DefaultGrid()

	require.Len(t, g, 21)
	assert.Equal(t, 0.0, g[0])
	assert.Equal(t, 1.0, g[20])
	for i := 1; i < len(g); i++ {
		assert.InDelta(t, 0.05, g[i]-g[i-1], 1e-12)
	}
	assert.NoError(t, g.Validate())
}

func TestLinspace(t *testing.T) {
	assert.Empty(t, domain.Linspace(0, 1, 0))
	assert.Equal(t, domain.Grid{0.3}, domain.Linspace(0.3, 1, 1))
	assert.Equal(t, domain.Grid{0, 0.5, 1}, domain.Linspace(0, 1, 3))
}

func TestGrid_Validate(t *testing.T) {
	assert.ErrorIs(t, domain.Grid{}.Validate(), domain.ErrInvalidConfiguration)
	assert.ErrorIs(t, domain.Grid{0.1, 1.2}.Validate(), domain.ErrInvalidConfiguration)
	assert.NoError(t, domain.Grid{0.9, 0.1, 0.1}.Validate(), "unsorted and duplicate values are allowed")
}

func TestCurve_Accessors(t *testing.T) {
	c := &domain.Curve{Points: []domain.Point{
		{Rho: 0.5, MeanLifetime: 10},
		{Rho: 0.1, MeanLifetime: 20},
	}}

	assert.Equal(t, []float64{0.5, 0.1}, c.Rhos())
	assert.Equal(t, []float64{10, 20}, c.Means())

	cp := c.Clone()
	cp.Points[0].MeanLifetime = 99
	assert.Equal(t, 10.0, c.Points[0].MeanLifetime)
}
