package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/viability/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DeterministicLifetime is the lifetime of every trajectory run with DeterministicConfig:
// gamma decays by c = 0.06 per step from 1.0 and first drops below 0.2 at step 14.
const DeterministicLifetime = 14

// DeterministicConfig switches off both the controller (alpha*rho = 1) and the
// environment (rho = 1, sigma0 = 0), leaving only the constant decay.
func DeterministicConfig() domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Rho = 1
	cfg.Alpha = 1
	cfg.Sigma0 = 0
	cfg.Mu = 0
	return cfg
}

// NewRedisClient starts an in-process miniredis server for the duration of the test
// and returns a client connected to it.
func NewRedisClient(t *testing.T) (*backend.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}
