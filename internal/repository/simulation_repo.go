// internal/repository/simulation_repo.go
package repository

import (
	"context"

	"btc-retire/internal/domain"
)

// SimulationRepository persists the per-frequency period counters.
type SimulationRepository interface {
	// GetState returns the single simulation state row.
	GetState(ctx context.Context, q DBExecutor) (*domain.SimulationState, error)
	// Increment adds one to the counter of the given frequency and returns the new state.
	Increment(ctx context.Context, q DBExecutor, frequency domain.Frequency) (*domain.SimulationState, error)
	// Reset sets both counters to zero.
	Reset(ctx context.Context, q DBExecutor) error
}
