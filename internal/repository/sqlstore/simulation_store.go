// internal/repository/sqlstore/simulation_store.go
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"
)

// SimulationRepository implements repository.SimulationRepository over the
// single-row simulation_state table.
type SimulationRepository struct{}

// NewSimulationRepository creates a new SimulationRepository.
func NewSimulationRepository() repository.SimulationRepository {
	return &SimulationRepository{}
}

// GetState returns the current counters.
func (r *SimulationRepository) GetState(ctx context.Context, q repository.DBExecutor) (*domain.SimulationState, error) {
	var state domain.SimulationState
	err := q.GetContext(ctx, &state, `SELECT current_month, current_week, updated_at FROM simulation_state WHERE id = 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to read simulation state: %w", err)
	}
	return &state, nil
}

// Increment bumps the counter for frequency by one.
func (r *SimulationRepository) Increment(ctx context.Context, q repository.DBExecutor, frequency domain.Frequency) (*domain.SimulationState, error) {
	var column string
	switch frequency {
	case domain.FrequencyMonthly:
		column = "current_month"
	case domain.FrequencyWeekly:
		column = "current_week"
	default:
		return nil, fmt.Errorf("increment simulation state: unknown frequency %q", frequency)
	}

	query := q.Rebind(`UPDATE simulation_state SET ` + column + ` = ` + column + ` + 1, updated_at = ? WHERE id = 1`)
	if _, err := q.ExecContext(ctx, query, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to advance %s counter: %w", frequency, err)
	}
	return r.GetState(ctx, q)
}

// Reset zeroes both counters.
func (r *SimulationRepository) Reset(ctx context.Context, q repository.DBExecutor) error {
	query := q.Rebind(`UPDATE simulation_state SET current_month = 0, current_week = 0, updated_at = ? WHERE id = 1`)
	if _, err := q.ExecContext(ctx, query, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to reset simulation state: %w", err)
	}
	return nil
}
