// internal/service/round_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/metrics"
	"btc-retire/internal/util"

	"github.com/google/uuid"
)

// PriceSource supplies the BTC price used for a round. Implementations
// should return a freshly observed price.
type PriceSource interface {
	WithdrawalPrice(ctx context.Context) (*domain.PriceSample, error)
}

// RoundService runs one logical withdrawal round: date, price, withdrawals,
// then clock advance, exactly once per call.
type RoundService interface {
	RunRound(ctx context.Context, frequency domain.Frequency) (*domain.RoundReport, error)
}

type roundService struct {
	clock      SimulationService
	withdrawal WithdrawalService
	prices     PriceSource
	logger     *slog.Logger

	mu map[domain.Frequency]*sync.Mutex
}

// NewRoundService creates a new RoundService.
func NewRoundService(clock SimulationService, withdrawal WithdrawalService, prices PriceSource, logger *slog.Logger) RoundService {
	return &roundService{
		clock:      clock,
		withdrawal: withdrawal,
		prices:     prices,
		logger:     logger,
		mu: map[domain.Frequency]*sync.Mutex{
			domain.FrequencyMonthly: {},
			domain.FrequencyWeekly:  {},
		},
	}
}

// RunRound executes a round for frequency. Rounds of the same frequency are
// serialised; monthly and weekly rounds may overlap. When any wallet fails
// the clock is not advanced and the error wraps util.ErrRoundIncomplete.
func (s *roundService) RunRound(ctx context.Context, frequency domain.Frequency) (*domain.RoundReport, error) {
	if !frequency.Valid() {
		return nil, util.ErrInvalidFrequency
	}
	mu := s.mu[frequency]
	mu.Lock()
	defer mu.Unlock()

	started := time.Now()
	defer func() {
		metrics.RoundDuration.WithLabelValues(string(frequency)).Observe(time.Since(started).Seconds())
	}()

	roundID := uuid.NewString()
	logger := s.logger.With("round_id", roundID, "frequency", frequency)

	period, err := s.clock.CurrentPeriod(ctx, frequency)
	if err != nil {
		return nil, s.fail(frequency, fmt.Errorf("run round: %w", err))
	}
	date, err := s.clock.NextWithdrawalDate(ctx, frequency)
	if err != nil {
		return nil, s.fail(frequency, fmt.Errorf("run round: %w", err))
	}
	price, err := s.prices.WithdrawalPrice(ctx)
	if err != nil {
		return nil, s.fail(frequency, fmt.Errorf("run round: failed to get btc price: %w", err))
	}

	report := &domain.RoundReport{
		RoundID:     roundID,
		Frequency:   frequency,
		Period:      period,
		Date:        domain.FormatDate(date),
		BTCPriceUSD: price.Price,
		NextPeriod:  period,
	}
	logger.Info("Withdrawal round started", "period", period, "date", report.Date, "btc_price", price.Price.String())

	results, err := s.withdrawal.WithdrawAllActive(ctx, frequency, price.Price, date)
	report.Results = results
	if err != nil {
		logger.Error("Withdrawal round incomplete, clock not advanced", "processed", len(results), "error", err)
		return report, s.fail(frequency, fmt.Errorf("run round: %w", err))
	}

	next, err := s.clock.Advance(ctx, frequency)
	if err != nil {
		return report, s.fail(frequency, fmt.Errorf("run round: %w", err))
	}
	report.NextPeriod = next

	metrics.RoundsTotal.WithLabelValues(string(frequency), "success").Inc()
	logger.Info("Withdrawal round completed", "processed", len(results), "next_period", next)
	return report, nil
}

func (s *roundService) fail(frequency domain.Frequency, err error) error {
	metrics.RoundsTotal.WithLabelValues(string(frequency), "failed").Inc()
	return err
}
