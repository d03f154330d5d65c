// internal/service/simulation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/metrics"
	"btc-retire/internal/repository"
	"btc-retire/internal/util"
	"btc-retire/pkg/db"
)

// SimulationService is the simulation clock: one period counter per
// frequency class and the calendar date derived from it.
type SimulationService interface {
	CurrentPeriod(ctx context.Context, frequency domain.Frequency) (int, error)
	NextWithdrawalDate(ctx context.Context, frequency domain.Frequency) (time.Time, error)
	Advance(ctx context.Context, frequency domain.Frequency) (int, error)
	Reset(ctx context.Context) error
	Status(ctx context.Context) (*domain.SimulationStatus, error)
}

type simulationService struct {
	dbBeginner       db.DBTxBeginner
	dbExecutor       repository.DBExecutor
	simRepo          repository.SimulationRepository
	walletRepo       repository.WalletRepository
	defaultStartDate time.Time
	beginTx          db.BeginTxFunc
	commitTx         db.CommitTxFunc
	rollbackTx       db.RollbackTxFunc
	logger           *slog.Logger

	advanceMu map[domain.Frequency]*sync.Mutex
}

// NewSimulationService creates a new SimulationService. defaultStartDate is
// used only while no wallet exists to supply the canonical start date.
func NewSimulationService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	simRepo repository.SimulationRepository,
	walletRepo repository.WalletRepository,
	defaultStartDate time.Time,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) SimulationService {
	return &simulationService{
		dbBeginner:       dbBeginner,
		dbExecutor:       dbExecutor,
		simRepo:          simRepo,
		walletRepo:       walletRepo,
		defaultStartDate: domain.DateOf(defaultStartDate),
		beginTx:          beginTx,
		commitTx:         commitTx,
		rollbackTx:       rollbackTx,
		logger:           logger,
		advanceMu: map[domain.Frequency]*sync.Mutex{
			domain.FrequencyMonthly: {},
			domain.FrequencyWeekly:  {},
		},
	}
}

// CurrentPeriod returns the counter for frequency.
func (s *simulationService) CurrentPeriod(ctx context.Context, frequency domain.Frequency) (int, error) {
	if !frequency.Valid() {
		return 0, util.ErrInvalidFrequency
	}
	state, err := s.simRepo.GetState(ctx, s.dbExecutor)
	if err != nil {
		return 0, fmt.Errorf("current period: %w", err)
	}
	return state.Period(frequency)
}

// NextWithdrawalDate derives the simulated date for the current period.
func (s *simulationService) NextWithdrawalDate(ctx context.Context, frequency domain.Frequency) (time.Time, error) {
	period, err := s.CurrentPeriod(ctx, frequency)
	if err != nil {
		return time.Time{}, err
	}
	start, err := s.startDate(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("next withdrawal date: %w", err)
	}
	return domain.PeriodDate(start, frequency, period)
}

// Advance increments the counter for frequency by one and returns the new value.
func (s *simulationService) Advance(ctx context.Context, frequency domain.Frequency) (int, error) {
	if !frequency.Valid() {
		return 0, util.ErrInvalidFrequency
	}
	mu := s.advanceMu[frequency]
	mu.Lock()
	defer mu.Unlock()

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("advance: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("advance: transaction controller does not implement DBExecutor")
	}

	state, err := s.simRepo.Increment(ctx, txExecutor, frequency)
	if err != nil {
		return 0, fmt.Errorf("advance: %w", err)
	}
	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("advance: failed to commit transaction: %w", err)
	}

	period, err := state.Period(frequency)
	if err != nil {
		return 0, err
	}
	metrics.SimulationPeriod.WithLabelValues(string(frequency)).Set(float64(period))
	s.logger.Info("Simulation clock advanced", "frequency", frequency, "period", period)
	return period, nil
}

// Reset sets both counters to zero. Wallets and their ledgers are untouched.
func (s *simulationService) Reset(ctx context.Context) error {
	if err := s.simRepo.Reset(ctx, s.dbExecutor); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	for f := range s.advanceMu {
		metrics.SimulationPeriod.WithLabelValues(string(f)).Set(0)
	}
	s.logger.Info("Simulation clock reset")
	return nil
}

// Status reports both counters and their next withdrawal dates.
func (s *simulationService) Status(ctx context.Context) (*domain.SimulationStatus, error) {
	state, err := s.simRepo.GetState(ctx, s.dbExecutor)
	if err != nil {
		return nil, fmt.Errorf("simulation status: %w", err)
	}
	start, err := s.startDate(ctx)
	if err != nil {
		return nil, fmt.Errorf("simulation status: %w", err)
	}

	monthly, _ := domain.PeriodDate(start, domain.FrequencyMonthly, state.CurrentMonth)
	weekly, _ := domain.PeriodDate(start, domain.FrequencyWeekly, state.CurrentWeek)
	return &domain.SimulationStatus{
		CurrentMonth:    state.CurrentMonth,
		CurrentWeek:     state.CurrentWeek,
		NextMonthlyDate: domain.FormatDate(monthly),
		NextWeeklyDate:  domain.FormatDate(weekly),
	}, nil
}

// startDate is the canonical start date shared by all wallets: the first
// wallet's, or the configured default before bootstrap.
func (s *simulationService) startDate(ctx context.Context) (time.Time, error) {
	wallet, err := s.walletRepo.FirstWallet(ctx, s.dbExecutor)
	if err != nil {
		if errors.Is(err, util.ErrWalletNotFound) {
			return s.defaultStartDate, nil
		}
		return time.Time{}, err
	}
	return domain.DateOf(wallet.StartDate), nil
}
