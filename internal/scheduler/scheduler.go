// internal/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/service"

	"github.com/robfig/cron/v3"
)

// PriceRefresher records a new price observation.
type PriceRefresher interface {
	Refresh(ctx context.Context) (*domain.PriceSample, error)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron   *cron.Cron
	Rounds service.RoundService
	Prices PriceRefresher
	Ctx    context.Context
	logger *slog.Logger
}

// NewScheduler creates a new Scheduler. Jobs run with ctx.
func NewScheduler(ctx context.Context, loc *time.Location, rounds service.RoundService, prices PriceRefresher, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Rounds: rounds,
		Prices: prices,
		Ctx:    ctx,
		logger: logger,
	}
}

// RegisterAll registers the monthly round, weekly round and price refresh.
func (s *Scheduler) RegisterAll(monthlyCron, weeklyCron, priceCron string) error {
	if _, err := s.Cron.AddFunc(monthlyCron, s.monthlyTask); err != nil {
		return fmt.Errorf("register monthly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	if _, err := s.Cron.AddFunc(priceCron, s.priceTask); err != nil {
		return fmt.Errorf("register price task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("Scheduler started", "jobs", len(s.Cron.Entries()))
}

// Stop stops the cron scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RefreshPriceNow fetches a price immediately (used on start).
func (s *Scheduler) RefreshPriceNow() {
	s.priceTask()
}

func (s *Scheduler) monthlyTask() {
	s.runRound(domain.FrequencyMonthly)
}

func (s *Scheduler) weeklyTask() {
	s.runRound(domain.FrequencyWeekly)
}

func (s *Scheduler) runRound(frequency domain.Frequency) {
	s.logger.Info("Running scheduled withdrawal round", "frequency", frequency)
	report, err := s.Rounds.RunRound(s.Ctx, frequency)
	if err != nil {
		// Scheduled path: log and wait for the next trigger.
		s.logger.Error("Scheduled withdrawal round failed", "frequency", frequency, "error", err)
		return
	}
	s.logger.Info("Scheduled withdrawal round done",
		"frequency", frequency, "round_id", report.RoundID, "processed", len(report.Results))
}

func (s *Scheduler) priceTask() {
	if _, err := s.Prices.Refresh(s.Ctx); err != nil {
		s.logger.Error("Scheduled price refresh failed", "error", err)
	}
}
