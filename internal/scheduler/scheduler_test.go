// internal/scheduler/scheduler_test.go
package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"btc-retire/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRounds struct {
	mu    sync.Mutex
	calls []domain.Frequency
	err   error
}

func (f *fakeRounds) RunRound(_ context.Context, frequency domain.Frequency) (*domain.RoundReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, frequency)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RoundReport{RoundID: "r", Frequency: frequency}, nil
}

type fakePrices struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePrices) Refresh(context.Context) (*domain.PriceSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return &domain.PriceSample{Price: decimal.NewFromInt(50000), Timestamp: time.Now()}, nil
}

func newTestScheduler(rounds *fakeRounds, prices *fakePrices) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewScheduler(context.Background(), time.UTC, rounds, prices, logger)
}

func TestRegisterAll(t *testing.T) {
	s := newTestScheduler(&fakeRounds{}, &fakePrices{})
	require.NoError(t, s.RegisterAll("0 0 0 8 * *", "0 0 0 * * 3", "0 0 * * * *"))
	entries := s.Cron.Entries()
	require.Len(t, entries, 3)

	// The monthly job fires on the 8th at midnight UTC.
	from := time.Date(2025, time.October, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.November, 8, 0, 0, 0, 0, time.UTC), entries[0].Schedule.Next(from))
	// The weekly job fires on Wednesdays.
	assert.Equal(t, time.Wednesday, entries[1].Schedule.Next(from).Weekday())
}

func TestRegisterAll_InvalidCronExpression(t *testing.T) {
	s := newTestScheduler(&fakeRounds{}, &fakePrices{})
	assert.Error(t, s.RegisterAll("not a cron", "0 0 0 * * 3", "0 0 * * * *"))
}

func TestTasksDispatch(t *testing.T) {
	rounds := &fakeRounds{}
	prices := &fakePrices{}
	s := newTestScheduler(rounds, prices)

	s.monthlyTask()
	s.weeklyTask()
	s.RefreshPriceNow()

	assert.Equal(t, []domain.Frequency{domain.FrequencyMonthly, domain.FrequencyWeekly}, rounds.calls)
	assert.Equal(t, 1, prices.calls)
}

func TestRoundFailureIsLogged(t *testing.T) {
	rounds := &fakeRounds{err: errors.New("boom")}
	s := newTestScheduler(rounds, &fakePrices{})

	assert.NotPanics(t, s.monthlyTask)
	assert.Len(t, rounds.calls, 1)
}

func TestStartStop(t *testing.T) {
	s := newTestScheduler(&fakeRounds{}, &fakePrices{})
	require.NoError(t, s.RegisterAll("0 0 0 8 * *", "0 0 0 * * 3", "0 0 * * * *"))
	s.Start()
	s.Stop()
}
