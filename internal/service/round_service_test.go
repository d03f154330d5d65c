// internal/service/round_service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"btc-retire/internal/collector"
	"btc-retire/internal/domain"
	"btc-retire/internal/util"
	"btc-retire/pkg/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRound(t *testing.T) {
	ctx := context.Background()

	t.Run("DebitsThenAdvances", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.walletSv.SeedWallets(ctx, testSeeds, testStartDate)
		require.NoError(t, err)
		rounds := NewRoundService(env.clock, env.engine, staticPrices{price: dec("50000")}, discardLogger())

		report, err := rounds.RunRound(ctx, domain.FrequencyMonthly)
		require.NoError(t, err)
		assert.NotEmpty(t, report.RoundID)
		assert.Equal(t, 0, report.Period)
		assert.Equal(t, 1, report.NextPeriod)
		assert.Equal(t, "2025-10-08", report.Date)
		assert.Len(t, report.Results, 2)

		report, err = rounds.RunRound(ctx, domain.FrequencyMonthly)
		require.NoError(t, err)
		assert.Equal(t, "2025-11-08", report.Date)

		weekly, err := env.clock.CurrentPeriod(ctx, domain.FrequencyWeekly)
		require.NoError(t, err)
		assert.Equal(t, 0, weekly)
	})

	t.Run("PriceFailureLeavesClock", func(t *testing.T) {
		env := newTestEnv(t)
		rounds := NewRoundService(env.clock, env.engine, staticPrices{err: util.ErrNoPrice}, discardLogger())

		_, err := rounds.RunRound(ctx, domain.FrequencyWeekly)
		assert.ErrorIs(t, err, util.ErrNoPrice)

		period, err := env.clock.CurrentPeriod(ctx, domain.FrequencyWeekly)
		require.NoError(t, err)
		assert.Equal(t, 0, period)
	})

	t.Run("InvalidPriceLeavesClock", func(t *testing.T) {
		env := newTestEnv(t)
		env.createWallet(t, "Good help", domain.FrequencyMonthly, "1000", domain.InitialFunding)
		rounds := NewRoundService(env.clock, env.engine, staticPrices{price: dec("0")}, discardLogger())

		_, err := rounds.RunRound(ctx, domain.FrequencyMonthly)
		assert.ErrorIs(t, err, util.ErrInvalidPrice)

		period, err := env.clock.CurrentPeriod(ctx, domain.FrequencyMonthly)
		require.NoError(t, err)
		assert.Equal(t, 0, period)
	})

	t.Run("IncompleteRoundIsRetryable", func(t *testing.T) {
		env := newTestEnv(t)
		env.createWallet(t, "Good help", domain.FrequencyMonthly, "1000", domain.InitialFunding)
		env.createWallet(t, "Boost life quality", domain.FrequencyMonthly, "2000", domain.InitialFunding)

		flaky := &flakyWalletRepo{WalletRepository: env.wallets, failID: 2}
		engine := NewWithdrawalService(env.db, env.db, flaky, env.transactions,
			db.BeginTx, db.CommitTx, db.RollbackTx, discardLogger())
		rounds := NewRoundService(env.clock, engine, staticPrices{price: dec("50000")}, discardLogger())

		report, err := rounds.RunRound(ctx, domain.FrequencyMonthly)
		require.ErrorIs(t, err, util.ErrRoundIncomplete)
		assert.Len(t, report.Results, 1)
		assert.Equal(t, 0, report.NextPeriod)

		// The retry only debits the wallet that failed.
		flaky.failID = 0
		report, err = rounds.RunRound(ctx, domain.FrequencyMonthly)
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		assert.Equal(t, int64(2), report.Results[0].WalletID)
		assert.Equal(t, "2025-10-08", report.Date)
		assert.Equal(t, int64(1), env.countTransactions(t, 1))
		assert.Equal(t, int64(1), env.countTransactions(t, 2))
	})

	t.Run("InvalidFrequency", func(t *testing.T) {
		env := newTestEnv(t)
		rounds := NewRoundService(env.clock, env.engine, staticPrices{price: dec("50000")}, discardLogger())
		_, err := rounds.RunRound(ctx, domain.Frequency("daily"))
		assert.ErrorIs(t, err, util.ErrInvalidFrequency)
	})
}

// TestRunRound_LedgerInvariants drives wallets to depletion and checks the
// ledger after every round.
func TestRunRound_LedgerInvariants(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	seeds := []domain.WalletSeed{
		{Name: "Fast", Frequency: domain.FrequencyWeekly, WithdrawalUSD: dec("15000")},
		{Name: "Faster", Frequency: domain.FrequencyWeekly, WithdrawalUSD: dec("22000")},
	}
	_, err := env.walletSv.SeedWallets(ctx, seeds, testStartDate)
	require.NoError(t, err)
	rounds := NewRoundService(env.clock, env.engine, staticPrices{price: dec("50000")}, discardLogger())

	for i := 0; i < 6; i++ {
		_, err := rounds.RunRound(ctx, domain.FrequencyWeekly)
		require.NoError(t, err)

		wallets, err := env.wallets.ListWallets(ctx, env.db, domain.FrequencyWeekly)
		require.NoError(t, err)
		for _, w := range wallets {
			require.NoError(t, w.CheckInvariant())

			history, err := env.transactions.GetTransactionsByWalletID(ctx, env.db, w.ID, 0, 0)
			require.NoError(t, err)
			for j := 1; j < len(history); j++ {
				assert.Less(t, history[j].BTCRemaining, history[j-1].BTCRemaining)
				assert.True(t, history[j].Date.After(history[j-1].Date))
			}
			if len(history) > 0 {
				last := history[len(history)-1]
				assert.Equal(t, w.Status == domain.WalletStatusDepleted, last.BTCRemaining == 0)
				assert.Equal(t, w.CurrentBTC, last.BTCRemaining)
			}
		}
	}

	// 0.3 BTC per week lasts four rounds, 0.44 BTC per week three.
	for _, w := range []int64{1, 2} {
		assert.Equal(t, domain.WalletStatusDepleted, env.reload(t, w).Status)
	}
	assert.Equal(t, int64(4), env.countTransactions(t, 1))
	assert.Equal(t, int64(3), env.countTransactions(t, 2))

	period, err := env.clock.CurrentPeriod(ctx, domain.FrequencyWeekly)
	require.NoError(t, err)
	assert.Equal(t, 6, period)
}

// countingClock records Advance calls to observe round serialisation.
type countingClock struct {
	SimulationService
	mu       sync.Mutex
	inFlight int
	maxSeen  int
}

func (c *countingClock) CurrentPeriod(ctx context.Context, f domain.Frequency) (int, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.maxSeen {
		c.maxSeen = c.inFlight
	}
	c.mu.Unlock()
	return c.SimulationService.CurrentPeriod(ctx, f)
}

func (c *countingClock) Advance(ctx context.Context, f domain.Frequency) (int, error) {
	defer func() {
		c.mu.Lock()
		c.inFlight--
		c.mu.Unlock()
	}()
	return c.SimulationService.Advance(ctx, f)
}

func TestRunRound_SerialisedPerFrequency(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.createWallet(t, "Good help", domain.FrequencyMonthly, "1000", domain.InitialFunding)

	clock := &countingClock{SimulationService: env.clock}
	rounds := NewRoundService(clock, env.engine, staticPrices{price: dec("50000")}, discardLogger())

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := rounds.RunRound(ctx, domain.FrequencyMonthly)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	assert.Equal(t, 1, clock.maxSeen)
	period, err := env.clock.CurrentPeriod(ctx, domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.Equal(t, 5, period)
	assert.Equal(t, int64(5), env.countTransactions(t, 1))
}

func TestRunRound_WithCollectorPrice(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, err := env.walletSv.SeedWallets(ctx, testSeeds, testStartDate)
	require.NoError(t, err)

	fetcher := &collector.MockFetcher{Price: dec("50000")}
	prices := collector.NewCollector(fetcher, env.prices, env.db, nil, time.Hour, discardLogger())
	rounds := NewRoundService(env.clock, env.engine, prices, discardLogger())

	_, err = prices.Latest(ctx)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := rounds.RunRound(ctx, domain.FrequencyMonthly)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), fetcher.Calls(), "rounds within the hour reuse the stored price")

	// The price source is down, but the stored sample is still fresh.
	fetcher.Err = errors.New("429 too many requests")
	report, err := rounds.RunRound(ctx, domain.FrequencyMonthly)
	require.NoError(t, err)
	assert.True(t, report.BTCPriceUSD.Equal(dec("50000")))
	assert.Equal(t, 4, report.NextPeriod)
	assert.Equal(t, int64(4), env.countTransactions(t, 1))
}
