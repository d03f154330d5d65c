// internal/service/helpers_test.go
package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"
	"btc-retire/internal/repository/sqlstore"
	"btc-retire/pkg/db"
	"btc-retire/pkg/db/dbtest"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testStartDate = time.Date(2025, time.October, 8, 0, 0, 0, 0, time.UTC)

// testEnv wires the services against a real in-memory SQLite database.
type testEnv struct {
	db           *sqlx.DB
	wallets      repository.WalletRepository
	transactions repository.TransactionRepository
	prices       repository.PriceRepository
	sim          repository.SimulationRepository

	clock    SimulationService
	engine   WithdrawalService
	walletSv WalletService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn := dbtest.NewSQLite(t)
	env := &testEnv{
		db:           conn,
		wallets:      sqlstore.NewWalletRepository(),
		transactions: sqlstore.NewTransactionRepository(),
		prices:       sqlstore.NewPriceRepository(),
		sim:          sqlstore.NewSimulationRepository(),
	}
	logger := discardLogger()

	env.clock = NewSimulationService(conn, conn, env.sim, env.wallets, testStartDate,
		db.BeginTx, db.CommitTx, db.RollbackTx, logger)
	env.engine = NewWithdrawalService(conn, conn, env.wallets, env.transactions,
		db.BeginTx, db.CommitTx, db.RollbackTx, logger)
	env.walletSv = NewWalletService(conn, conn, env.wallets, env.transactions, env.prices, env.sim,
		db.BeginTx, db.CommitTx, db.RollbackTx, logger)
	return env
}

// createWallet inserts a wallet and optionally overrides its balance.
func (e *testEnv) createWallet(t *testing.T, name string, f domain.Frequency, usd string, balance btcutil.Amount) *domain.Wallet {
	t.Helper()
	ctx := context.Background()

	w := domain.NewWallet(name, f, decimal.RequireFromString(usd), testStartDate)
	require.NoError(t, e.wallets.CreateWallet(ctx, e.db, w))

	if balance != domain.InitialFunding {
		status := domain.WalletStatusActive
		if balance == 0 {
			status = domain.WalletStatusDepleted
		}
		require.NoError(t, e.wallets.UpdateBalance(ctx, e.db, w.ID, balance, status))
		w.CurrentBTC, w.Status = balance, status
	}
	return w
}

func (e *testEnv) reload(t *testing.T, id int64) *domain.Wallet {
	t.Helper()
	w, err := e.wallets.GetWalletByID(context.Background(), e.db, id)
	require.NoError(t, err)
	return w
}

func (e *testEnv) countTransactions(t *testing.T, id int64) int64 {
	t.Helper()
	w, err := e.wallets.GetWalletWithCount(context.Background(), e.db, id)
	require.NoError(t, err)
	return w.TransactionCount
}

// staticPrices is a PriceSource returning a fixed price.
type staticPrices struct {
	price decimal.Decimal
	err   error
}

func (s staticPrices) WithdrawalPrice(ctx context.Context) (*domain.PriceSample, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PriceSample{Price: s.price, Timestamp: time.Now().UTC()}, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
