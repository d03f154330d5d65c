// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

func (m *MockDBExecutor) Rebind(query string) string {
	return query
}

// MockWalletRepository is a mock implementation of repository.WalletRepository.
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	args := m.Called(ctx, q, wallet)
	return args.Error(0)
}

func (m *MockWalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) GetWalletWithCount(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WalletWithCount, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WalletWithCount), args.Error(1)
}

func (m *MockWalletRepository) ListWallets(ctx context.Context, q repository.DBExecutor, frequency domain.Frequency) ([]domain.WalletWithCount, error) {
	args := m.Called(ctx, q, frequency)
	return args.Get(0).([]domain.WalletWithCount), args.Error(1)
}

func (m *MockWalletRepository) ListActiveWallets(ctx context.Context, q repository.DBExecutor, frequency domain.Frequency) ([]domain.Wallet, error) {
	args := m.Called(ctx, q, frequency)
	return args.Get(0).([]domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) UpdateBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance btcutil.Amount, status domain.WalletStatus) error {
	args := m.Called(ctx, q, walletID, balance, status)
	return args.Error(0)
}

func (m *MockWalletRepository) FirstWallet(ctx context.Context, q repository.DBExecutor) (*domain.Wallet, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) DeleteAll(ctx context.Context, q repository.DBExecutor) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, walletID, limit, offset)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ExistsForDate(ctx context.Context, q repository.DBExecutor, walletID int64, date time.Time) (bool, error) {
	args := m.Called(ctx, q, walletID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) DeleteAll(ctx context.Context, q repository.DBExecutor) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

// MockDBBeginner is a mock implementation of db.DBTxBeginner.
type MockDBBeginner struct {
	mock.Mock
}

func (m *MockDBBeginner) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	args := m.Called(ctx, opts)
	return &sqlx.Tx{}, args.Error(1)
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}
