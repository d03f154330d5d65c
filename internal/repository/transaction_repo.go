// internal/repository/transaction_repo.go
package repository

import (
	"context"
	"time"

	"btc-retire/internal/domain"
)

// TransactionRepository defines the interface for ledger entry operations.
type TransactionRepository interface {
	// CreateTransaction appends a ledger entry and sets its ID.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// GetTransactionsByWalletID returns the wallet's ledger in ascending date order.
	GetTransactionsByWalletID(ctx context.Context, q DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, error)
	// ExistsForDate reports whether the wallet already has an entry for the simulated date.
	ExistsForDate(ctx context.Context, q DBExecutor, walletID int64, date time.Time) (bool, error)
	// DeleteAll removes every ledger entry.
	DeleteAll(ctx context.Context, q DBExecutor) error
}
