// internal/repository/sqlstore/transaction_store.go
package sqlstore

import (
	"context"
	"fmt"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for SQLite and PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := q.Rebind(`INSERT INTO transactions (wallet_id, date, btc_price_usd, sats_withdrawn, sats_remaining, usd_withdrawn, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)

	err := q.QueryRowContext(ctx, query,
		transaction.WalletID,
		transaction.Date.UTC(),
		transaction.BTCPriceUSD,
		int64(transaction.BTCWithdrawn),
		int64(transaction.BTCRemaining),
		transaction.USDWithdrawn,
		transaction.CreatedAt.UTC(),
	).Scan(&transaction.ID)

	if err != nil {
		return fmt.Errorf("failed to create transaction for wallet %d: %w", transaction.WalletID, err)
	}
	return nil
}

// GetTransactionsByWalletID retrieves a wallet's ledger in ascending date order.
// A non-positive limit returns every entry.
func (r *TransactionRepository) GetTransactionsByWalletID(ctx context.Context, q repository.DBExecutor, walletID int64, limit, offset int) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}

	query := `
		SELECT id, wallet_id, date, btc_price_usd, sats_withdrawn, sats_remaining, usd_withdrawn, created_at
		FROM transactions
		WHERE wallet_id = ?
		ORDER BY date ASC, id ASC`
	args := []interface{}{walletID}
	if limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, limit, offset)
	}

	if err := q.SelectContext(ctx, &transactions, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for wallet %d: %w", walletID, err)
	}
	return transactions, nil
}

// ExistsForDate reports whether the wallet already has an entry for date.
func (r *TransactionRepository) ExistsForDate(ctx context.Context, q repository.DBExecutor, walletID int64, date time.Time) (bool, error) {
	var n int64
	query := q.Rebind(`SELECT COUNT(*) FROM transactions WHERE wallet_id = ? AND date = ?`)
	if err := q.GetContext(ctx, &n, query, walletID, domain.DateOf(date)); err != nil {
		return false, fmt.Errorf("failed to check transaction for wallet %d on %s: %w", walletID, domain.FormatDate(date), err)
	}
	return n > 0, nil
}

// DeleteAll removes every ledger entry.
func (r *TransactionRepository) DeleteAll(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}
	return nil
}
