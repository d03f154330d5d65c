// internal/repository/sqlstore/wallet_store.go
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"
	"btc-retire/internal/util"

	"github.com/btcsuite/btcd/btcutil"
)

const walletColumns = `id, name, withdrawal_frequency, periodic_withdrawal_usd, current_sats, status, start_date, created_at`

// WalletRepository implements repository.WalletRepository for SQLite and PostgreSQL.
type WalletRepository struct{}

// NewWalletRepository creates a new WalletRepository.
func NewWalletRepository() repository.WalletRepository {
	return &WalletRepository{}
}

// CreateWallet inserts a new wallet using the provided DBExecutor.
func (r *WalletRepository) CreateWallet(ctx context.Context, q repository.DBExecutor, wallet *domain.Wallet) error {
	query := q.Rebind(`INSERT INTO wallets (name, withdrawal_frequency, periodic_withdrawal_usd, current_sats, status, start_date, created_at)
              VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	err := q.QueryRowContext(ctx, query,
		wallet.Name,
		string(wallet.Frequency),
		wallet.PeriodicWithdrawalUSD,
		int64(wallet.CurrentBTC),
		string(wallet.Status),
		wallet.StartDate.UTC(),
		wallet.CreatedAt.UTC(),
	).Scan(&wallet.ID)
	if err != nil {
		return fmt.Errorf("failed to create wallet %q: %w", wallet.Name, err)
	}
	return nil
}

// GetWalletByID retrieves a wallet by its ID using the provided DBExecutor.
func (r *WalletRepository) GetWalletByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.Wallet, error) {
	var wallet domain.Wallet
	query := q.Rebind(`SELECT ` + walletColumns + ` FROM wallets WHERE id = ?`)
	err := q.GetContext(ctx, &wallet, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID %d: %w", id, err)
	}
	return &wallet, nil
}

// walletWithCountQuery joins each wallet with its ledger size so balance and
// count come from the same statement snapshot.
const walletWithCountQuery = `SELECT w.id, w.name, w.withdrawal_frequency, w.periodic_withdrawal_usd,
		w.current_sats, w.status, w.start_date, w.created_at, COUNT(t.id) AS transaction_count
	FROM wallets w
	LEFT JOIN transactions t ON t.wallet_id = w.id`

// GetWalletWithCount retrieves a wallet with its transaction count.
func (r *WalletRepository) GetWalletWithCount(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WalletWithCount, error) {
	var wallet domain.WalletWithCount
	query := q.Rebind(walletWithCountQuery + ` WHERE w.id = ? GROUP BY w.id`)
	err := q.GetContext(ctx, &wallet, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet by ID %d: %w", id, err)
	}
	return &wallet, nil
}

// ListWallets lists wallets with their transaction counts, optionally filtered by frequency.
func (r *WalletRepository) ListWallets(ctx context.Context, q repository.DBExecutor, frequency domain.Frequency) ([]domain.WalletWithCount, error) {
	wallets := []domain.WalletWithCount{}
	query := walletWithCountQuery
	var args []interface{}
	if frequency != "" {
		query += ` WHERE w.withdrawal_frequency = ?`
		args = append(args, string(frequency))
	}
	query += ` GROUP BY w.id ORDER BY w.withdrawal_frequency, CAST(w.periodic_withdrawal_usd AS REAL), w.id`

	if err := q.SelectContext(ctx, &wallets, q.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	return wallets, nil
}

// ListActiveWallets lists the active wallets of one frequency class.
func (r *WalletRepository) ListActiveWallets(ctx context.Context, q repository.DBExecutor, frequency domain.Frequency) ([]domain.Wallet, error) {
	wallets := []domain.Wallet{}
	query := q.Rebind(`SELECT ` + walletColumns + ` FROM wallets
		WHERE withdrawal_frequency = ? AND status = ?
		ORDER BY CAST(periodic_withdrawal_usd AS REAL), id`)
	err := q.SelectContext(ctx, &wallets, query, string(frequency), string(domain.WalletStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list active %s wallets: %w", frequency, err)
	}
	return wallets, nil
}

// UpdateBalance sets the balance and status of a specific wallet using the provided DBExecutor.
func (r *WalletRepository) UpdateBalance(ctx context.Context, q repository.DBExecutor, walletID int64, balance btcutil.Amount, status domain.WalletStatus) error {
	query := q.Rebind(`UPDATE wallets SET current_sats = ?, status = ? WHERE id = ?`)
	result, err := q.ExecContext(ctx, query, int64(balance), string(status), walletID)
	if err != nil {
		return fmt.Errorf("failed to update wallet balance for ID %d: %w", walletID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating wallet balance for ID %d: %w", walletID, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("update balance of wallet %d: %w", walletID, util.ErrWalletNotFound)
	}
	return nil
}

// FirstWallet returns the wallet with the lowest ID.
func (r *WalletRepository) FirstWallet(ctx context.Context, q repository.DBExecutor) (*domain.Wallet, error) {
	var wallet domain.Wallet
	err := q.GetContext(ctx, &wallet, `SELECT `+walletColumns+` FROM wallets ORDER BY id LIMIT 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get first wallet: %w", err)
	}
	return &wallet, nil
}

// DeleteAll removes every wallet.
func (r *WalletRepository) DeleteAll(ctx context.Context, q repository.DBExecutor) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM wallets`); err != nil {
		return fmt.Errorf("failed to delete wallets: %w", err)
	}
	return nil
}
