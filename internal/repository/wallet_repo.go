// internal/repository/wallet_repo.go
package repository

import (
	"context"

	"btc-retire/internal/domain"

	"github.com/btcsuite/btcd/btcutil"
)

// WalletRepository defines the interface for wallet data operations.
type WalletRepository interface {
	// CreateWallet adds a new wallet and sets its ID.
	CreateWallet(ctx context.Context, q DBExecutor, wallet *domain.Wallet) error
	// GetWalletByID retrieves a wallet by its ID. Returns util.ErrWalletNotFound when absent.
	GetWalletByID(ctx context.Context, q DBExecutor, id int64) (*domain.Wallet, error)
	// GetWalletWithCount retrieves a wallet and its ledger size in one read.
	GetWalletWithCount(ctx context.Context, q DBExecutor, id int64) (*domain.WalletWithCount, error)
	// ListWallets returns wallets with their ledger sizes, ordered by frequency,
	// withdrawal amount and ID. An empty frequency lists every wallet.
	ListWallets(ctx context.Context, q DBExecutor, frequency domain.Frequency) ([]domain.WalletWithCount, error)
	// ListActiveWallets returns the active wallets of one frequency class
	// ordered by withdrawal amount and ID.
	ListActiveWallets(ctx context.Context, q DBExecutor, frequency domain.Frequency) ([]domain.Wallet, error)
	// UpdateBalance sets the balance and status of a wallet.
	UpdateBalance(ctx context.Context, q DBExecutor, walletID int64, balance btcutil.Amount, status domain.WalletStatus) error
	// FirstWallet returns the wallet with the lowest ID.
	FirstWallet(ctx context.Context, q DBExecutor) (*domain.Wallet, error)
	// DeleteAll removes every wallet and, by cascade, its ledger.
	DeleteAll(ctx context.Context, q DBExecutor) error
}
