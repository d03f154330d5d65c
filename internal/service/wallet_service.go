// internal/service/wallet_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/repository"
	"btc-retire/internal/util"
	"btc-retire/pkg/db"

	"github.com/shopspring/decimal"
)

// WalletService defines the read path over the wallet ledger and its bootstrap.
type WalletService interface {
	ListWallets(ctx context.Context, frequency domain.Frequency) ([]domain.WalletSummary, error)
	GetWallet(ctx context.Context, walletID int64) (*domain.WalletSummary, error)
	GetTransactionHistory(ctx context.Context, walletID int64) ([]domain.TransactionView, error)
	// SeedWallets creates the seed wallets if the ledger is empty and
	// reports how many were created.
	SeedWallets(ctx context.Context, seeds []domain.WalletSeed, startDate time.Time) (int, error)
	// ResetLedger deletes every wallet, transaction and price sample,
	// reseeds the wallets and zeroes the clock in one unit of work.
	ResetLedger(ctx context.Context, seeds []domain.WalletSeed, startDate time.Time) error
}

// walletService implements the WalletService interface.
type walletService struct {
	dbBeginner      db.DBTxBeginner       // For starting transactions (e.g., *sqlx.DB)
	dbExecutor      repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	priceRepo       repository.PriceRepository
	simRepo         repository.SimulationRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewWalletService creates a new instance of WalletService.
func NewWalletService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	priceRepo repository.PriceRepository,
	simRepo repository.SimulationRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) WalletService {
	return &walletService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
		simRepo:         simRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		logger:          logger,
	}
}

// ListWallets returns projected summaries, optionally filtered by frequency.
func (s *walletService) ListWallets(ctx context.Context, frequency domain.Frequency) ([]domain.WalletSummary, error) {
	if frequency != "" && !frequency.Valid() {
		return nil, util.ErrInvalidFrequency
	}

	wallets, err := s.walletRepo.ListWallets(ctx, s.dbExecutor, frequency)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	earliest, latest, err := s.priceBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}

	summaries := make([]domain.WalletSummary, 0, len(wallets))
	for i := range wallets {
		summaries = append(summaries, Project(&wallets[i].Wallet, wallets[i].TransactionCount, earliest, latest))
	}
	return summaries, nil
}

// GetWallet returns one projected wallet summary.
func (s *walletService) GetWallet(ctx context.Context, walletID int64) (*domain.WalletSummary, error) {
	wallet, err := s.walletRepo.GetWalletWithCount(ctx, s.dbExecutor, walletID)
	if err != nil {
		return nil, fmt.Errorf("get wallet %d: %w", walletID, err)
	}
	earliest, latest, err := s.priceBounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("get wallet %d: %w", walletID, err)
	}

	summary := Project(&wallet.Wallet, wallet.TransactionCount, earliest, latest)
	return &summary, nil
}

// GetTransactionHistory returns the wallet's ledger ordered by date ascending.
func (s *walletService) GetTransactionHistory(ctx context.Context, walletID int64) ([]domain.TransactionView, error) {
	// First, check if the wallet exists
	if _, err := s.walletRepo.GetWalletByID(ctx, s.dbExecutor, walletID); err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	transactions, err := s.transactionRepo.GetTransactionsByWalletID(ctx, s.dbExecutor, walletID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction history: %w", err)
	}

	views := make([]domain.TransactionView, 0, len(transactions))
	for i := range transactions {
		views = append(views, transactions[i].View())
	}
	return views, nil
}

// SeedWallets bootstraps the ledger when it holds no wallet.
func (s *walletService) SeedWallets(ctx context.Context, seeds []domain.WalletSeed, startDate time.Time) (int, error) {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return 0, fmt.Errorf("seed wallets: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return 0, fmt.Errorf("seed wallets: transaction controller does not implement DBExecutor")
	}

	_, err = s.walletRepo.FirstWallet(ctx, txExecutor)
	if err == nil {
		return 0, nil
	}
	if !errors.Is(err, util.ErrWalletNotFound) {
		return 0, fmt.Errorf("seed wallets: failed to check existing wallets: %w", err)
	}

	if err := s.createWallets(ctx, txExecutor, seeds, startDate); err != nil {
		return 0, fmt.Errorf("seed wallets: %w", err)
	}
	if err := s.commitTx(txController); err != nil {
		return 0, fmt.Errorf("seed wallets: failed to commit transaction: %w", err)
	}

	s.logger.Info("Wallets seeded", "count", len(seeds), "start_date", domain.FormatDate(startDate))
	return len(seeds), nil
}

// ResetLedger re-bootstraps the whole ledger.
func (s *walletService) ResetLedger(ctx context.Context, seeds []domain.WalletSeed, startDate time.Time) error {
	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return fmt.Errorf("reset ledger: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("reset ledger: transaction controller does not implement DBExecutor")
	}

	if err := s.transactionRepo.DeleteAll(ctx, txExecutor); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if err := s.priceRepo.DeleteAll(ctx, txExecutor); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if err := s.walletRepo.DeleteAll(ctx, txExecutor); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if err := s.createWallets(ctx, txExecutor, seeds, startDate); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}
	if err := s.simRepo.Reset(ctx, txExecutor); err != nil {
		return fmt.Errorf("reset ledger: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return fmt.Errorf("reset ledger: failed to commit transaction: %w", err)
	}
	s.logger.Warn("Ledger reset", "wallets", len(seeds), "start_date", domain.FormatDate(startDate))
	return nil
}

func (s *walletService) createWallets(ctx context.Context, q repository.DBExecutor, seeds []domain.WalletSeed, startDate time.Time) error {
	for _, seed := range seeds {
		if !seed.Frequency.Valid() {
			return fmt.Errorf("wallet %q: %w", seed.Name, util.ErrInvalidFrequency)
		}
		if !seed.WithdrawalUSD.IsPositive() {
			return fmt.Errorf("wallet %q: withdrawal amount must be positive: %w", seed.Name, util.ErrInvalidInput)
		}
		wallet := domain.NewWallet(seed.Name, seed.Frequency, seed.WithdrawalUSD, startDate)
		if err := s.walletRepo.CreateWallet(ctx, q, wallet); err != nil {
			return err
		}
	}
	return nil
}

// priceBounds returns the earliest and latest stored prices, invalid when
// no price has been recorded.
func (s *walletService) priceBounds(ctx context.Context) (earliest, latest decimal.NullDecimal, err error) {
	first, err := s.priceRepo.EarliestPrice(ctx, s.dbExecutor)
	if err != nil {
		if errors.Is(err, util.ErrNoPrice) {
			return earliest, latest, nil
		}
		return earliest, latest, err
	}
	last, err := s.priceRepo.LatestPrice(ctx, s.dbExecutor)
	if err != nil {
		return earliest, latest, err
	}
	return decimal.NewNullDecimal(first.Price), decimal.NewNullDecimal(last.Price), nil
}
