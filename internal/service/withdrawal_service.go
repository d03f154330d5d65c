// internal/service/withdrawal_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"btc-retire/internal/domain"
	"btc-retire/internal/metrics"
	"btc-retire/internal/repository"
	"btc-retire/internal/util"
	"btc-retire/pkg/db"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// WithdrawalService converts periodic USD targets into BTC debits.
type WithdrawalService interface {
	// WithdrawOne debits a single wallet. It returns nil, nil when the
	// wallet is not active or already has an entry for date.
	WithdrawOne(ctx context.Context, wallet *domain.Wallet, btcPrice decimal.Decimal, date time.Time) (*domain.WithdrawalResult, error)
	// WithdrawAllActive debits every active wallet of frequency. Per-wallet
	// failures do not stop the remaining wallets; they are joined under
	// util.ErrRoundIncomplete and returned alongside the successful results.
	WithdrawAllActive(ctx context.Context, frequency domain.Frequency, btcPrice decimal.Decimal, date time.Time) ([]domain.WithdrawalResult, error)
}

type withdrawalService struct {
	dbBeginner      db.DBTxBeginner
	dbExecutor      repository.DBExecutor
	walletRepo      repository.WalletRepository
	transactionRepo repository.TransactionRepository
	beginTx         db.BeginTxFunc
	commitTx        db.CommitTxFunc
	rollbackTx      db.RollbackTxFunc
	logger          *slog.Logger
}

// NewWithdrawalService creates a new instance of WithdrawalService.
func NewWithdrawalService(
	dbBeginner db.DBTxBeginner,
	dbExecutor repository.DBExecutor,
	walletRepo repository.WalletRepository,
	transactionRepo repository.TransactionRepository,
	beginTx db.BeginTxFunc,
	commitTx db.CommitTxFunc,
	rollbackTx db.RollbackTxFunc,
	logger *slog.Logger,
) WithdrawalService {
	return &withdrawalService{
		dbBeginner:      dbBeginner,
		dbExecutor:      dbExecutor,
		walletRepo:      walletRepo,
		transactionRepo: transactionRepo,
		beginTx:         beginTx,
		commitTx:        commitTx,
		rollbackTx:      rollbackTx,
		logger:          logger,
	}
}

// BTCTarget converts a USD amount into satoshis at price, rounding half up
// to the nearest satoshi. Any positive amount debits at least one satoshi.
func BTCTarget(usd, price decimal.Decimal) btcutil.Amount {
	sats := btcutil.Amount(usd.Shift(8).DivRound(price, 0).IntPart())
	if sats < 1 {
		sats = 1
	}
	return sats
}

// WithdrawOne records one period's withdrawal for wallet inside a single unit of work.
func (s *withdrawalService) WithdrawOne(ctx context.Context, wallet *domain.Wallet, btcPrice decimal.Decimal, date time.Time) (*domain.WithdrawalResult, error) {
	if !btcPrice.IsPositive() {
		return nil, util.ErrInvalidPrice
	}
	if !wallet.IsActive() {
		s.logger.Info("Skipping inactive wallet", "wallet_id", wallet.ID, "status", wallet.Status)
		return nil, nil
	}
	date = domain.DateOf(date)

	txController, err := s.beginTx(ctx, s.dbBeginner)
	if err != nil {
		return nil, fmt.Errorf("withdraw: failed to begin transaction: %w", err)
	}
	defer s.rollbackTx(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return nil, fmt.Errorf("withdraw: transaction controller does not implement DBExecutor")
	}

	// The caller's copy may be stale; decide on the row read inside the transaction.
	current, err := s.walletRepo.GetWalletByID(ctx, txExecutor, wallet.ID)
	if err != nil {
		return nil, fmt.Errorf("withdraw: failed to get wallet %d: %w", wallet.ID, err)
	}
	if !current.IsActive() {
		s.logger.Info("Skipping depleted wallet", "wallet_id", current.ID)
		return nil, nil
	}

	exists, err := s.transactionRepo.ExistsForDate(ctx, txExecutor, current.ID, date)
	if err != nil {
		return nil, fmt.Errorf("withdraw: %w", err)
	}
	if exists {
		s.logger.Info("Wallet already debited for date", "wallet_id", current.ID, "date", domain.FormatDate(date))
		return nil, nil
	}

	target := BTCTarget(current.PeriodicWithdrawalUSD, btcPrice)
	newBalance := current.CurrentBTC - target

	withdrawn, remaining := target, newBalance
	usdWithdrawn := current.PeriodicWithdrawalUSD
	status := domain.WalletStatusActive
	if newBalance <= 0 {
		withdrawn, remaining = current.CurrentBTC, 0
		usdWithdrawn = domain.BTC(current.CurrentBTC).Mul(btcPrice).Round(2)
		status = domain.WalletStatusDepleted
	}

	transaction := domain.NewTransaction(current.ID, date, btcPrice, withdrawn, remaining, usdWithdrawn)
	if err := s.transactionRepo.CreateTransaction(ctx, txExecutor, transaction); err != nil {
		return nil, fmt.Errorf("withdraw: failed to create transaction: %w", err)
	}
	if err := s.walletRepo.UpdateBalance(ctx, txExecutor, current.ID, remaining, status); err != nil {
		return nil, fmt.Errorf("withdraw: failed to update wallet balance: %w", err)
	}

	if err := s.commitTx(txController); err != nil {
		return nil, fmt.Errorf("withdraw: failed to commit transaction: %w", err)
	}

	metrics.WithdrawalsTotal.WithLabelValues(string(current.Frequency), string(status)).Inc()
	if status == domain.WalletStatusDepleted {
		s.logger.Info("Wallet depleted", "wallet_id", current.ID, "wallet", current.Name, "date", domain.FormatDate(date))
	}

	return &domain.WithdrawalResult{
		WalletID:      current.ID,
		WalletName:    current.Name,
		Status:        status,
		TransactionID: transaction.ID,
		Date:          domain.FormatDate(date),
		BTCWithdrawn:  domain.BTC(withdrawn),
		BTCRemaining:  domain.BTC(remaining),
		USDWithdrawn:  usdWithdrawn,
	}, nil
}

// WithdrawAllActive runs WithdrawOne over every active wallet of frequency,
// ordered by withdrawal amount and ID.
func (s *withdrawalService) WithdrawAllActive(ctx context.Context, frequency domain.Frequency, btcPrice decimal.Decimal, date time.Time) ([]domain.WithdrawalResult, error) {
	if !frequency.Valid() {
		return nil, util.ErrInvalidFrequency
	}
	if !btcPrice.IsPositive() {
		return nil, util.ErrInvalidPrice
	}

	wallets, err := s.walletRepo.ListActiveWallets(ctx, s.dbExecutor, frequency)
	if err != nil {
		return nil, fmt.Errorf("withdraw all: %w", err)
	}

	results := []domain.WithdrawalResult{}
	var errs []error
	for i := range wallets {
		wallet := &wallets[i]
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		result, err := s.WithdrawOne(ctx, wallet, btcPrice, date)
		if err != nil {
			metrics.WithdrawalErrors.WithLabelValues(string(frequency)).Inc()
			s.logger.Error("Withdrawal failed", "wallet_id", wallet.ID, "frequency", frequency, "error", err)
			errs = append(errs, fmt.Errorf("wallet %d: %w", wallet.ID, err))
			continue
		}
		if result != nil {
			results = append(results, *result)
		}
	}

	if len(errs) > 0 {
		return results, fmt.Errorf("%w: %w", util.ErrRoundIncomplete, errors.Join(errs...))
	}
	return results, nil
}
