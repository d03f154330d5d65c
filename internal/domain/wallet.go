// internal/domain/wallet.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal" // For precise monetary calculations
)

// InitialFunding is the balance every wallet starts with (1 BTC).
const InitialFunding = btcutil.Amount(btcutil.SatoshiPerBitcoin)

// Frequency is the withdrawal frequency class of a wallet.
type Frequency string

const (
	FrequencyMonthly Frequency = "monthly"
	FrequencyWeekly  Frequency = "weekly"
)

// ParseFrequency validates a frequency name. Matching is case-insensitive.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case FrequencyMonthly:
		return FrequencyMonthly, nil
	case FrequencyWeekly:
		return FrequencyWeekly, nil
	default:
		return "", fmt.Errorf("unknown frequency %q", s)
	}
}

// Valid reports whether f is one of the known frequency classes.
func (f Frequency) Valid() bool {
	return f == FrequencyMonthly || f == FrequencyWeekly
}

// WalletStatus is the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive   WalletStatus = "active"
	WalletStatusDepleted WalletStatus = "depleted" // Terminal
)

// Wallet represents a simulated retirement wallet.
type Wallet struct {
	ID                    int64           `db:"id" json:"id"`
	Name                  string          `db:"name" json:"name"`
	Frequency             Frequency       `db:"withdrawal_frequency" json:"withdrawal_frequency"` // Immutable after creation
	PeriodicWithdrawalUSD decimal.Decimal `db:"periodic_withdrawal_usd" json:"periodic_withdrawal_usd"`
	CurrentBTC            btcutil.Amount  `db:"current_sats" json:"-"` // Satoshis
	Status                WalletStatus    `db:"status" json:"status"`
	StartDate             time.Time       `db:"start_date" json:"start_date"` // Calendar date period 0 began
	CreatedAt             time.Time       `db:"created_at" json:"created_at"`
}

// NewWallet creates an active wallet funded with InitialFunding.
func NewWallet(name string, frequency Frequency, periodicUSD decimal.Decimal, startDate time.Time) *Wallet {
	return &Wallet{
		Name:                  name,
		Frequency:             frequency,
		PeriodicWithdrawalUSD: periodicUSD,
		CurrentBTC:            InitialFunding,
		Status:                WalletStatusActive,
		StartDate:             DateOf(startDate),
		CreatedAt:             time.Now().UTC(),
	}
}

// IsActive reports whether the wallet can still be debited.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// CheckInvariant verifies that status is depleted exactly when the balance is zero.
func (w *Wallet) CheckInvariant() error {
	depleted := w.Status == WalletStatusDepleted
	if depleted != (w.CurrentBTC == 0) {
		return fmt.Errorf("wallet %d: status %q inconsistent with balance %s", w.ID, w.Status, w.CurrentBTC)
	}
	if w.CurrentBTC < 0 {
		return fmt.Errorf("wallet %d: negative balance %s", w.ID, w.CurrentBTC)
	}
	return nil
}

// BTC converts a satoshi amount into an exact 8-decimal BTC value.
func BTC(a btcutil.Amount) decimal.Decimal {
	return decimal.New(int64(a), -8)
}

// WalletSeed describes a wallet created at bootstrap.
type WalletSeed struct {
	Name          string          `yaml:"name"`
	Frequency     Frequency       `yaml:"frequency"`
	WithdrawalUSD decimal.Decimal `yaml:"withdrawal_usd"`
}

// WalletWithCount is a wallet read together with the number of its ledger
// entries in a single statement.
type WalletWithCount struct {
	Wallet
	TransactionCount int64 `db:"transaction_count"`
}
