// internal/domain/summary.go
package domain

import (
	"github.com/shopspring/decimal"
)

// WalletSummary is a wallet augmented with read-only projection fields.
type WalletSummary struct {
	ID                    int64           `json:"id"`
	Name                  string          `json:"name"`
	Frequency             Frequency       `json:"withdrawal_frequency"`
	PeriodicWithdrawalUSD decimal.Decimal `json:"periodic_withdrawal_usd"`
	CurrentBTC            decimal.Decimal `json:"current_btc"`
	Status                WalletStatus    `json:"status"`
	StartDate             string          `json:"start_date"`

	PeriodsElapsed        int64               `json:"periods_elapsed"`
	PercentRemaining      decimal.Decimal     `json:"percent_remaining"`
	USDEquivalent         decimal.NullDecimal `json:"usd_equivalent"`
	PeriodsUntilDepletion *int64              `json:"periods_until_depletion"`
	InitialPurchasePrice  decimal.NullDecimal `json:"initial_btc_price"`
	CurrentPrice          decimal.NullDecimal `json:"current_btc_price"`
}
