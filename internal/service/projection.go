// internal/service/projection.go
package service

import (
	"btc-retire/internal/domain"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Project augments a wallet with read-only analytics. It performs no I/O,
// so identical inputs always yield identical summaries.
// earliest and latest are the oldest and newest recorded BTC prices; either
// may be invalid when no price history exists yet.
func Project(w *domain.Wallet, transactionCount int64, earliest, latest decimal.NullDecimal) domain.WalletSummary {
	balance := domain.BTC(w.CurrentBTC)

	summary := domain.WalletSummary{
		ID:                    w.ID,
		Name:                  w.Name,
		Frequency:             w.Frequency,
		PeriodicWithdrawalUSD: w.PeriodicWithdrawalUSD,
		CurrentBTC:            balance,
		Status:                w.Status,
		StartDate:             domain.FormatDate(w.StartDate),
		PeriodsElapsed:        transactionCount,
		PercentRemaining:      balance.Div(domain.BTC(domain.InitialFunding)).Mul(hundred).Round(1),
		InitialPurchasePrice:  earliest,
		CurrentPrice:          latest,
	}

	if latest.Valid {
		summary.USDEquivalent = decimal.NewNullDecimal(balance.Mul(latest.Decimal).Round(2))
	}
	summary.PeriodsUntilDepletion = PeriodsUntilDepletion(w.CurrentBTC, w.PeriodicWithdrawalUSD, latest)
	return summary
}

// PeriodsUntilDepletion is floor(balance / (usd / price)), a linear projection
// that assumes price and withdrawal amount stay constant. It returns nil when
// the balance, price or withdrawal amount is not positive.
func PeriodsUntilDepletion(balance btcutil.Amount, usd decimal.Decimal, latest decimal.NullDecimal) *int64 {
	if balance <= 0 || !latest.Valid || !latest.Decimal.IsPositive() || !usd.IsPositive() {
		return nil
	}
	// balance / (usd / price) == balance * price / usd, without the rounded intermediate.
	n := domain.BTC(balance).Mul(latest.Decimal).Div(usd).Floor().IntPart()
	return &n
}
