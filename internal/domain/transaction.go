// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/shopspring/decimal"
)

// Transaction is an append-only ledger entry for one simulated withdrawal.
type Transaction struct {
	ID           int64           `db:"id" json:"id"`
	WalletID     int64           `db:"wallet_id" json:"wallet_id"`
	Date         time.Time       `db:"date" json:"date"` // Simulated date, not wall-clock
	BTCPriceUSD  decimal.Decimal `db:"btc_price_usd" json:"btc_price_usd"`
	BTCWithdrawn btcutil.Amount  `db:"sats_withdrawn" json:"-"`
	BTCRemaining btcutil.Amount  `db:"sats_remaining" json:"-"` // Balance immediately after this entry
	USDWithdrawn decimal.Decimal `db:"usd_withdrawn" json:"usd_withdrawn"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// NewTransaction creates a ledger entry stamped with the current wall-clock creation time.
func NewTransaction(walletID int64, date time.Time, price decimal.Decimal, withdrawn, remaining btcutil.Amount, usd decimal.Decimal) *Transaction {
	return &Transaction{
		WalletID:     walletID,
		Date:         DateOf(date),
		BTCPriceUSD:  price,
		BTCWithdrawn: withdrawn,
		BTCRemaining: remaining,
		USDWithdrawn: usd,
		CreatedAt:    time.Now().UTC(),
	}
}

// TransactionView is the presentation shape of a ledger entry.
type TransactionView struct {
	Date         string          `json:"date"`
	BTCPriceUSD  decimal.Decimal `json:"btc_price"`
	BTCWithdrawn decimal.Decimal `json:"btc_withdrawn"`
	BTCRemaining decimal.Decimal `json:"btc_remaining"`
	USDWithdrawn decimal.Decimal `json:"usd_withdrawn"`
}

// View renders the entry with BTC quantities in 8-decimal BTC units.
func (t *Transaction) View() TransactionView {
	return TransactionView{
		Date:         FormatDate(t.Date),
		BTCPriceUSD:  t.BTCPriceUSD,
		BTCWithdrawn: BTC(t.BTCWithdrawn),
		BTCRemaining: BTC(t.BTCRemaining),
		USDWithdrawn: t.USDWithdrawn,
	}
}

// WithdrawalResult is what the engine reports for one debited wallet.
type WithdrawalResult struct {
	WalletID      int64           `json:"wallet_id"`
	WalletName    string          `json:"wallet"`
	Status        WalletStatus    `json:"status"` // Status after the withdrawal
	TransactionID int64           `json:"transaction_id"`
	Date          string          `json:"date"`
	BTCWithdrawn  decimal.Decimal `json:"btc_withdrawn"`
	BTCRemaining  decimal.Decimal `json:"btc_remaining"`
	USDWithdrawn  decimal.Decimal `json:"usd_withdrawn"`
}
