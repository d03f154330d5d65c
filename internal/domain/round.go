// internal/domain/round.go
package domain

import "github.com/shopspring/decimal"

// RoundReport summarises one withdrawal round for a frequency class.
type RoundReport struct {
	RoundID     string             `json:"round_id"`
	Frequency   Frequency          `json:"frequency"`
	Period      int                `json:"period"` // Period the round debited
	Date        string             `json:"date"`
	BTCPriceUSD decimal.Decimal    `json:"btc_price"`
	Results     []WithdrawalResult `json:"results"`
	NextPeriod  int                `json:"next_period"` // Counter after the round; equals Period when the clock did not advance
}
