// internal/domain/price.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is one observation of the BTC price in USD.
type PriceSample struct {
	ID        int64           `db:"id" json:"-"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Timestamp time.Time       `db:"timestamp" json:"timestamp"`
}

// Age returns how old the sample is relative to now.
func (p *PriceSample) Age(now time.Time) time.Duration {
	return now.Sub(p.Timestamp)
}
