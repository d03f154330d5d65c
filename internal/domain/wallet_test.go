// internal/domain/wallet_test.go
package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrequency(t *testing.T) {
	f, err := ParseFrequency(" Weekly ")
	require.NoError(t, err)
	assert.Equal(t, FrequencyWeekly, f)

	_, err = ParseFrequency("yearly")
	assert.Error(t, err)
}

func TestNewWallet(t *testing.T) {
	start := time.Date(2025, time.October, 8, 15, 30, 0, 0, time.UTC)
	w := NewWallet("Good help", FrequencyMonthly, decimal.NewFromInt(1000), start)

	assert.Equal(t, InitialFunding, w.CurrentBTC)
	assert.True(t, w.IsActive())
	assert.Equal(t, time.Date(2025, time.October, 8, 0, 0, 0, 0, time.UTC), w.StartDate)
	assert.NoError(t, w.CheckInvariant())
}

func TestCheckInvariant(t *testing.T) {
	w := &Wallet{ID: 1, Status: WalletStatusDepleted, CurrentBTC: 5}
	assert.Error(t, w.CheckInvariant())

	w = &Wallet{ID: 1, Status: WalletStatusActive, CurrentBTC: 0}
	assert.Error(t, w.CheckInvariant())

	w = &Wallet{ID: 1, Status: WalletStatusDepleted, CurrentBTC: 0}
	assert.NoError(t, w.CheckInvariant())
}

func TestBTC(t *testing.T) {
	assert.Equal(t, "0.98", BTC(98_000_000).String())
	assert.Equal(t, "0.00000001", BTC(1).String())
	assert.Equal(t, "1", BTC(InitialFunding).String())
}
