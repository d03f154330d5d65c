// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoundsTotal counts withdrawal rounds by frequency and outcome.
	RoundsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btcretire_rounds_total",
			Help: "Total number of withdrawal rounds",
		},
		[]string{"frequency", "status"},
	)

	RoundDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btcretire_round_duration_seconds",
			Help:    "Duration of withdrawal rounds",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"frequency"},
	)

	WithdrawalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btcretire_withdrawals_total",
			Help: "Total number of recorded withdrawals by resulting wallet status",
		},
		[]string{"frequency", "status"},
	)

	WithdrawalErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btcretire_withdrawal_errors_total",
			Help: "Total number of per-wallet withdrawal failures",
		},
		[]string{"frequency"},
	)

	SimulationPeriod = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "btcretire_simulation_period",
			Help: "Current simulated period counter",
		},
		[]string{"frequency"},
	)

	BTCPrice = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "btcretire_btc_price_usd",
			Help: "Most recently fetched BTC price in USD",
		},
	)

	PriceFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btcretire_price_fetches_total",
			Help: "Total number of price source fetches",
		},
		[]string{"source", "status"},
	)
)
