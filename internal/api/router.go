// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"btc-retire/internal/api/handler"
)

// RouterConfig carries the presentation settings of the router.
type RouterConfig struct {
	CORSOrigins []string
	StaticDir   string // Served at / when set
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(cfg RouterConfig, walletHandler *handler.WalletHandler, simulationHandler *handler.SimulationHandler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/wallets", walletHandler.ListWallets)
		r.Get("/wallets/{walletID}", walletHandler.GetWallet)
		r.Get("/wallets/{walletID}/history", walletHandler.GetTransactionHistory)
		r.Get("/btc-price", walletHandler.GetBTCPrice)

		r.Post("/trigger-withdrawal", simulationHandler.TriggerWithdrawal)
		r.Get("/simulation-status", simulationHandler.GetSimulationStatus)
	})

	if cfg.StaticDir != "" {
		logger.Info("Serving static UI", "dir", cfg.StaticDir)
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
