// internal/api/handler/wallet.go
package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"btc-retire/internal/api/types"
	"btc-retire/internal/domain"
	"btc-retire/internal/service"
	"btc-retire/internal/util" // For custom errors
)

// PriceReader serves the latest BTC price under the collector's freshness policy.
type PriceReader interface {
	Latest(ctx context.Context) (*domain.PriceSample, error)
}

// WalletHandler handles HTTP requests for the wallet read path.
type WalletHandler struct {
	service service.WalletService
	prices  PriceReader
	logger  *slog.Logger
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(svc service.WalletService, prices PriceReader, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{
		service: svc,
		prices:  prices,
		logger:  logger,
	}
}

// ListWallets returns projected summaries, optionally filtered by frequency.
// GET /api/wallets?frequency=monthly|weekly
func (h *WalletHandler) ListWallets(w http.ResponseWriter, r *http.Request) {
	var frequency domain.Frequency
	if raw := r.URL.Query().Get("frequency"); raw != "" {
		f, err := domain.ParseFrequency(raw)
		if err != nil {
			respondWithError(w, h.logger, fmt.Errorf("%w: %w", util.ErrInvalidFrequency, err))
			return
		}
		frequency = f
	}

	wallets, err := h.service.ListWallets(r.Context(), frequency)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.OK(wallets))
}

// GetWallet returns one projected summary.
// GET /api/wallets/{walletID}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	walletID, err := walletIDParam(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	wallet, err := h.service.GetWallet(r.Context(), walletID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.OK(wallet))
}

// GetTransactionHistory returns a wallet's ledger entries, oldest first.
// GET /api/wallets/{walletID}/history
func (h *WalletHandler) GetTransactionHistory(w http.ResponseWriter, r *http.Request) {
	walletID, err := walletIDParam(r)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	history, err := h.service.GetTransactionHistory(r.Context(), walletID)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.OK(history))
}

// GetBTCPrice returns the latest price sample.
// GET /api/btc-price
func (h *WalletHandler) GetBTCPrice(w http.ResponseWriter, r *http.Request) {
	sample, err := h.prices.Latest(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.OK(sample))
}

func walletIDParam(r *http.Request) (int64, error) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "walletID"), 10, 64)
	if err != nil || walletID <= 0 {
		return 0, fmt.Errorf("%w: wallet id must be a positive integer", util.ErrInvalidInput)
	}
	return walletID, nil
}
