// internal/api/handler/handler.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"btc-retire/internal/api/types"
	"btc-retire/internal/util"
)

// DefaultTimeout bounds every request. A withdrawal round includes a price fetch.
const DefaultTimeout = 30 * time.Second

// Helper function to send JSON responses.
func respondWithJSON(w http.ResponseWriter, logger *slog.Logger, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func respondWithError(w http.ResponseWriter, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput),
		util.IsError(err, util.ErrInvalidFrequency),
		util.IsError(err, util.ErrInvalidPrice):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrNotFound), util.IsError(err, util.ErrWalletNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	case util.IsError(err, util.ErrNoPrice):
		statusCode = http.StatusServiceUnavailable
		message = "BTC price unavailable"
	default:
		logger.Error("Unhandled service error", "error", err)
		respondWithJSON(w, logger, statusCode, types.Fail(message, ""))
		return
	}

	respondWithJSON(w, logger, statusCode, types.Fail(message, err.Error()))
}
