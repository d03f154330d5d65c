// internal/api/handler/simulation.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"btc-retire/internal/api/types"
	"btc-retire/internal/domain"
	"btc-retire/internal/service"
	"btc-retire/internal/util"
)

// SimulationHandler exposes the simulation clock and manual withdrawal rounds.
type SimulationHandler struct {
	rounds service.RoundService
	clock  service.SimulationService
	logger *slog.Logger
}

// NewSimulationHandler creates a new SimulationHandler.
func NewSimulationHandler(rounds service.RoundService, clock service.SimulationService, logger *slog.Logger) *SimulationHandler {
	return &SimulationHandler{
		rounds: rounds,
		clock:  clock,
		logger: logger,
	}
}

// TriggerWithdrawal runs one withdrawal round.
// POST /api/trigger-withdrawal
func (h *SimulationHandler) TriggerWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req types.TriggerRequest
	// An empty body means the default frequency
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	frequency := domain.FrequencyMonthly
	if req.Frequency != "" {
		f, err := domain.ParseFrequency(req.Frequency)
		if err != nil {
			respondWithError(w, h.logger, fmt.Errorf("%w: %w", util.ErrInvalidFrequency, err))
			return
		}
		frequency = f
	}

	report, err := h.rounds.RunRound(r.Context(), frequency)
	if err != nil {
		if util.IsError(err, util.ErrRoundIncomplete) && report != nil {
			// Partial results are still reported; the round can be retried.
			respondWithJSON(w, h.logger, http.StatusInternalServerError, types.Envelope[*domain.RoundReport]{
				Data:    report,
				Error:   "Withdrawal round incomplete",
				Message: err.Error(),
			})
			return
		}
		respondWithError(w, h.logger, err)
		return
	}

	envelope := types.OK(report)
	envelope.Message = fmt.Sprintf("%s withdrawal processed for %d wallets", frequency, len(report.Results))
	respondWithJSON(w, h.logger, http.StatusOK, envelope)
}

// GetSimulationStatus reports both counters and the next simulated dates.
// GET /api/simulation-status
func (h *SimulationHandler) GetSimulationStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.clock.Status(r.Context())
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}
	respondWithJSON(w, h.logger, http.StatusOK, types.OK(status))
}
