package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"loanbook/domain"
	"loanbook/repository"
	"loanbook/service"
)

// APIHandler serves the JSON endpoints: the standalone calculator and the
// payoff estimator.
type APIHandler struct {
	loans  *service.LoanService
	payoff *service.PayoffService
	log    zerolog.Logger
}

func NewAPIHandler(loans *service.LoanService, payoff *service.PayoffService, log zerolog.Logger) *APIHandler {
	return &APIHandler{
		loans:  loans,
		payoff: payoff,
		log:    log.With().Str("component", "api_handler").Logger(),
	}
}

// Calculate resolves missing loan terms and returns schedule totals.
func (h *APIHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input domain.CalculatorInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.loans.Calculate(r.Context(), input)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

// Payoff evaluates extra-payment scenarios for a stored loan.
func (h *APIHandler) Payoff(w http.ResponseWriter, r *http.Request) {
	var input domain.PayoffInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.payoff.Plan(chi.URLParam(r, "id"), input)
	if errors.Is(err, repository.ErrLoanNotFound) {
		h.writeError(w, http.StatusNotFound, "loan not found")
		return
	}
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
