package http

import (
	"fmt"
	"net/http"

	"spendlog/internal/apperr"
	"spendlog/internal/core"
)

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	status, err := s.ledger.GetBudget(r.Context(), noteID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponse(status))
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(r.Context(), w, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	if err := s.ledger.SetBudget(r.Context(), noteID, amount); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearBudget(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := s.ledger.ClearBudget(r.Context(), noteID); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleNoteSummary(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	summary, err := s.ledger.Summary(r.Context(), noteID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleGlobalSummary(w http.ResponseWriter, r *http.Request) {
	total, err := s.ledger.TotalAcrossAllNotes(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, totalResponse{Total: total.String(), TotalCents: total.Cents})
}
