package http

import (
	"fmt"
	"net/http"

	"spendlog/internal/apperr"
	"spendlog/internal/core"
)

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	entries, err := s.ledger.ListEntries(r.Context(), noteID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toEntryResponse(e)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	noteID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	description, amount, ok := s.entryInput(w, r)
	if !ok {
		return
	}

	entry, err := s.ledger.AddEntry(r.Context(), noteID, description, amount)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	description, amount, ok := s.entryInput(w, r)
	if !ok {
		return
	}

	entry, err := s.ledger.EditEntry(r.Context(), entryID, description, amount)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleRemoveEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := s.ledger.RemoveEntry(r.Context(), entryID); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// entryInput decodes and validates an entry body, parsing the decimal amount
// to cents. Returns ok=false after writing the error response.
func (s *Server) entryInput(w http.ResponseWriter, r *http.Request) (string, core.Money, bool) {
	var req entryRequest
	if !decodeJSON(w, r, &req) {
		return "", core.Money{}, false
	}
	if err := req.Validate(); err != nil {
		writeError(r.Context(), w, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return "", core.Money{}, false
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(r.Context(), w, err)
		return "", core.Money{}, false
	}
	return req.Description, amount, true
}
