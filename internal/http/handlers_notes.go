package http

import (
	"fmt"
	"net/http"

	"spendlog/internal/apperr"
)

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := s.registry.ListNotes(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	resp := make([]noteResponse, len(notes))
	for i, n := range notes {
		resp[i] = toNoteResponse(n)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(r.Context(), w, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	note, err := s.registry.CreateNote(r.Context(), req.Title)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

func (s *Server) handleRenameNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	var req noteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(r.Context(), w, fmt.Errorf("%w: %v", apperr.ErrValidation, err))
		return
	}

	if err := s.registry.RenameNote(r.Context(), id, req.Title); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := s.registry.DeleteNote(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
