package http

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"spendlog/internal/core"
)

// noteRequest is the body for creating or renaming a note.
type noteRequest struct {
	Title string `json:"title"`
}

func (r noteRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
	)
}

// entryRequest is the body for adding or editing an entry. Amount is a
// decimal string ("12.34"); it is parsed to cents at this boundary.
type entryRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func (r entryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Description, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Amount, validation.Required),
	)
}

// budgetRequest is the body for setting a budget.
type budgetRequest struct {
	Amount string `json:"amount"`
}

func (r budgetRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required),
	)
}

type noteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type entryResponse struct {
	ID          int64     `json:"id"`
	NoteID      int64     `json:"note_id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// budgetResponse reports budget state; amount fields are omitted when unset.
type budgetResponse struct {
	Set         bool    `json:"set"`
	Amount      *string `json:"amount,omitempty"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
}

type summaryResponse struct {
	NoteID          int64   `json:"note_id"`
	TotalSpent      string  `json:"total_spent"`
	TotalSpentCents int64   `json:"total_spent_cents"`
	Budget          *string `json:"budget,omitempty"`
	BudgetCents     *int64  `json:"budget_cents,omitempty"`
	Remaining       *string `json:"remaining,omitempty"`
	RemainingCents  *int64  `json:"remaining_cents,omitempty"`
}

type totalResponse struct {
	Total      string `json:"total"`
	TotalCents int64  `json:"total_cents"`
}

func toNoteResponse(n core.Note) noteResponse {
	return noteResponse{ID: n.ID, Title: n.Title, CreatedAt: n.CreatedAt}
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		NoteID:      e.NoteID,
		Description: e.Description,
		Amount:      e.Amount.String(),
		AmountCents: e.Amount.Cents,
		CreatedAt:   e.CreatedAt,
	}
}

func toBudgetResponse(status core.BudgetStatus) budgetResponse {
	resp := budgetResponse{Set: status.Set}
	if status.Set {
		amount := status.Amount.String()
		cents := status.Amount.Cents
		resp.Amount = &amount
		resp.AmountCents = &cents
	}
	return resp
}

func toSummaryResponse(s core.NoteSummary) summaryResponse {
	resp := summaryResponse{
		NoteID:          s.NoteID,
		TotalSpent:      s.TotalSpent.String(),
		TotalSpentCents: s.TotalSpent.Cents,
	}
	if s.Budget.Set {
		budget := s.Budget.Amount.String()
		budgetCents := s.Budget.Amount.Cents
		remaining := s.Remaining.String()
		remainingCents := s.Remaining.Cents
		resp.Budget = &budget
		resp.BudgetCents = &budgetCents
		resp.Remaining = &remaining
		resp.RemainingCents = &remainingCents
	}
	return resp
}
