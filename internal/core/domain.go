package core

import (
	"fmt"
	"strings"
	"time"

	"spendlog/internal/apperr"
)

type (
	// Note is a named container for spending entries and an optional budget.
	Note struct {
		ID        int64
		Title     string
		CreatedAt time.Time
	}

	// Entry is a single dated expense belonging to exactly one note.
	// NoteID and CreatedAt are immutable after creation.
	Entry struct {
		ID          int64
		NoteID      int64
		Description string
		Amount      Money
		CreatedAt   time.Time
	}

	// Budget is the optional spending ceiling of one note.
	Budget struct {
		NoteID int64
		Amount Money
	}

	// BudgetStatus reports a note's budget, which may be unset. An unset
	// budget is a normal state, not an error.
	BudgetStatus struct {
		Set    bool
		Amount Money
	}

	// NoteSummary is the derived view of one note's ledger. It is never
	// persisted; every instance is recomputed from current entries.
	NoteSummary struct {
		NoteID     int64
		TotalSpent Money
		Budget     BudgetStatus
		// Remaining is Budget - TotalSpent and only meaningful when
		// Budget.Set. Negative means overspend, a displayable state.
		Remaining Money
	}
)

var (
	ErrInvalidAmount    = fmt.Errorf("%w: amount must be a positive value", apperr.ErrValidation)
	ErrEmptyTitle       = fmt.Errorf("%w: title cannot be empty", apperr.ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: description cannot be empty", apperr.ErrValidation)
)

const maxTextLen = 200

// ValidateTitle rejects empty or whitespace-only titles.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return ErrEmptyTitle
	}
	if len(trimmed) > maxTextLen {
		return fmt.Errorf("%w: title too long (max %d characters)", apperr.ErrValidation, maxTextLen)
	}
	return nil
}

// ValidateEntryInput checks the caller-supplied fields of an entry before any
// write happens.
func ValidateEntryInput(description string, amount Money) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return ErrEmptyDescription
	}
	if len(trimmed) > maxTextLen {
		return fmt.Errorf("%w: description too long (max %d characters)", apperr.ErrValidation, maxTextLen)
	}
	return amount.Validate()
}

func (e Entry) Validate() error {
	return ValidateEntryInput(e.Description, e.Amount)
}

func (b Budget) Validate() error {
	return b.Amount.Validate()
}

// Summarize computes the derived aggregates for one note from its current
// total and budget state.
func Summarize(noteID int64, spent Money, budget BudgetStatus) NoteSummary {
	s := NoteSummary{NoteID: noteID, TotalSpent: spent, Budget: budget}
	if budget.Set {
		s.Remaining = Money{Cents: budget.Amount.Cents - spent.Cents}
	}
	return s
}
