package services

import (
	"context"
	"strings"

	"spendlog/internal/core"
)

// Ledger is the engine for entry and budget operations plus derived
// aggregates, scoped to one note at a time. It holds no state of its own:
// totals are recomputed from the gateway on every call, so aggregate views
// observed after an operation completes always reflect that operation.
type Ledger struct {
	gw  Gateway
	pub Publisher // may be nil when eventing is disabled
}

// NewLedger creates a ledger engine over the given gateway.
func NewLedger(gw Gateway, pub Publisher) *Ledger {
	return &Ledger{gw: gw, pub: pub}
}

// AddEntry validates and persists a new entry for an existing note.
func (l *Ledger) AddEntry(ctx context.Context, noteID int64, description string, amount core.Money) (core.Entry, error) {
	if err := core.ValidateEntryInput(description, amount); err != nil {
		return core.Entry{}, err
	}
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return core.Entry{}, err
	}
	entry, err := l.gw.CreateEntry(ctx, noteID, strings.TrimSpace(description), amount.Cents)
	if err != nil {
		return core.Entry{}, err
	}
	publishChanged(ctx, l.pub, noteID)
	return entry, nil
}

// EditEntry rewrites an entry's description and amount. The owning note and
// creation timestamp never change.
func (l *Ledger) EditEntry(ctx context.Context, entryID int64, description string, amount core.Money) (core.Entry, error) {
	if err := core.ValidateEntryInput(description, amount); err != nil {
		return core.Entry{}, err
	}
	existing, err := l.gw.GetEntry(ctx, entryID)
	if err != nil {
		return core.Entry{}, err
	}
	if err := l.gw.UpdateEntry(ctx, entryID, strings.TrimSpace(description), amount.Cents); err != nil {
		return core.Entry{}, err
	}
	publishChanged(ctx, l.pub, existing.NoteID)

	existing.Description = strings.TrimSpace(description)
	existing.Amount = amount
	return existing, nil
}

// RemoveEntry deletes one entry.
func (l *Ledger) RemoveEntry(ctx context.Context, entryID int64) error {
	existing, err := l.gw.GetEntry(ctx, entryID)
	if err != nil {
		return err
	}
	if err := l.gw.DeleteEntry(ctx, entryID); err != nil {
		return err
	}
	publishChanged(ctx, l.pub, existing.NoteID)
	return nil
}

// ListEntries returns the entries of an existing note.
func (l *Ledger) ListEntries(ctx context.Context, noteID int64) ([]core.Entry, error) {
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return nil, err
	}
	return l.gw.ListEntries(ctx, noteID)
}

// SetBudget writes a note's budget with upsert semantics: setting twice
// leaves exactly one budget holding the later amount.
func (l *Ledger) SetBudget(ctx context.Context, noteID int64, amount core.Money) error {
	if err := amount.Validate(); err != nil {
		return err
	}
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return err
	}
	if err := l.gw.SetBudget(ctx, noteID, amount.Cents); err != nil {
		return err
	}
	publishChanged(ctx, l.pub, noteID)
	return nil
}

// GetBudget reports a note's budget state. An unset budget is a normal
// result, not an error.
func (l *Ledger) GetBudget(ctx context.Context, noteID int64) (core.BudgetStatus, error) {
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return core.BudgetStatus{}, err
	}
	return l.gw.GetBudget(ctx, noteID)
}

// ClearBudget moves a note back to the unbounded state. Idempotent on an
// already-unset note.
func (l *Ledger) ClearBudget(ctx context.Context, noteID int64) error {
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return err
	}
	if err := l.gw.ClearBudget(ctx, noteID); err != nil {
		return err
	}
	publishChanged(ctx, l.pub, noteID)
	return nil
}

// TotalSpent recomputes the sum of the note's current entries. Zero if none.
func (l *Ledger) TotalSpent(ctx context.Context, noteID int64) (core.Money, error) {
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return core.Money{}, err
	}
	cents, err := l.gw.SumEntries(ctx, noteID)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// RemainingBudget returns budget minus total spent. Unset when no budget is
// set; negative on overspend, which is a valid displayable state.
func (l *Ledger) RemainingBudget(ctx context.Context, noteID int64) (core.BudgetStatus, error) {
	summary, err := l.Summary(ctx, noteID)
	if err != nil {
		return core.BudgetStatus{}, err
	}
	if !summary.Budget.Set {
		return core.BudgetStatus{}, nil
	}
	return core.BudgetStatus{Set: true, Amount: summary.Remaining}, nil
}

// Summary recomputes a note's full derived view: total spent, budget state,
// and remaining amount.
func (l *Ledger) Summary(ctx context.Context, noteID int64) (core.NoteSummary, error) {
	if _, err := l.gw.GetNote(ctx, noteID); err != nil {
		return core.NoteSummary{}, err
	}
	cents, err := l.gw.SumEntries(ctx, noteID)
	if err != nil {
		return core.NoteSummary{}, err
	}
	budget, err := l.gw.GetBudget(ctx, noteID)
	if err != nil {
		return core.NoteSummary{}, err
	}
	return core.Summarize(noteID, core.Money{Cents: cents}, budget), nil
}

// TotalAcrossAllNotes sums every entry of every note, recomputed on demand.
func (l *Ledger) TotalAcrossAllNotes(ctx context.Context) (core.Money, error) {
	cents, err := l.gw.SumAllEntries(ctx)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}
