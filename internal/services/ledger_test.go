package services

import (
	"context"
	"errors"
	"testing"

	"spendlog/internal/apperr"
	"spendlog/internal/core"
	"spendlog/internal/testutil"
)

func newLedgerFixture(t *testing.T) (*Registry, *Ledger, int64) {
	t.Helper()
	gw := testutil.NewMemGateway()
	reg := NewRegistry(gw, nil)
	led := NewLedger(gw, nil)
	n, err := reg.CreateNote(context.Background(), "Groceries")
	if err != nil {
		t.Fatal(err)
	}
	return reg, led, n.ID
}

func TestTotalSpentTracksEntryMutations(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	total, err := led.TotalSpent(ctx, noteID)
	if err != nil {
		t.Fatal(err)
	}
	if total.Cents != 0 {
		t.Fatalf("empty note total = %d, want 0", total.Cents)
	}

	milk, err := led.AddEntry(ctx, noteID, "Milk", core.Money{Cents: 2000})
	if err != nil {
		t.Fatal(err)
	}
	bread, err := led.AddEntry(ctx, noteID, "Bread", core.Money{Cents: 1500})
	if err != nil {
		t.Fatal(err)
	}

	if total, _ = led.TotalSpent(ctx, noteID); total.Cents != 3500 {
		t.Fatalf("total = %d, want 3500", total.Cents)
	}

	if _, err := led.EditEntry(ctx, milk.ID, "Milk 2L", core.Money{Cents: 2500}); err != nil {
		t.Fatal(err)
	}
	if total, _ = led.TotalSpent(ctx, noteID); total.Cents != 4000 {
		t.Fatalf("total after edit = %d, want 4000", total.Cents)
	}

	if err := led.RemoveEntry(ctx, bread.ID); err != nil {
		t.Fatal(err)
	}
	if total, _ = led.TotalSpent(ctx, noteID); total.Cents != 2500 {
		t.Fatalf("total after remove = %d, want 2500", total.Cents)
	}
}

func TestAddEntryValidation(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	cases := []struct {
		desc  string
		cents int64
	}{
		{"coffee", 0},
		{"coffee", -500},
		{"", 100},
		{"   ", 100},
	}
	for i, tc := range cases {
		if _, err := led.AddEntry(ctx, noteID, tc.desc, core.Money{Cents: tc.cents}); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
	// Nothing was created by the rejected calls.
	entries, err := led.ListEntries(ctx, noteID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("rejected adds must not create entries, found %d", len(entries))
	}

	if _, err := led.AddEntry(ctx, 999, "coffee", core.Money{Cents: 300}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for missing note, got %v", err)
	}
}

func TestEditEntryStaleID(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := led.EditEntry(ctx, 999, "x", core.Money{Cents: 1000}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for never-created id, got %v", err)
	}

	e, _ := led.AddEntry(ctx, noteID, "Milk", core.Money{Cents: 2000})
	if err := led.RemoveEntry(ctx, e.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := led.EditEntry(ctx, e.ID, "x", core.Money{Cents: 1000}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found for deleted id, got %v", err)
	}
	if err := led.RemoveEntry(ctx, e.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on double remove, got %v", err)
	}
}

func TestEditEntryPreservesNoteAndTimestamp(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	created, _ := led.AddEntry(ctx, noteID, "Milk", core.Money{Cents: 2000})
	edited, err := led.EditEntry(ctx, created.ID, "Oat milk", core.Money{Cents: 2600})
	if err != nil {
		t.Fatal(err)
	}
	if edited.NoteID != noteID {
		t.Fatal("note_id is immutable")
	}
	if !edited.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("created_at is immutable")
	}
	if edited.Description != "Oat milk" || edited.Amount.Cents != 2600 {
		t.Fatalf("edit not applied: %+v", edited)
	}
}

func TestBudgetUpsert(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	status, err := led.GetBudget(ctx, noteID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Set {
		t.Fatal("fresh note must be unbounded")
	}

	if err := led.SetBudget(ctx, noteID, core.Money{Cents: 0}); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for zero budget, got %v", err)
	}
	if err := led.SetBudget(ctx, 999, core.Money{Cents: 1000}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := led.SetBudget(ctx, noteID, core.Money{Cents: 50000}); err != nil {
		t.Fatal(err)
	}
	if err := led.SetBudget(ctx, noteID, core.Money{Cents: 80000}); err != nil {
		t.Fatal(err)
	}
	status, _ = led.GetBudget(ctx, noteID)
	if !status.Set || status.Amount.Cents != 80000 {
		t.Fatalf("budget = %+v, want exactly one budget of 80000", status)
	}
}

func TestClearBudgetIdempotent(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	if err := led.SetBudget(ctx, noteID, core.Money{Cents: 50000}); err != nil {
		t.Fatal(err)
	}
	if err := led.ClearBudget(ctx, noteID); err != nil {
		t.Fatal(err)
	}
	if err := led.ClearBudget(ctx, noteID); err != nil {
		t.Fatal(err)
	}
	status, _ := led.GetBudget(ctx, noteID)
	if status.Set {
		t.Fatal("budget must be unset after clear")
	}
}

func TestRemainingBudgetArithmetic(t *testing.T) {
	_, led, noteID := newLedgerFixture(t)
	ctx := context.Background()

	// No budget: remaining is the unset sentinel, not an error.
	remaining, err := led.RemainingBudget(ctx, noteID)
	if err != nil {
		t.Fatal(err)
	}
	if remaining.Set {
		t.Fatal("remaining must be unset without a budget")
	}

	if err := led.SetBudget(ctx, noteID, core.Money{Cents: 100000}); err != nil {
		t.Fatal(err)
	}
	if _, err := led.AddEntry(ctx, noteID, "a", core.Money{Cents: 20000}); err != nil {
		t.Fatal(err)
	}
	if _, err := led.AddEntry(ctx, noteID, "b", core.Money{Cents: 30000}); err != nil {
		t.Fatal(err)
	}

	remaining, _ = led.RemainingBudget(ctx, noteID)
	if !remaining.Set || remaining.Amount.Cents != 50000 {
		t.Fatalf("remaining = %+v, want 50000", remaining)
	}

	// Overspend is a valid state, not an error.
	if _, err := led.AddEntry(ctx, noteID, "c", core.Money{Cents: 60000}); err != nil {
		t.Fatal(err)
	}
	remaining, _ = led.RemainingBudget(ctx, noteID)
	if !remaining.Set || remaining.Amount.Cents != -10000 {
		t.Fatalf("overspent remaining = %+v, want -10000", remaining)
	}
}

func TestTotalAcrossAllNotes(t *testing.T) {
	gw := testutil.NewMemGateway()
	reg := NewRegistry(gw, nil)
	led := NewLedger(gw, nil)
	ctx := context.Background()

	a, _ := reg.CreateNote(ctx, "A")
	b, _ := reg.CreateNote(ctx, "B")
	if _, err := led.AddEntry(ctx, a.ID, "one", core.Money{Cents: 100}); err != nil {
		t.Fatal(err)
	}
	if _, err := led.AddEntry(ctx, b.ID, "two", core.Money{Cents: 250}); err != nil {
		t.Fatal(err)
	}

	total, err := led.TotalAcrossAllNotes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total.Cents != 350 {
		t.Fatalf("total = %d, want 350", total.Cents)
	}
}

// Full walkthrough: budget, entries, totals, cascade delete.
func TestGroceriesScenario(t *testing.T) {
	gw := testutil.NewMemGateway()
	reg := NewRegistry(gw, nil)
	led := NewLedger(gw, nil)
	ctx := context.Background()

	note, err := reg.CreateNote(ctx, "Groceries")
	if err != nil {
		t.Fatal(err)
	}
	if err := led.SetBudget(ctx, note.ID, core.Money{Cents: 50000}); err != nil {
		t.Fatal(err)
	}
	milk, err := led.AddEntry(ctx, note.ID, "Milk", core.Money{Cents: 2000})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := led.AddEntry(ctx, note.ID, "Bread", core.Money{Cents: 1500}); err != nil {
		t.Fatal(err)
	}

	summary, err := led.Summary(ctx, note.ID)
	if err != nil {
		t.Fatal(err)
	}
	if summary.TotalSpent.Cents != 3500 || summary.Remaining.Cents != 46500 {
		t.Fatalf("summary = %+v, want spent 3500 remaining 46500", summary)
	}

	if err := led.RemoveEntry(ctx, milk.ID); err != nil {
		t.Fatal(err)
	}
	summary, _ = led.Summary(ctx, note.ID)
	if summary.TotalSpent.Cents != 1500 || summary.Remaining.Cents != 48500 {
		t.Fatalf("summary after remove = %+v, want spent 1500 remaining 48500", summary)
	}

	if err := reg.DeleteNote(ctx, note.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := led.ListEntries(ctx, note.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	// Gateway-level view: cascade removed everything.
	entries, _ := gw.ListEntries(ctx, note.ID)
	if len(entries) != 0 {
		t.Fatalf("entries survived cascade: %d", len(entries))
	}
	status, _ := gw.GetBudget(ctx, note.ID)
	if status.Set {
		t.Fatal("budget survived cascade")
	}
}
