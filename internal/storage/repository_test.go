package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"spendlog/internal/apperr"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "spendlog-test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestNoteCRUD(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	n, err := repo.CreateNote(ctx, "Groceries")
	if err != nil {
		t.Fatal(err)
	}
	if n.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if n.CreatedAt.IsZero() {
		t.Fatal("expected created_at")
	}

	if err := repo.RenameNote(ctx, n.ID, "Food"); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Food" {
		t.Fatalf("title = %q, want Food", got.Title)
	}
	if !got.CreatedAt.Equal(n.CreatedAt) {
		t.Fatalf("created_at changed on rename: %v -> %v", n.CreatedAt, got.CreatedAt)
	}

	if err := repo.RenameNote(ctx, 999, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	notes, err := repo.ListNotes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Fatalf("len(notes) = %d, want 1", len(notes))
	}
}

func TestEntryCRUDAndSums(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	n, err := repo.CreateNote(ctx, "Groceries")
	if err != nil {
		t.Fatal(err)
	}

	milk, err := repo.CreateEntry(ctx, n.ID, "Milk", 2000)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateEntry(ctx, n.ID, "Bread", 1500); err != nil {
		t.Fatal(err)
	}

	sum, err := repo.SumEntries(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sum != 3500 {
		t.Fatalf("sum = %d, want 3500", sum)
	}

	if err := repo.UpdateEntry(ctx, milk.ID, "Milk 2L", 2500); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetEntry(ctx, milk.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.NoteID != n.ID {
		t.Fatalf("note_id changed on update")
	}
	if !got.CreatedAt.Equal(milk.CreatedAt) {
		t.Fatalf("created_at changed on update")
	}
	if got.Amount.Cents != 2500 {
		t.Fatalf("amount = %d, want 2500", got.Amount.Cents)
	}

	if sum, _ = repo.SumEntries(ctx, n.ID); sum != 4000 {
		t.Fatalf("sum after edit = %d, want 4000", sum)
	}

	if err := repo.DeleteEntry(ctx, milk.ID); err != nil {
		t.Fatal(err)
	}
	if sum, _ = repo.SumEntries(ctx, n.ID); sum != 1500 {
		t.Fatalf("sum after delete = %d, want 1500", sum)
	}

	if _, err := repo.GetEntry(ctx, milk.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.UpdateEntry(ctx, 999, "x", 100); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.DeleteEntry(ctx, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSumAllEntries(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	a, _ := repo.CreateNote(ctx, "A")
	b, _ := repo.CreateNote(ctx, "B")
	if _, err := repo.CreateEntry(ctx, a.ID, "one", 100); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateEntry(ctx, b.ID, "two", 250); err != nil {
		t.Fatal(err)
	}

	total, err := repo.SumAllEntries(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if total != 350 {
		t.Fatalf("total = %d, want 350", total)
	}
}

func TestBudgetUpsert(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	n, _ := repo.CreateNote(ctx, "Trip")

	status, err := repo.GetBudget(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.Set {
		t.Fatal("expected unset budget for fresh note")
	}

	if err := repo.SetBudget(ctx, n.ID, 50000); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetBudget(ctx, n.ID, 80000); err != nil {
		t.Fatal(err)
	}

	status, err = repo.GetBudget(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !status.Set || status.Amount.Cents != 80000 {
		t.Fatalf("budget = %+v, want set 80000", status)
	}

	if err := repo.ClearBudget(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	// Idempotent on an already-unset budget.
	if err := repo.ClearBudget(ctx, n.ID); err != nil {
		t.Fatal(err)
	}
	status, _ = repo.GetBudget(ctx, n.ID)
	if status.Set {
		t.Fatal("expected unset budget after clear")
	}
}

func TestDeleteNoteCascade(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	n, _ := repo.CreateNote(ctx, "Groceries")
	other, _ := repo.CreateNote(ctx, "Other")
	if _, err := repo.CreateEntry(ctx, n.ID, "Milk", 2000); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.CreateEntry(ctx, other.ID, "Keep", 900); err != nil {
		t.Fatal(err)
	}
	if err := repo.SetBudget(ctx, n.ID, 50000); err != nil {
		t.Fatal(err)
	}

	if err := repo.DeleteNote(ctx, n.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := repo.GetNote(ctx, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	entries, err := repo.ListEntries(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries after cascade, got %d", len(entries))
	}
	status, _ := repo.GetBudget(ctx, n.ID)
	if status.Set {
		t.Fatal("expected budget gone after cascade")
	}

	// Unrelated note untouched.
	kept, err := repo.ListEntries(ctx, other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(kept) != 1 {
		t.Fatalf("unrelated entries affected: %d", len(kept))
	}

	if err := repo.DeleteNote(ctx, n.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
