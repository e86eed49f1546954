package services

import (
	"context"
	"errors"
	"testing"

	"spendlog/internal/apperr"
	"spendlog/internal/testutil"
)

func TestCreateNoteValidation(t *testing.T) {
	reg := NewRegistry(testutil.NewMemGateway(), nil)
	ctx := context.Background()

	for _, title := range []string{"", "   ", "\t"} {
		if _, err := reg.CreateNote(ctx, title); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("CreateNote(%q) expected validation error, got %v", title, err)
		}
	}

	n, err := reg.CreateNote(ctx, "  Groceries  ")
	if err != nil {
		t.Fatal(err)
	}
	if n.Title != "Groceries" {
		t.Fatalf("title = %q, want trimmed %q", n.Title, "Groceries")
	}
	if n.ID == 0 {
		t.Fatal("expected storage-assigned id")
	}
}

func TestRenameNote(t *testing.T) {
	gw := testutil.NewMemGateway()
	reg := NewRegistry(gw, nil)
	ctx := context.Background()

	n, _ := reg.CreateNote(ctx, "Groceries")

	if err := reg.RenameNote(ctx, n.ID, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := reg.RenameNote(ctx, 999, "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if err := reg.RenameNote(ctx, n.ID, "Food"); err != nil {
		t.Fatal(err)
	}
	got, err := gw.GetNote(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Food" {
		t.Fatalf("title = %q, want Food", got.Title)
	}
	if !got.CreatedAt.Equal(n.CreatedAt) {
		t.Fatal("created_at must not change on rename")
	}
}

func TestDeleteNoteNotFound(t *testing.T) {
	reg := NewRegistry(testutil.NewMemGateway(), nil)
	if err := reg.DeleteNote(context.Background(), 42); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListNotesStableOrder(t *testing.T) {
	reg := NewRegistry(testutil.NewMemGateway(), nil)
	ctx := context.Background()

	for _, title := range []string{"A", "B", "C"} {
		if _, err := reg.CreateNote(ctx, title); err != nil {
			t.Fatal(err)
		}
	}
	notes, err := reg.ListNotes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(notes) != 3 {
		t.Fatalf("len = %d, want 3", len(notes))
	}
	for i, want := range []string{"A", "B", "C"} {
		if notes[i].Title != want {
			t.Fatalf("notes[%d] = %q, want %q (creation order)", i, notes[i].Title, want)
		}
	}
}

func TestRegistryPublishesEvents(t *testing.T) {
	rec := &testutil.EventRecorder{}
	reg := NewRegistry(testutil.NewMemGateway(), rec)
	ctx := context.Background()

	n, _ := reg.CreateNote(ctx, "Groceries")
	if err := reg.RenameNote(ctx, n.ID, "Food"); err != nil {
		t.Fatal(err)
	}
	if err := reg.DeleteNote(ctx, n.ID); err != nil {
		t.Fatal(err)
	}

	if len(rec.Changed) != 2 {
		t.Fatalf("changed events = %d, want 2", len(rec.Changed))
	}
	if len(rec.Deleted) != 1 || rec.Deleted[0] != n.ID {
		t.Fatalf("deleted events = %v, want [%d]", rec.Deleted, n.ID)
	}
}

func TestRegistryNoEventOnFailedMutation(t *testing.T) {
	gw := testutil.NewMemGateway()
	rec := &testutil.EventRecorder{}
	reg := NewRegistry(gw, rec)
	ctx := context.Background()

	gw.FailNext = errors.New("disk full")
	if _, err := reg.CreateNote(ctx, "Groceries"); !errors.Is(err, apperr.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(rec.Changed) != 0 {
		t.Fatalf("no event expected after failed create, got %v", rec.Changed)
	}
	notes, _ := reg.ListNotes(ctx)
	if len(notes) != 0 {
		t.Fatalf("failed create must leave state unchanged, found %d notes", len(notes))
	}
}
