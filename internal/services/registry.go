package services

import (
	"context"
	"log/slog"
	"strings"

	"spendlog/internal/core"
)

// Registry manages the set of notes.
type Registry struct {
	gw  Gateway
	pub Publisher // may be nil when eventing is disabled
}

// NewRegistry creates a note registry over the given gateway.
func NewRegistry(gw Gateway, pub Publisher) *Registry {
	return &Registry{gw: gw, pub: pub}
}

// CreateNote validates the title and persists a new note. Titles are stored
// trimmed.
func (r *Registry) CreateNote(ctx context.Context, title string) (core.Note, error) {
	if err := core.ValidateTitle(title); err != nil {
		return core.Note{}, err
	}
	note, err := r.gw.CreateNote(ctx, strings.TrimSpace(title))
	if err != nil {
		return core.Note{}, err
	}
	publishChanged(ctx, r.pub, note.ID)
	return note, nil
}

// RenameNote updates a note's title in place.
func (r *Registry) RenameNote(ctx context.Context, id int64, newTitle string) error {
	if err := core.ValidateTitle(newTitle); err != nil {
		return err
	}
	if err := r.gw.RenameNote(ctx, id, strings.TrimSpace(newTitle)); err != nil {
		return err
	}
	publishChanged(ctx, r.pub, id)
	return nil
}

// DeleteNote removes a note and cascades to its entries and budget. The
// cascade is atomic from the caller's perspective: on failure nothing is
// deleted.
func (r *Registry) DeleteNote(ctx context.Context, id int64) error {
	if err := r.gw.DeleteNote(ctx, id); err != nil {
		return err
	}
	publishDeleted(ctx, r.pub, id)
	return nil
}

// ListNotes returns all notes in a stable order. Side-effect free.
func (r *Registry) ListNotes(ctx context.Context) ([]core.Note, error) {
	return r.gw.ListNotes(ctx)
}

func publishChanged(ctx context.Context, pub Publisher, noteID int64) {
	if pub == nil {
		return
	}
	if err := pub.PublishNoteChanged(ctx, noteID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish note change", "note_id", noteID, "error", err)
	}
}

func publishDeleted(ctx context.Context, pub Publisher, noteID int64) {
	if pub == nil {
		return
	}
	if err := pub.PublishNoteDeleted(ctx, noteID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish note deletion", "note_id", noteID, "error", err)
	}
}
