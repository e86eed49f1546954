// Package worker maintains per-note JSON backup snapshots on disk. It is
// driven by note events from AMQP, with a periodic full pass as a catch-up
// mechanism for lost messages.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendlog/internal/apperr"
	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/services"
)

// BackupWorker reads note state through the storage gateway and mirrors it
// into snapshot files under dir.
type BackupWorker struct {
	gw  services.Gateway
	dir string
}

func NewBackupWorker(gw services.Gateway, dir string) *BackupWorker {
	return &BackupWorker{gw: gw, dir: dir}
}

// Snapshot is the on-disk backup document for one note.
type Snapshot struct {
	Note           snapshotNote    `json:"note"`
	Entries        []snapshotEntry `json:"entries"`
	BudgetCents    *int64          `json:"budget_cents,omitempty"`
	TotalCents     int64           `json:"total_cents"`
	RemainingCents *int64          `json:"remaining_cents,omitempty"`
	TakenAt        time.Time       `json:"taken_at"`
}

type snapshotNote struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type snapshotEntry struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	AmountCents int64     `json:"amount_cents"`
	CreatedAt   time.Time `json:"created_at"`
}

// HandleEvent processes one note event from the queue.
func (w *BackupWorker) HandleEvent(ctx context.Context, ev *events.NoteEvent) error {
	slog.InfoContext(ctx, "Processing note event", "note_id", ev.NoteID, "action", ev.Action)

	switch ev.Action {
	case events.ActionDeleted:
		return w.removeSnapshot(ctx, ev.NoteID)
	case events.ActionChanged:
		return w.SnapshotNote(ctx, ev.NoteID)
	default:
		return fmt.Errorf("unknown action %q", ev.Action)
	}
}

// SnapshotNote writes the current state of one note to its snapshot file.
// The write is atomic (temp file + rename) so a crash never leaves a torn
// snapshot. A note deleted since the event was queued removes the file
// instead.
func (w *BackupWorker) SnapshotNote(ctx context.Context, noteID int64) error {
	note, err := w.gw.GetNote(ctx, noteID)
	if errors.Is(err, apperr.ErrNotFound) {
		// Deleted between publish and processing.
		return w.removeSnapshot(ctx, noteID)
	}
	if err != nil {
		return fmt.Errorf("get note: %w", err)
	}

	entries, err := w.gw.ListEntries(ctx, noteID)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}
	totalCents, err := w.gw.SumEntries(ctx, noteID)
	if err != nil {
		return fmt.Errorf("sum entries: %w", err)
	}
	budget, err := w.gw.GetBudget(ctx, noteID)
	if err != nil {
		return fmt.Errorf("get budget: %w", err)
	}

	snap := buildSnapshot(note, entries, core.Summarize(noteID, core.Money{Cents: totalCents}, budget))
	if err := w.writeSnapshot(noteID, snap); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Snapshot written",
		"note_id", noteID,
		"entries", len(entries),
		"total_cents", totalCents,
		"path", w.snapshotPath(noteID))
	return nil
}

// SnapshotAll snapshots every note. Per-note failures are logged and skipped
// so one broken note does not stall the rest of the pass.
func (w *BackupWorker) SnapshotAll(ctx context.Context) error {
	notes, err := w.gw.ListNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}

	errorCount := 0
	for _, n := range notes {
		if err := w.SnapshotNote(ctx, n.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to snapshot note", "note_id", n.ID, "error", err)
			errorCount++
		}
	}

	slog.InfoContext(ctx, "Snapshot pass completed",
		"notes", len(notes),
		"errors", errorCount)
	return nil
}

func buildSnapshot(note core.Note, entries []core.Entry, summary core.NoteSummary) Snapshot {
	snap := Snapshot{
		Note: snapshotNote{
			ID:        note.ID,
			Title:     note.Title,
			CreatedAt: note.CreatedAt,
		},
		Entries:    make([]snapshotEntry, len(entries)),
		TotalCents: summary.TotalSpent.Cents,
		TakenAt:    time.Now().UTC(),
	}
	for i, e := range entries {
		snap.Entries[i] = snapshotEntry{
			ID:          e.ID,
			Description: e.Description,
			AmountCents: e.Amount.Cents,
			CreatedAt:   e.CreatedAt,
		}
	}
	if summary.Budget.Set {
		budgetCents := summary.Budget.Amount.Cents
		remainingCents := summary.Remaining.Cents
		snap.BudgetCents = &budgetCents
		snap.RemainingCents = &remainingCents
	}
	return snap
}

func (w *BackupWorker) writeSnapshot(noteID int64, snap Snapshot) error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := w.snapshotPath(noteID)
	tmp, err := os.CreateTemp(w.dir, "snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (w *BackupWorker) removeSnapshot(ctx context.Context, noteID int64) error {
	path := w.snapshotPath(noteID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	slog.InfoContext(ctx, "Snapshot removed", "note_id", noteID, "path", path)
	return nil
}

func (w *BackupWorker) snapshotPath(noteID int64) string {
	return filepath.Join(w.dir, fmt.Sprintf("note_%d.json", noteID))
}
