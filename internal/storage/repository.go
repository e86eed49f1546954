// Package storage implements the durable gateway for notes, entries, and
// budgets on SQLite. It is the only mutable shared state in the system; every
// aggregate is recomputed by the database on read, never cached here.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"spendlog/internal/apperr"
	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// Repository is the SQLite-backed storage gateway.
type Repository struct {
	db *sql.DB
}

// Open creates the database directory if needed, opens the database, and runs
// migrations.
func Open(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Cascades in the schema only fire with foreign keys enabled.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreateNote persists a new note and returns it with its assigned id.
func (r *Repository) CreateNote(ctx context.Context, title string) (core.Note, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notes (title, created_at) VALUES (?, ?)", title, now.Unix())
	if err != nil {
		return core.Note{}, apperr.Storage("create note", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Note{}, apperr.Storage("create note id", err)
	}

	slog.InfoContext(ctx, "Note created", "note_id", id, "title", title)
	return core.Note{ID: id, Title: title, CreatedAt: now}, nil
}

// ListNotes returns all notes in creation order.
func (r *Repository) ListNotes(ctx context.Context) ([]core.Note, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, created_at FROM notes ORDER BY created_at ASC, id ASC")
	if err != nil {
		return nil, apperr.Storage("list notes", err)
	}
	defer rows.Close()

	var notes []core.Note
	for rows.Next() {
		var n core.Note
		var createdAt int64
		if err := rows.Scan(&n.ID, &n.Title, &createdAt); err != nil {
			return nil, apperr.Storage("scan note", err)
		}
		n.CreatedAt = time.Unix(createdAt, 0).UTC()
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list notes", err)
	}
	return notes, nil
}

// GetNote returns one note by id.
func (r *Repository) GetNote(ctx context.Context, id int64) (core.Note, error) {
	var n core.Note
	var createdAt int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id, title, created_at FROM notes WHERE id = ?", id).
		Scan(&n.ID, &n.Title, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return core.Note{}, apperr.Storage("get note", err)
	}
	n.CreatedAt = time.Unix(createdAt, 0).UTC()
	return n, nil
}

// RenameNote updates the title in place. Id and created_at never change.
func (r *Repository) RenameNote(ctx context.Context, id int64, title string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE notes SET title = ? WHERE id = ?", title, id)
	if err != nil {
		return apperr.Storage("rename note", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return apperr.Storage("rename note", err)
	} else if affected == 0 {
		return fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// DeleteNote removes a note with its entries and budget in one transaction.
// The cascade either fully succeeds or leaves everything in place.
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.Storage("begin delete note", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries WHERE note_id = ?", id); err != nil {
		return apperr.Storage("delete note entries", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM budgets WHERE note_id = ?", id); err != nil {
		return apperr.Storage("delete note budget", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return apperr.Storage("delete note", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return apperr.Storage("delete note", err)
	} else if affected == 0 {
		return fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return apperr.Storage("commit delete note", err)
	}

	slog.InfoContext(ctx, "Note deleted with cascade", "note_id", id)
	return nil
}

// CreateEntry persists a new entry for an existing note.
func (r *Repository) CreateEntry(ctx context.Context, noteID int64, description string, amountCents int64) (core.Entry, error) {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO entries (note_id, description, amount_cents, created_at) VALUES (?, ?, ?, ?)",
		noteID, description, amountCents, now.Unix())
	if err != nil {
		return core.Entry{}, apperr.Storage("create entry", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Entry{}, apperr.Storage("create entry id", err)
	}

	slog.InfoContext(ctx, "Entry created",
		"entry_id", id, "note_id", noteID, "amount_cents", amountCents)
	return core.Entry{
		ID:          id,
		NoteID:      noteID,
		Description: description,
		Amount:      core.Money{Cents: amountCents},
		CreatedAt:   now,
	}, nil
}

// ListEntries returns a note's entries, newest first.
func (r *Repository) ListEntries(ctx context.Context, noteID int64) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, note_id, description, amount_cents, created_at
		 FROM entries WHERE note_id = ?
		 ORDER BY created_at DESC, id DESC`, noteID)
	if err != nil {
		return nil, apperr.Storage("list entries", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, apperr.Storage("scan entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("list entries", err)
	}
	return entries, nil
}

// GetEntry returns one entry by id.
func (r *Repository) GetEntry(ctx context.Context, id int64) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, note_id, description, amount_cents, created_at FROM entries WHERE id = ?", id)
	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, fmt.Errorf("entry %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return core.Entry{}, apperr.Storage("get entry", err)
	}
	return e, nil
}

// UpdateEntry rewrites description and amount. note_id and created_at are
// immutable and not touched.
func (r *Repository) UpdateEntry(ctx context.Context, id int64, description string, amountCents int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE entries SET description = ?, amount_cents = ? WHERE id = ?",
		description, amountCents, id)
	if err != nil {
		return apperr.Storage("update entry", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return apperr.Storage("update entry", err)
	} else if affected == 0 {
		return fmt.Errorf("entry %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// DeleteEntry removes one entry. Entries own nothing, so no cascade.
func (r *Repository) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return apperr.Storage("delete entry", err)
	}
	if affected, err := res.RowsAffected(); err != nil {
		return apperr.Storage("delete entry", err)
	} else if affected == 0 {
		return fmt.Errorf("entry %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// SumEntries returns the exact sum of a note's current entry amounts.
func (r *Repository) SumEntries(ctx context.Context, noteID int64) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		"SELECT IFNULL(SUM(amount_cents), 0) FROM entries WHERE note_id = ?", noteID).Scan(&sum)
	if err != nil {
		return 0, apperr.Storage("sum entries", err)
	}
	return sum, nil
}

// SumAllEntries returns the sum of every entry across all notes.
func (r *Repository) SumAllEntries(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx,
		"SELECT IFNULL(SUM(amount_cents), 0) FROM entries").Scan(&sum)
	if err != nil {
		return 0, apperr.Storage("sum all entries", err)
	}
	return sum, nil
}

// SetBudget writes a note's budget with upsert semantics: the note_id primary
// key guarantees at most one budget per note.
func (r *Repository) SetBudget(ctx context.Context, noteID int64, amountCents int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (note_id, amount_cents) VALUES (?, ?)
		 ON CONFLICT(note_id) DO UPDATE SET amount_cents = excluded.amount_cents`,
		noteID, amountCents)
	if err != nil {
		return apperr.Storage("set budget", err)
	}

	slog.InfoContext(ctx, "Budget set", "note_id", noteID, "amount_cents", amountCents)
	return nil
}

// GetBudget reports a note's budget. A missing row is the unset state, not an
// error.
func (r *Repository) GetBudget(ctx context.Context, noteID int64) (core.BudgetStatus, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx,
		"SELECT amount_cents FROM budgets WHERE note_id = ?", noteID).Scan(&cents)
	if errors.Is(err, sql.ErrNoRows) {
		return core.BudgetStatus{}, nil
	}
	if err != nil {
		return core.BudgetStatus{}, apperr.Storage("get budget", err)
	}
	return core.BudgetStatus{Set: true, Amount: core.Money{Cents: cents}}, nil
}

// ClearBudget removes a note's budget. Clearing an already-unset budget is a
// no-op.
func (r *Repository) ClearBudget(ctx context.Context, noteID int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE note_id = ?", noteID); err != nil {
		return apperr.Storage("clear budget", err)
	}
	return nil
}

func scanEntry(scan func(dest ...any) error) (core.Entry, error) {
	var e core.Entry
	var createdAt int64
	if err := scan(&e.ID, &e.NoteID, &e.Description, &e.Amount.Cents, &createdAt); err != nil {
		return core.Entry{}, err
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return e, nil
}
