// Package services holds the domain core: the note registry and the ledger
// engine. Both are stateless; the storage gateway is the single source of
// truth and every read is authoritative at call time.
package services

import (
	"context"

	"spendlog/internal/core"
)

// Gateway is the storage boundary the core operates against. Implementations
// must provide atomic single-record writes; DeleteNote must cascade to the
// note's entries and budget as one operation.
type Gateway interface {
	CreateNote(ctx context.Context, title string) (core.Note, error)
	ListNotes(ctx context.Context) ([]core.Note, error)
	GetNote(ctx context.Context, id int64) (core.Note, error)
	RenameNote(ctx context.Context, id int64, title string) error
	DeleteNote(ctx context.Context, id int64) error

	CreateEntry(ctx context.Context, noteID int64, description string, amountCents int64) (core.Entry, error)
	ListEntries(ctx context.Context, noteID int64) ([]core.Entry, error)
	GetEntry(ctx context.Context, id int64) (core.Entry, error)
	UpdateEntry(ctx context.Context, id int64, description string, amountCents int64) error
	DeleteEntry(ctx context.Context, id int64) error

	SumEntries(ctx context.Context, noteID int64) (int64, error)
	SumAllEntries(ctx context.Context) (int64, error)

	SetBudget(ctx context.Context, noteID int64, amountCents int64) error
	GetBudget(ctx context.Context, noteID int64) (core.BudgetStatus, error)
	ClearBudget(ctx context.Context, noteID int64) error
}

// Publisher emits change events after successful mutations. Publishing is
// best effort: a failed publish never fails the originating operation.
type Publisher interface {
	PublishNoteChanged(ctx context.Context, noteID int64) error
	PublishNoteDeleted(ctx context.Context, noteID int64) error
}
