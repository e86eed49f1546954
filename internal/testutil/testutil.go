// Package testutil provides shared test doubles for the storage gateway and
// the event publisher.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"spendlog/internal/apperr"
	"spendlog/internal/core"
)

// MemGateway is an in-memory storage gateway with the same semantics as the
// SQLite repository: storage-assigned ids, not-found errors, atomic cascade.
type MemGateway struct {
	mu          sync.Mutex
	nextNoteID  int64
	nextEntryID int64
	notes       map[int64]core.Note
	entries     map[int64]core.Entry
	budgets     map[int64]int64

	// FailNext, when non-nil, makes the next mutating call fail with a
	// storage error and is then cleared. Reads are unaffected.
	FailNext error
}

// NewMemGateway creates an empty in-memory gateway.
func NewMemGateway() *MemGateway {
	return &MemGateway{
		notes:   make(map[int64]core.Note),
		entries: make(map[int64]core.Entry),
		budgets: make(map[int64]int64),
	}
}

func (g *MemGateway) failNext() error {
	if g.FailNext != nil {
		err := g.FailNext
		g.FailNext = nil
		return apperr.Storage("memgateway", err)
	}
	return nil
}

func (g *MemGateway) CreateNote(_ context.Context, title string) (core.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return core.Note{}, err
	}
	g.nextNoteID++
	n := core.Note{ID: g.nextNoteID, Title: title, CreatedAt: time.Now().UTC().Truncate(time.Second)}
	g.notes[n.ID] = n
	return n, nil
}

func (g *MemGateway) ListNotes(_ context.Context) ([]core.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	notes := make([]core.Note, 0, len(g.notes))
	for _, n := range g.notes {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].ID < notes[j].ID })
	return notes, nil
}

func (g *MemGateway) GetNote(_ context.Context, id int64) (core.Note, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.notes[id]
	if !ok {
		return core.Note{}, fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	return n, nil
}

func (g *MemGateway) RenameNote(_ context.Context, id int64, title string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return err
	}
	n, ok := g.notes[id]
	if !ok {
		return fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	n.Title = title
	g.notes[id] = n
	return nil
}

func (g *MemGateway) DeleteNote(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return err
	}
	if _, ok := g.notes[id]; !ok {
		return fmt.Errorf("note %d: %w", id, apperr.ErrNotFound)
	}
	delete(g.notes, id)
	for eid, e := range g.entries {
		if e.NoteID == id {
			delete(g.entries, eid)
		}
	}
	delete(g.budgets, id)
	return nil
}

func (g *MemGateway) CreateEntry(_ context.Context, noteID int64, description string, amountCents int64) (core.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return core.Entry{}, err
	}
	g.nextEntryID++
	e := core.Entry{
		ID:          g.nextEntryID,
		NoteID:      noteID,
		Description: description,
		Amount:      core.Money{Cents: amountCents},
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	g.entries[e.ID] = e
	return e, nil
}

func (g *MemGateway) ListEntries(_ context.Context, noteID int64) ([]core.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var entries []core.Entry
	for _, e := range g.entries {
		if e.NoteID == noteID {
			entries = append(entries, e)
		}
	}
	// Newest first, matching the repository's ordering.
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID > entries[j].ID })
	return entries, nil
}

func (g *MemGateway) GetEntry(_ context.Context, id int64) (core.Entry, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	e, ok := g.entries[id]
	if !ok {
		return core.Entry{}, fmt.Errorf("entry %d: %w", id, apperr.ErrNotFound)
	}
	return e, nil
}

func (g *MemGateway) UpdateEntry(_ context.Context, id int64, description string, amountCents int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return err
	}
	e, ok := g.entries[id]
	if !ok {
		return fmt.Errorf("entry %d: %w", id, apperr.ErrNotFound)
	}
	e.Description = description
	e.Amount = core.Money{Cents: amountCents}
	g.entries[id] = e
	return nil
}

func (g *MemGateway) DeleteEntry(_ context.Context, id int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return err
	}
	if _, ok := g.entries[id]; !ok {
		return fmt.Errorf("entry %d: %w", id, apperr.ErrNotFound)
	}
	delete(g.entries, id)
	return nil
}

func (g *MemGateway) SumEntries(_ context.Context, noteID int64) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sum int64
	for _, e := range g.entries {
		if e.NoteID == noteID {
			sum += e.Amount.Cents
		}
	}
	return sum, nil
}

func (g *MemGateway) SumAllEntries(_ context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sum int64
	for _, e := range g.entries {
		sum += e.Amount.Cents
	}
	return sum, nil
}

func (g *MemGateway) SetBudget(_ context.Context, noteID int64, amountCents int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return err
	}
	g.budgets[noteID] = amountCents
	return nil
}

func (g *MemGateway) GetBudget(_ context.Context, noteID int64) (core.BudgetStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	cents, ok := g.budgets[noteID]
	if !ok {
		return core.BudgetStatus{}, nil
	}
	return core.BudgetStatus{Set: true, Amount: core.Money{Cents: cents}}, nil
}

func (g *MemGateway) ClearBudget(_ context.Context, noteID int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.failNext(); err != nil {
		return err
	}
	delete(g.budgets, noteID)
	return nil
}

// EventRecorder records published events for assertions.
type EventRecorder struct {
	mu      sync.Mutex
	Changed []int64
	Deleted []int64
}

func (r *EventRecorder) PublishNoteChanged(_ context.Context, noteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Changed = append(r.Changed, noteID)
	return nil
}

func (r *EventRecorder) PublishNoteDeleted(_ context.Context, noteID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Deleted = append(r.Deleted, noteID)
	return nil
}
