package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Actions carried by a NoteEvent.
const (
	ActionChanged = "changed"
	ActionDeleted = "deleted"
)

// NoteEvent is the message published after a note's ledger changed or the
// note was deleted. It carries only the note id; consumers fetch current
// state from storage, so a stale event is harmless.
type NoteEvent struct {
	NoteID    int64     `json:"note_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// NewNoteEvent creates an event for the given note and action.
func NewNoteEvent(noteID int64, action string) *NoteEvent {
	return &NoteEvent{NoteID: noteID, Action: action, Timestamp: time.Now()}
}

// ToJSON converts the event to JSON bytes.
func (e *NoteEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// NoteEventFromJSON decodes and validates an event from JSON bytes.
func NoteEventFromJSON(data []byte) (*NoteEvent, error) {
	var ev NoteEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	if ev.Action != ActionChanged && ev.Action != ActionDeleted {
		return nil, fmt.Errorf("unknown action %q", ev.Action)
	}
	if ev.NoteID == 0 {
		return nil, fmt.Errorf("missing note id")
	}
	return &ev, nil
}
