package events

import "testing"

func TestNoteEventFromJSONRejectsBadEvents(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"garbage", `not json`},
		{"unknown action", `{"note_id": 1, "action": "renamed"}`},
		{"missing note id", `{"action": "changed"}`},
	}
	for _, tc := range cases {
		if _, err := NoteEventFromJSON([]byte(tc.body)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	ev, err := NoteEventFromJSON([]byte(`{"note_id": 7, "action": "deleted"}`))
	if err != nil {
		t.Fatal(err)
	}
	if ev.NoteID != 7 || ev.Action != ActionDeleted {
		t.Fatalf("decoded = %+v", ev)
	}
}
