package core

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EntryKind categorizes a transcript entry.
type EntryKind string

const (
	// EntryPrompt records the effective prompt dispatched to the session.
	EntryPrompt EntryKind = "prompt"
	// EntryResponse records a final text response from the session.
	EntryResponse EntryKind = "response"
	// EntryToolCall records a tool invocation requested by the model.
	EntryToolCall EntryKind = "tool_call"
	// EntryToolOutput records the (possibly in-band error) result of a tool call.
	EntryToolOutput EntryKind = "tool_output"
)

// Entry is one record in an agent's observable run log. Entries are
// immutable after being appended.
type Entry struct {
	ID        string    `json:"id"`
	Kind      EntryKind `json:"kind"`
	Author    string    `json:"author"` // Agent or tool name that produced the entry
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEntry creates a transcript entry stamped with a fresh id and UTC time.
func NewEntry(kind EntryKind, author, text string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Kind:      kind,
		Author:    author,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

// Transcript is an append-only, ordered log of prompt / response / tool-call
// / tool-output entries accumulated across runs. It is safe for concurrent
// access and is never cleared automatically between top-level runs; callers
// needing isolation must Reset explicitly.
type Transcript struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript { return &Transcript{} }

// Append adds an entry to the end of the log.
func (t *Transcript) Append(e Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append(t.entries, e)
}

// Entries returns a copy of the full log so callers cannot mutate internal
// state.
func (t *Transcript) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// Len returns the number of entries recorded so far.
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Reset discards all entries.
func (t *Transcript) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = nil
}
