package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscript_AppendPreservesOrder(t *testing.T) {
	tr := NewTranscript()

	tr.Append(NewEntry(EntryPrompt, "MathTutor", "what is 2+2?"))
	tr.Append(NewEntry(EntryToolCall, "calculator", `{"a":2,"b":2}`))
	tr.Append(NewEntry(EntryToolOutput, "calculator", "4"))
	tr.Append(NewEntry(EntryResponse, "MathTutor", "The answer is 4."))

	entries := tr.Entries()
	require.Len(t, entries, 4)
	assert.Equal(t, EntryPrompt, entries[0].Kind)
	assert.Equal(t, EntryToolCall, entries[1].Kind)
	assert.Equal(t, EntryToolOutput, entries[2].Kind)
	assert.Equal(t, EntryResponse, entries[3].Kind)

	for _, e := range entries {
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
	}
}

func TestTranscript_EntriesReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewEntry(EntryPrompt, "a", "hello"))

	entries := tr.Entries()
	entries[0].Text = "mutated"

	assert.Equal(t, "hello", tr.Entries()[0].Text)
}

func TestTranscript_Reset(t *testing.T) {
	tr := NewTranscript()
	tr.Append(NewEntry(EntryPrompt, "a", "hello"))
	tr.Append(NewEntry(EntryResponse, "a", "hi"))
	require.Equal(t, 2, tr.Len())

	tr.Reset()
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Entries())
}
