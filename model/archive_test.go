package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArchiveEntryApplyKeepsOneTerminalState(t *testing.T) {
	entry := ArchiveEntry{TweetID: "1"}

	entry.Apply(Fetched(json.RawMessage(`{"text":"hi"}`)), "2025-06-01T12:00:00Z")
	assert.True(t, entry.Enriched())
	assert.Equal(t, "2025-06-01T12:00:00Z", entry.FetchedAt)

	// Reclassifying a fetched entry must drop the stale payload, not stack
	// states.
	entry.Apply(Private(), "2025-06-02T12:00:00Z")
	assert.Empty(t, entry.TweetData)
	assert.True(t, entry.Private)
	assert.False(t, entry.NotFound)

	entry.Apply(NotFound(), "2025-06-03T12:00:00Z")
	assert.Empty(t, entry.TweetData)
	assert.False(t, entry.Private)
	assert.True(t, entry.NotFound)
}
