package iqvia

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHistoryMissingFile(t *testing.T) {
	entries, err := LoadHistory(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRecordUploadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	key, err := RecordUpload(path, map[string]any{"guid": "g-1", "status": "received"}, "U_ABC_20260101_20260131.zip")
	require.NoError(t, err)
	assert.Equal(t, "g-1", key)

	key2, err := RecordUpload(path, map[string]any{"id": "g-2"}, "U_ABC_20260201_20260228.zip")
	require.NoError(t, err)
	assert.Equal(t, "g-2", key2)

	entries, err := LoadHistory(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "U_ABC_20260101_20260131.zip", entries["g-1"].Archive)
	assert.Equal(t, "received", entries["g-1"].Status["status"])
	assert.NotEmpty(t, entries["g-1"].Timestamp)
}

func TestRecordUploadWithoutIdentifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	key, err := RecordUpload(path, map[string]any{"raw": "OK"}, "a.zip")
	require.NoError(t, err)
	// No identifier in the response: a generated one keeps the entry unique.
	_, parseErr := uuid.Parse(key)
	assert.NoError(t, parseErr)
}

func TestRecordUploadSurvivesCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0644))

	key, err := RecordUpload(path, map[string]any{"guid": "g-9"}, "a.zip")
	require.NoError(t, err)
	assert.Equal(t, "g-9", key)

	entries, err := LoadHistory(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.zip", entries["g-9"].Archive)
}
