package iqvia

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// HistoryEntry records one accepted upload: when it was sent, what the
// endpoint reported back, and which archive it was.
type HistoryEntry struct {
	Timestamp string         `json:"timestamp"`
	Status    map[string]any `json:"status"`
	Archive   string         `json:"archive"`
}

// LoadHistory reads the upload history store. A missing file is an empty
// history, not an error.
func LoadHistory(path string) (map[string]HistoryEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]HistoryEntry{}, nil
		}
		return nil, err
	}
	entries := map[string]HistoryEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RecordUpload appends one entry to the history store, keyed by the
// identifier the endpoint reported. Read-modify-write without locking is
// fine here: the pipeline is single-instance and batch-scheduled. Entries
// are never pruned.
func RecordUpload(path string, response map[string]any, archive string) (string, error) {
	entries, err := LoadHistory(path)
	if err != nil {
		// A corrupt store must not lose the new entry; start over.
		entries = map[string]HistoryEntry{}
	}

	key := responseKey(response)
	entries[key] = HistoryEntry{
		Timestamp: time.Now().Format(time.RFC3339),
		Status:    response,
		Archive:   archive,
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return key, err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return key, err
	}
	return key, nil
}

// responseKey picks the endpoint-provided identifier, falling back to a
// fresh UUID so an identifier-less response still gets its own entry.
func responseKey(response map[string]any) string {
	for _, k := range []string{"guid", "id", "uploadId"} {
		if v, ok := response[k].(string); ok && v != "" {
			return v
		}
	}
	return uuid.NewString()
}
