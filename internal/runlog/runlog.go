// Package runlog keeps a capped JSON history of pipeline runs in the
// work directory, newest first.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one pipeline run.
type Entry struct {
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
	Status          string    `json:"status"`
	SourceFile      string    `json:"source_file,omitempty"`
	BalanceRows     int       `json:"balance_rows"`
	TransactionRows int       `json:"transaction_rows"`
	MatchedRows     int       `json:"matched_rows"`
	Error           string    `json:"error,omitempty"`
}

// Run statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

const (
	logFile    = "run_log.json"
	maxEntries = 100
)

// Append prepends an entry to <workDir>/run_log.json, creating the file
// if needed and keeping at most the newest 100 entries. An unreadable
// history is discarded rather than blocking the run from being logged.
func Append(workDir string, entry Entry) error {
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("creating work dir: %w", err)
	}

	path := filepath.Join(workDir, logFile)

	var history []Entry
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &history); err != nil {
			history = nil
		}
	}

	history = append([]Entry{entry}, history...)
	if len(history) > maxEntries {
		history = history[:maxEntries]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling run log: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}

// Read returns all entries from <workDir>/run_log.json, newest first.
// A missing file yields an empty history.
func Read(workDir string) ([]Entry, error) {
	data, err := os.ReadFile(filepath.Join(workDir, logFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading run log: %w", err)
	}

	var history []Entry
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing run log: %w", err)
	}
	return history, nil
}
