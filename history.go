package mover

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// defaultMaxHistory caps the journal when the config gives no limit.
const defaultMaxHistory = 100

// Operation is the kind of filesystem action a history entry records.
type Operation string

const (
	OpMove Operation = "move"
	OpCopy Operation = "copy"
)

// Entry is one journaled move or copy.
type Entry struct {
	ID          string    `json:"id"`
	Timestamp   Timestamp `json:"timestamp"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Theme       string    `json:"theme"`
	Operation   Operation `json:"operation"`
	Filename    string    `json:"filename"`
}

// Format renders the entry for the history listing.
func (e Entry) Format() string {
	return fmt.Sprintf("[%s] %s: %s -> %s",
		e.Timestamp.Format("2006-01-02 15:04:05"),
		strings.ToUpper(string(e.Operation)), e.Filename, e.Theme)
}

// History journals operations so the newest can be undone. Entries beyond
// the cap fall off the old end.
type History struct {
	path    string
	max     int
	entries []Entry
}

// NewHistory loads the journal at path, or the default location when path is
// empty, keeping at most max entries. An unreadable journal starts empty
// with a warning.
func NewHistory(path string, max int) *History {
	if path == "" {
		path = DefaultHistoryPath()
	}
	if max <= 0 {
		max = defaultMaxHistory
	}

	h := &History{path: path, max: max}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("mover: cannot load history", "path", path, "error", err.Error())
		}
		return h
	}
	if err := json.Unmarshal(data, &h.entries); err != nil {
		slog.Warn("mover: malformed history, starting empty", "path", path, "error", err.Error())
		h.entries = nil
	}
	return h
}

// Add journals an operation and saves.
func (h *History) Add(source, destination, theme string, op Operation) {
	h.entries = append(h.entries, Entry{
		ID:          uuid.NewString(),
		Timestamp:   Timestamp{time.Now()},
		Source:      source,
		Destination: destination,
		Theme:       theme,
		Operation:   op,
		Filename:    filepath.Base(source),
	})
	h.save()
}

// Len reports the number of journaled operations.
func (h *History) Len() int {
	return len(h.entries)
}

// Recent returns up to n of the newest entries, oldest first.
func (h *History) Recent(n int) []Entry {
	if n <= 0 || len(h.entries) == 0 {
		return nil
	}
	if n > len(h.entries) {
		n = len(h.entries)
	}
	return append([]Entry(nil), h.entries[len(h.entries)-n:]...)
}

// UndoLast reverts the newest operation.
func (h *History) UndoLast() (string, error) {
	return h.UndoIndex(0)
}

// UndoIndex reverts the i-th newest operation, 0 being the most recent, the
// numbering the history listing shows minus one. A move goes back to its
// source, a copy's destination is deleted. The entry leaves the journal only
// when the revert succeeds. Returns a human-readable description of what
// happened.
func (h *History) UndoIndex(i int) (string, error) {
	if len(h.entries) == 0 {
		return "", errors.New("no operations to undo")
	}
	if i < 0 || i >= len(h.entries) {
		return "", fmt.Errorf("no operation %d in history", i+1)
	}

	i = len(h.entries) - 1 - i
	e := h.entries[i]
	switch e.Operation {
	case OpMove:
		if _, err := os.Stat(e.Destination); err != nil {
			return "", fmt.Errorf("file not found: %s", e.Destination)
		}
		if err := os.MkdirAll(filepath.Dir(e.Source), 0o755); err != nil {
			return "", err
		}
		if err := moveFile(e.Destination, e.Source); err != nil {
			return "", fmt.Errorf("undo failed: %w", err)
		}
		h.removeEntry(i)
		return "Restored: " + filepath.Base(e.Source), nil

	case OpCopy:
		if err := os.Remove(e.Destination); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", fmt.Errorf("file not found: %s", e.Destination)
			}
			return "", fmt.Errorf("undo failed: %w", err)
		}
		h.removeEntry(i)
		return "Removed copy: " + filepath.Base(e.Destination), nil

	default:
		return "", fmt.Errorf("unknown operation %q", e.Operation)
	}
}

// Clear drops the whole journal.
func (h *History) Clear() {
	h.entries = nil
	h.save()
}

func (h *History) removeEntry(i int) {
	h.entries = append(h.entries[:i], h.entries[i+1:]...)
	h.save()
}

// save trims to the cap and rewrites the journal file. A failed save keeps
// the in-memory journal usable for the rest of the run.
func (h *History) save() {
	if len(h.entries) > h.max {
		h.entries = h.entries[len(h.entries)-h.max:]
	}
	entries := h.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err == nil {
		err = writeFileAtomic(h.path, data)
	}
	if err != nil {
		slog.Warn("mover: cannot save history", "path", h.path, "error", err.Error())
	}
}
