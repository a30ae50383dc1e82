package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/crazytosser25/goit-web-hw-04/internal/protocol"
)

// ErrCorruptLog is returned when the log file exists but does not parse as
// a JSON object of submissions. The file is left untouched in that case so
// history is never silently discarded.
var ErrCorruptLog = errors.New("corrupt log file")

// TimestampLayout is the format of the log's timestamp keys. Microsecond
// resolution keeps keys unique enough for the append rate this service sees;
// a same-key append overwrites the previous entry (last write wins).
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Writer appends timestamped submissions to a JSON log file. Only the UDP
// receive loop calls it, but the mutex enforces the single-writer invariant
// instead of merely assuming it.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates a writer for the log file at path. The file and its
// parent directory are created lazily on the first append.
func NewWriter(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the location of the log file.
func (w *Writer) Path() string {
	return w.path
}

// Append records a submission under the given receipt time. The whole log is
// read, updated in memory, and written back pretty-printed, so a single call
// is O(total log size).
func (w *Writer) Append(receivedAt time.Time, s protocol.Submission) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	entries, err := w.load()
	if err != nil {
		return err
	}

	entries[receivedAt.Format(TimestampLayout)] = s

	return w.store(entries)
}

// load reads the current log contents, returning an empty map when the file
// does not exist yet.
func (w *Writer) load() (map[string]protocol.Submission, error) {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]protocol.Submission), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read log file %s: %w", w.path, err)
	}

	var entries map[string]protocol.Submission
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptLog, w.path, err)
	}
	if entries == nil {
		entries = make(map[string]protocol.Submission)
	}
	return entries, nil
}

// store writes the full entry map back to disk with 2-space indentation.
func (w *Writer) store(entries map[string]protocol.Submission) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode log entries: %w", err)
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(w.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write log file %s: %w", w.path, err)
	}
	return nil
}
