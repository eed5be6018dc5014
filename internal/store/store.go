package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Store persists one JSON record file per session under a single directory.
//
// The directory is shared mutable state: every hook invocation is a writer and
// every monitor instance is a reader, with no cross-process lock. The only
// safety mechanism is atomic replace-on-write, so a reader observes either the
// fully-old or fully-new content of a record, never a partial file. Concurrent
// writers for the same session resolve by last-writer-wins whole-record
// replacement.
type Store struct {
	dir string
}

// New returns a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sessions directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory holding the record files.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

// Write marshals the record and writes it atomically via a temp file in the
// same directory followed by os.Rename.
func (s *Store) Write(r *SessionRecord) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to persist session record: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, r.SessionID+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist session record: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist session record: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist session record: %w", err)
	}

	if err = os.Rename(tmpName, s.path(r.SessionID)); err != nil {
		return fmt.Errorf("failed to persist session record: %w", err)
	}
	return nil
}

// Read loads the record for sessionID. A missing file and a malformed file
// both return (nil, nil): corrupt content is indistinguishable from absent
// and the next write repairs it.
func (s *Store) Read(sessionID string) (*SessionRecord, error) {
	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	var r SessionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, nil
	}
	return &r, nil
}

// Delete removes the record file. Deleting an absent record is not an error.
func (s *Store) Delete(sessionID string) error {
	if err := os.Remove(s.path(sessionID)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

// ListAll returns every parseable record in the directory. Files that cannot
// be read or parsed are skipped; one bad file never fails the whole call.
func (s *Store) ListAll() ([]*SessionRecord, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	records := make([]*SessionRecord, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var r SessionRecord
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		records = append(records, &r)
	}
	return records, nil
}

// Purge deletes record files whose last_updated is older than maxAge, along
// with files that cannot be parsed at all. Returns the number removed. This
// is the manual cleanup path; the monitor's staleness filter never touches
// files.
func (s *Store) Purge(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read sessions directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var r SessionRecord
		if err := json.Unmarshal(data, &r); err != nil {
			// Unparseable files are dead weight; remove them here.
			if os.Remove(path) == nil {
				removed++
			}
			continue
		}
		if now.Sub(r.LastUpdated) > maxAge {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}
