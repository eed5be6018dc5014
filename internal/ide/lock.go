// Package ide discovers running editor instances from their lock files and
// associates sessions with them by workspace folder.
package ide

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LockRecord describes one running editor instance, as advertised by a
// *.lock file in the IDE directory. Records are ephemeral: every scan
// reloads the directory from scratch and nothing is merged across scans.
type LockRecord struct {
	PID              int      `json:"pid"`
	WorkspaceFolders []string `json:"workspaceFolders"`
	IdeName          string   `json:"ideName"`

	// ModTime is the lock file's modification time; Running is whether the
	// advertised pid answered a liveness probe at scan time. Both feed the
	// matcher's tie-breaks.
	ModTime time.Time `json:"-"`
	Running bool      `json:"-"`
}

// LoadLocks reads every *.lock file in dir. Missing directory yields an
// empty set; unreadable or malformed lock files are skipped.
func LoadLocks(dir string) []LockRecord {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var locks []LockRecord
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lock") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var lock LockRecord
		if err := json.Unmarshal(data, &lock); err != nil {
			continue
		}
		if info, err := entry.Info(); err == nil {
			lock.ModTime = info.ModTime()
		}
		lock.Running = isProcessAlive(lock.PID)
		locks = append(locks, lock)
	}
	return locks
}
