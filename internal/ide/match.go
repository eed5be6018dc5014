package ide

import (
	"path/filepath"
	"strings"
	"time"
)

// Match is the association between a session's working directory and the
// editor instance that owns the most specific workspace folder covering it.
type Match struct {
	IdeName string
	PID     int
	Running bool
	Folder  string
}

type candidate struct {
	match   Match
	modTime time.Time
}

// MatchWorkspace finds the best lock record for cwd, or reports none.
//
// A folder matches when cwd equals it or lies underneath it (prefix plus
// path separator, so folder /home/foo never claims cwd /home/foobar). Among
// matching (folder, record) pairs the winner is the longest folder, then the
// lock file with the newest modification time, then a record whose process
// is confirmed running. Pure function of its inputs; callers recompute it
// whenever either the session set or the lock set changes.
func MatchWorkspace(cwd string, locks []LockRecord) (Match, bool) {
	var best candidate
	found := false

	for _, lock := range locks {
		for _, raw := range lock.WorkspaceFolders {
			folder := normalizeFolder(raw)
			if !folderContains(folder, cwd) {
				continue
			}
			cand := candidate{
				match: Match{
					IdeName: lock.IdeName,
					PID:     lock.PID,
					Running: lock.Running,
					Folder:  folder,
				},
				modTime: lock.ModTime,
			}
			if !found || better(cand, best) {
				best = cand
				found = true
			}
		}
	}
	return best.match, found
}

// normalizeFolder strips a trailing path separator so a folder recorded as
// /home/dev/proj/ still equals cwd /home/dev/proj and competes on the same
// length in the tie-break.
func normalizeFolder(folder string) string {
	if len(folder) > 1 {
		folder = strings.TrimSuffix(folder, string(filepath.Separator))
	}
	return folder
}

// folderContains reports whether cwd is the folder itself or inside it.
func folderContains(folder, cwd string) bool {
	if folder == "" {
		return false
	}
	if cwd == folder {
		return true
	}
	prefix := folder
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(cwd, prefix)
}

// better applies the tie-break order: longest folder, newest lock file,
// running process.
func better(a, b candidate) bool {
	if len(a.match.Folder) != len(b.match.Folder) {
		return len(a.match.Folder) > len(b.match.Folder)
	}
	if !a.modTime.Equal(b.modTime) {
		return a.modTime.After(b.modTime)
	}
	return a.match.Running && !b.match.Running
}
