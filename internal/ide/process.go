package ide

import (
	"os"
	"syscall"
)

// isProcessAlive reports whether a process with the given pid exists. On
// Unix, signal 0 probes for existence without delivering anything; EPERM
// still means the process is alive, just owned by someone else.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || os.IsPermission(err)
}
