// Package logging configures per-component logrus loggers writing to the
// monitor state directory. The hook path runs inline with the event source's
// own control flow, so loggers must never fail the caller: when the log file
// cannot be opened, output is discarded.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
)

// New returns a logger for the given component, writing to monitor.log in
// stateDir. Loggers are cached per component.
func New(component, stateDir string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if entry, ok := loggers[component]; ok {
		return entry
	}

	logger := logrus.New()
	logger.SetLevel(level())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetOutput(output(stateDir))

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

func level() logrus.Level {
	lvl, err := logrus.ParseLevel(os.Getenv("CLAUDE_MONITOR_LOG_LEVEL"))
	if err != nil {
		return logrus.WarnLevel
	}
	return lvl
}

func output(stateDir string) io.Writer {
	if stateDir == "" {
		return io.Discard
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return io.Discard
	}
	f, err := os.OpenFile(filepath.Join(stateDir, "monitor.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return io.Discard
	}
	return f
}
