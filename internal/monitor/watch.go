package monitor

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces bursts of filesystem events into a single tick.
// A hook invocation writes a temp file and renames it, so one logical update
// produces several fsnotify events.
const debounceWindow = 100 * time.Millisecond

// Run drives the engine until ctx is cancelled: a fixed-interval ticker plus
// a debounced filesystem-change kick on the sessions and IDE directories.
// The two triggers are interchangeable because ticks are idempotent; the
// watcher just makes the view converge faster. Watcher setup failure is
// non-fatal — the ticker alone keeps the view current.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	var fsEvents chan fsnotify.Event
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		if err := watcher.Add(e.store.Dir()); err != nil && e.log != nil {
			e.log.WithError(err).Debug("cannot watch sessions directory")
		}
		if e.ideDir != "" {
			// Best effort: the IDE directory may not exist yet.
			_ = watcher.Add(e.ideDir)
		}
		fsEvents = make(chan fsnotify.Event)
		go func() {
			defer close(fsEvents)
			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					select {
					case fsEvents <- ev:
					case <-ctx.Done():
						return
					}
				case _, ok := <-watcher.Errors:
					if !ok {
						return
					}
					// Watcher errors are non-fatal; the ticker still fires.
				}
			}
		}()
	} else if e.log != nil {
		e.log.WithError(err).Debug("fsnotify unavailable, polling only")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.Tick(time.Now())

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			e.Tick(time.Now())

		case _, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			debounce = time.After(debounceWindow)

		case <-debounce:
			debounce = nil
			e.Tick(time.Now())
		}
	}
}
