// Package monitor reconciles the on-disk session records into a sorted,
// zombie-filtered view and detects status transitions between refreshes.
package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/luxlabs/claude-monitor/internal/ide"
	"github.com/luxlabs/claude-monitor/internal/store"
)

// Thresholds are the per-status staleness limits. A record older than its
// status's threshold is a zombie: its host process is presumed dead and the
// record is hidden from the view. Files are never deleted here.
type Thresholds struct {
	Waiting time.Duration // user may still be reading output
	Active  time.Duration // STARTING/THINKING/EXECUTING/PERMISSION
	Ended   time.Duration // normally deleted on SessionEnd, kept for safety
}

// DefaultThresholds returns the standard staleness policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Waiting: 4 * time.Hour,
		Active:  15 * time.Minute,
		Ended:   24 * time.Hour,
	}
}

func (t Thresholds) forStatus(s store.Status) time.Duration {
	switch s {
	case store.StatusWaiting:
		return t.Waiting
	case store.StatusEnded:
		return t.Ended
	default:
		return t.Active
	}
}

// Row is one entry of the published view: a session record plus the editor
// instance matched to its working directory, if any.
type Row struct {
	Record *store.SessionRecord
	IDE    *ide.Match
}

// Engine derives the session view from the record store on every tick.
//
// Each tick is a complete re-derivation from scratch; the only state carried
// across ticks is the previous-status map used for transition detection, and
// it is owned per-instance so concurrent engines (a terminal view and a
// background watcher, say) never interfere. The store is the sole writer of
// truth — the engine never mutates record files.
type Engine struct {
	store      *store.Store
	ideDir     string
	port       SignalPort
	log        *logrus.Entry
	thresholds Thresholds

	tickMu sync.Mutex // serializes ticks; an overlapping tick is skipped

	viewMu sync.RWMutex
	view   []Row

	prev      map[string]store.Status
	attention map[string]bool // sessions currently tracked in PERMISSION
	waiting   map[string]bool // sessions currently tracked in WAITING
	ticked    bool
}

// NewEngine returns an Engine reading records from st and IDE locks from
// ideDir, emitting signals to port.
func NewEngine(st *store.Store, ideDir string, port SignalPort, log *logrus.Entry) *Engine {
	if port == nil {
		port = NopPort{}
	}
	return &Engine{
		store:      st,
		ideDir:     ideDir,
		port:       port,
		log:        log,
		thresholds: DefaultThresholds(),
		prev:       make(map[string]store.Status),
		attention:  make(map[string]bool),
		waiting:    make(map[string]bool),
	}
}

// SetThresholds overrides the staleness policy. Call before the first tick.
func (e *Engine) SetThresholds(t Thresholds) {
	e.thresholds = t
}

// View returns the most recently published rows.
func (e *Engine) View() []Row {
	e.viewMu.RLock()
	defer e.viewMu.RUnlock()
	out := make([]Row, len(e.view))
	copy(out, e.view)
	return out
}

// Tick runs one reconciliation pass and returns the published view.
//
// If another tick is still in flight the call is a no-op returning the
// current view. On a total read failure the previous view stays published
// and no signals fire.
func (e *Engine) Tick(now time.Time) []Row {
	if !e.tickMu.TryLock() {
		return e.View()
	}
	defer e.tickMu.Unlock()

	records, err := e.store.ListAll()
	if err != nil {
		if e.log != nil {
			e.log.WithError(err).Warn("skipping tick: cannot list session records")
		}
		return e.View()
	}

	live := e.filterStale(records, now)
	sortRecords(live)

	locks := ide.LoadLocks(e.ideDir)
	rows := make([]Row, 0, len(live))
	for _, rec := range live {
		row := Row{Record: rec}
		if m, ok := ide.MatchWorkspace(rec.Cwd, locks); ok {
			row.IDE = &m
		}
		rows = append(rows, row)
	}

	e.detectTransitions(live)

	e.viewMu.Lock()
	e.view = rows
	e.viewMu.Unlock()
	return e.View()
}

// filterStale drops zombie records from the view. Files stay untouched; the
// cleanup command is the only path that deletes by age.
func (e *Engine) filterStale(records []*store.SessionRecord, now time.Time) []*store.SessionRecord {
	live := make([]*store.SessionRecord, 0, len(records))
	for _, rec := range records {
		if now.Sub(rec.LastUpdated) > e.thresholds.forStatus(rec.Status) {
			continue
		}
		live = append(live, rec)
	}
	return live
}

// sortRecords orders active sessions before ended ones, most recently
// updated first within each group. Stable for equal keys.
func sortRecords(records []*store.SessionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.IsActive() != b.IsActive() {
			return a.IsActive()
		}
		return a.LastUpdated.After(b.LastUpdated)
	})
}

// detectTransitions compares the current snapshot against the previous tick
// and emits edge signals. Transitions are inferred purely from status deltas
// between consecutive snapshots: multiple real transitions inside one tick
// interval collapse to their net effect, which is acceptable at the tick
// granularity this engine runs at.
func (e *Engine) detectTransitions(live []*store.SessionRecord) {
	current := make(map[string]store.Status, len(live))
	for _, rec := range live {
		current[rec.SessionID] = rec.Status
	}

	// The very first tick only seeds the maps. Firing "entered" signals for
	// sessions that were already in PERMISSION or WAITING before the engine
	// started would be spurious.
	if !e.ticked {
		e.ticked = true
		e.prev = current
		for id, st := range current {
			switch st {
			case store.StatusPermission:
				e.attention[id] = true
			case store.StatusWaiting:
				e.waiting[id] = true
			}
		}
		return
	}

	for id, cur := range current {
		prev, known := e.prev[id]

		if cur == store.StatusPermission && (!known || prev != store.StatusPermission) {
			e.attention[id] = true
			e.port.AttentionRequested(id)
		}
		if known && prev == store.StatusPermission && cur != store.StatusPermission {
			delete(e.attention, id)
			e.port.AttentionCancelled(id)
		}

		if cur == store.StatusWaiting && (!known || prev != store.StatusWaiting) {
			e.waiting[id] = true
			e.port.WaitingCountChanged(id, 1)
		}
		if known && prev == store.StatusWaiting && cur != store.StatusWaiting {
			delete(e.waiting, id)
			e.port.WaitingCountChanged(id, -1)
		}
	}

	// Sessions that vanished without an observed leave transition, e.g.
	// deleted on SessionEnd while still in PERMISSION.
	for id := range e.prev {
		if _, ok := current[id]; ok {
			continue
		}
		if e.attention[id] {
			delete(e.attention, id)
			e.port.AttentionCancelled(id)
		}
		if e.waiting[id] {
			delete(e.waiting, id)
			e.port.WaitingCountChanged(id, -1)
		}
	}

	e.prev = current
}
