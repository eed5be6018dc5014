package monitor_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/luxlabs/claude-monitor/internal/monitor"
	"github.com/luxlabs/claude-monitor/internal/store"
)

// recordingPort captures every signal the engine emits.
type recordingPort struct {
	mu         sync.Mutex
	requested  []string
	cancelled  []string
	waitDeltas []int
}

func (p *recordingPort) AttentionRequested(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requested = append(p.requested, id)
}

func (p *recordingPort) AttentionCancelled(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelled = append(p.cancelled, id)
}

func (p *recordingPort) WaitingCountChanged(id string, delta int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waitDeltas = append(p.waitDeltas, delta)
}

func (p *recordingPort) snapshot() (requested, cancelled []string, deltas []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requested...),
		append([]string(nil), p.cancelled...),
		append([]int(nil), p.waitDeltas...)
}

func newEngine(t *testing.T) (*monitor.Engine, *store.Store, *recordingPort) {
	t.Helper()
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	port := &recordingPort{}
	return monitor.NewEngine(st, "", port, nil), st, port
}

func writeRecord(t *testing.T, st *store.Store, id string, status store.Status, updated time.Time) {
	t.Helper()
	err := st.Write(&store.SessionRecord{
		SessionID:   id,
		Status:      status,
		StartedAt:   updated.Add(-time.Minute),
		LastUpdated: updated,
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
}

func TestTickFiltersZombies(t *testing.T) {
	engine, st, _ := newEngine(t)
	now := time.Now()

	fresh := uuid.NewString()
	waiting3h := uuid.NewString()
	waiting5h := uuid.NewString()
	active20m := uuid.NewString()

	writeRecord(t, st, fresh, store.StatusThinking, now.Add(-time.Minute))
	writeRecord(t, st, waiting3h, store.StatusWaiting, now.Add(-3*time.Hour))
	writeRecord(t, st, waiting5h, store.StatusWaiting, now.Add(-5*time.Hour))
	writeRecord(t, st, active20m, store.StatusExecuting, now.Add(-20*time.Minute))

	rows := engine.Tick(now)

	seen := make(map[string]bool)
	for _, row := range rows {
		seen[row.Record.SessionID] = true
	}
	if !seen[fresh] || !seen[waiting3h] {
		t.Fatalf("fresh and 3h-waiting sessions should be visible, got %v", seen)
	}
	if seen[waiting5h] {
		t.Fatal("a WAITING session idle for 5h is a zombie and must be hidden")
	}
	if seen[active20m] {
		t.Fatal("an EXECUTING session idle for 20m is a zombie and must be hidden")
	}

	// The filter is view-only: all files stay on disk.
	records, err := st.ListAll()
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("filter must never delete files, want 4 on disk, got %d", len(records))
	}
}

func TestTickSortsActiveFirstThenRecency(t *testing.T) {
	engine, st, _ := newEngine(t)
	now := time.Now()

	oldActive := uuid.NewString()
	newActive := uuid.NewString()
	newEnded := uuid.NewString()

	writeRecord(t, st, oldActive, store.StatusThinking, now.Add(-5*time.Minute))
	writeRecord(t, st, newActive, store.StatusExecuting, now.Add(-time.Minute))
	// Most recently updated of all, but ENDED sorts after every live session.
	writeRecord(t, st, newEnded, store.StatusEnded, now.Add(-30*time.Second))

	rows := engine.Tick(now)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	got := []string{rows[0].Record.SessionID, rows[1].Record.SessionID, rows[2].Record.SessionID}
	want := []string{newActive, oldActive, newEnded}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sort order mismatch at %d:\ngot  %v\nwant %v", i, got, want)
		}
	}
}

func TestSortStableForEqualTimestamps(t *testing.T) {
	engine, st, _ := newEngine(t)
	now := time.Now()
	shared := now.Add(-time.Minute).Truncate(time.Second)

	// Same status, identical last_updated: the listing order (lexicographic
	// by record file name) must survive the sort untouched.
	ids := []string{"a-" + uuid.NewString(), "b-" + uuid.NewString(), "c-" + uuid.NewString()}
	for _, id := range ids {
		writeRecord(t, st, id, store.StatusThinking, shared)
	}

	rows := engine.Tick(now)
	if len(rows) != len(ids) {
		t.Fatalf("expected %d rows, got %d", len(ids), len(rows))
	}
	for i, id := range ids {
		if rows[i].Record.SessionID != id {
			t.Fatalf("equal-key order not preserved at %d: got %s, want %s",
				i, rows[i].Record.SessionID, id)
		}
	}
}

func TestFirstTickEmitsNoSignals(t *testing.T) {
	engine, st, port := newEngine(t)
	now := time.Now()

	writeRecord(t, st, uuid.NewString(), store.StatusPermission, now)
	writeRecord(t, st, uuid.NewString(), store.StatusWaiting, now)

	engine.Tick(now)

	requested, cancelled, deltas := port.snapshot()
	if len(requested) != 0 || len(cancelled) != 0 || len(deltas) != 0 {
		t.Fatalf("first tick must only seed state, got requested=%v cancelled=%v deltas=%v",
			requested, cancelled, deltas)
	}
}

func TestPermissionTransitionSignals(t *testing.T) {
	engine, st, port := newEngine(t)
	now := time.Now()
	id := uuid.NewString()

	writeRecord(t, st, id, store.StatusThinking, now)
	engine.Tick(now)

	writeRecord(t, st, id, store.StatusPermission, now.Add(time.Second))
	engine.Tick(now.Add(time.Second))

	requested, cancelled, _ := port.snapshot()
	if len(requested) != 1 || requested[0] != id {
		t.Fatalf("expected one AttentionRequested for %s, got %v", id, requested)
	}
	if len(cancelled) != 0 {
		t.Fatalf("no cancellation expected yet, got %v", cancelled)
	}

	// Still in PERMISSION: no repeat signal.
	engine.Tick(now.Add(2 * time.Second))
	requested, _, _ = port.snapshot()
	if len(requested) != 1 {
		t.Fatalf("signal must be edge-triggered, got %v", requested)
	}

	writeRecord(t, st, id, store.StatusExecuting, now.Add(3*time.Second))
	engine.Tick(now.Add(3 * time.Second))
	_, cancelled, _ = port.snapshot()
	if len(cancelled) != 1 || cancelled[0] != id {
		t.Fatalf("expected one AttentionCancelled for %s, got %v", id, cancelled)
	}
}

func TestWaitingCountSignals(t *testing.T) {
	engine, st, port := newEngine(t)
	now := time.Now()
	id := uuid.NewString()

	writeRecord(t, st, id, store.StatusThinking, now)
	engine.Tick(now)

	writeRecord(t, st, id, store.StatusWaiting, now.Add(time.Second))
	engine.Tick(now.Add(time.Second))

	writeRecord(t, st, id, store.StatusThinking, now.Add(2*time.Second))
	engine.Tick(now.Add(2 * time.Second))

	_, _, deltas := port.snapshot()
	if len(deltas) != 2 || deltas[0] != 1 || deltas[1] != -1 {
		t.Fatalf("expected deltas [1 -1], got %v", deltas)
	}
}

func TestVanishedPermissionSessionCancelledOnce(t *testing.T) {
	engine, st, port := newEngine(t)
	now := time.Now()
	id := uuid.NewString()

	writeRecord(t, st, id, store.StatusThinking, now)
	engine.Tick(now)

	writeRecord(t, st, id, store.StatusPermission, now.Add(time.Second))
	engine.Tick(now.Add(time.Second))

	// Session ends while the permission prompt is up: the record disappears
	// without ever leaving PERMISSION.
	if err := st.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	engine.Tick(now.Add(2 * time.Second))
	engine.Tick(now.Add(3 * time.Second))

	_, cancelled, _ := port.snapshot()
	if len(cancelled) != 1 || cancelled[0] != id {
		t.Fatalf("expected exactly one AttentionCancelled, got %v", cancelled)
	}
}

// blockingPort stalls the first AttentionRequested callback so a tick can be
// held in flight mid-signal.
type blockingPort struct {
	recordingPort
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *blockingPort) AttentionRequested(id string) {
	p.once.Do(func() {
		close(p.entered)
		<-p.release
	})
	p.recordingPort.AttentionRequested(id)
}

func TestOverlappingTickSkipped(t *testing.T) {
	st, err := store.New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	port := &blockingPort{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	engine := monitor.NewEngine(st, "", port, nil)

	now := time.Now()
	id := uuid.NewString()
	writeRecord(t, st, id, store.StatusThinking, now)
	engine.Tick(now)

	writeRecord(t, st, id, store.StatusPermission, now.Add(time.Second))

	done := make(chan struct{})
	go func() {
		defer close(done)
		engine.Tick(now.Add(time.Second))
	}()
	<-port.entered

	// The second Tick arrives while the first is still in flight: it must be
	// a no-op returning the previously published view, with no signals.
	rows := engine.Tick(now.Add(2 * time.Second))
	if len(rows) != 1 || rows[0].Record.Status != store.StatusThinking {
		t.Fatalf("overlapping tick must return the prior view, got %+v", rows)
	}
	if requested, _, _ := port.snapshot(); len(requested) != 0 {
		t.Fatalf("overlapping tick must not emit signals, got %v", requested)
	}

	close(port.release)
	<-done

	requested, _, _ := port.snapshot()
	if len(requested) != 1 || requested[0] != id {
		t.Fatalf("expected exactly one AttentionRequested from the blocked tick, got %v", requested)
	}
	if rows := engine.View(); rows[0].Record.Status != store.StatusPermission {
		t.Fatalf("finished tick should publish the new view, got %+v", rows[0].Record)
	}
}

func TestViewReturnsCopy(t *testing.T) {
	engine, st, _ := newEngine(t)
	now := time.Now()
	writeRecord(t, st, uuid.NewString(), store.StatusThinking, now)

	engine.Tick(now)
	view := engine.View()
	if len(view) != 1 {
		t.Fatalf("expected 1 row, got %d", len(view))
	}
	view[0] = monitor.Row{}
	if fresh := engine.View(); fresh[0].Record == nil {
		t.Fatal("mutating a returned view must not affect the engine")
	}
}

func TestCustomThresholds(t *testing.T) {
	engine, st, _ := newEngine(t)
	engine.SetThresholds(monitor.Thresholds{
		Waiting: time.Minute,
		Active:  time.Minute,
		Ended:   time.Minute,
	})
	now := time.Now()

	writeRecord(t, st, uuid.NewString(), store.StatusWaiting, now.Add(-2*time.Minute))
	if rows := engine.Tick(now); len(rows) != 0 {
		t.Fatalf("tightened threshold should hide the session, got %d rows", len(rows))
	}
}
