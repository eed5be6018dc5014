package tui

import "sync"

// Badge implements monitor.SignalPort by tracking how many sessions are
// waiting for input or blocked on a permission prompt. It is safe to share
// between the engine goroutine and the TUI.
type Badge struct {
	mu        sync.Mutex
	waiting   map[string]bool
	attention map[string]bool
}

// NewBadge returns an empty Badge.
func NewBadge() *Badge {
	return &Badge{
		waiting:   make(map[string]bool),
		attention: make(map[string]bool),
	}
}

func (b *Badge) AttentionRequested(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attention[sessionID] = true
}

func (b *Badge) AttentionCancelled(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.attention, sessionID)
}

func (b *Badge) WaitingCountChanged(sessionID string, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if delta > 0 {
		b.waiting[sessionID] = true
	} else {
		delete(b.waiting, sessionID)
	}
}

// Counts returns the number of waiting sessions and sessions requesting
// attention.
func (b *Badge) Counts() (waiting, attention int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.waiting), len(b.attention)
}
