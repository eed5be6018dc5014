package monitor

// SignalPort receives edge-triggered signals as sessions enter and leave
// states that need user attention. The engine calls it during a tick; any
// presentation layer (terminal badge, desktop notification) implements it
// however its platform requires.
type SignalPort interface {
	// AttentionRequested fires when a session enters PERMISSION.
	AttentionRequested(sessionID string)
	// AttentionCancelled fires when a session leaves PERMISSION, including by
	// disappearing from the record set entirely.
	AttentionCancelled(sessionID string)
	// WaitingCountChanged fires with delta +1 when a session enters WAITING
	// and -1 when it leaves.
	WaitingCountChanged(sessionID string, delta int)
}

// NopPort discards all signals.
type NopPort struct{}

func (NopPort) AttentionRequested(string)       {}
func (NopPort) AttentionCancelled(string)       {}
func (NopPort) WaitingCountChanged(string, int) {}
