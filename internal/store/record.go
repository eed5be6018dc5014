package store

import "time"

// Status is the lifecycle state of a monitored session.
type Status string

const (
	StatusStarting   Status = "STARTING"
	StatusThinking   Status = "THINKING"
	StatusExecuting  Status = "EXECUTING"
	StatusPermission Status = "PERMISSION"
	StatusWaiting    Status = "WAITING"
	StatusEnded      Status = "ENDED"
)

// SessionRecord is the persisted snapshot of one session. One record exists
// per live session; the record file is deleted (not archived) on session end.
type SessionRecord struct {
	SessionID      string           `json:"session_id"`
	Cwd            string           `json:"cwd"`
	Project        string           `json:"project"`
	Status         Status           `json:"status"`
	ToolName       string           `json:"tool_name,omitempty"`
	PermissionMode string           `json:"permission_mode"`
	Model          string           `json:"model"`
	Topic          string           `json:"topic"`
	LastPrompt     string           `json:"last_prompt"`
	ToolCount      int              `json:"tool_count"`
	StartedAt      time.Time        `json:"started_at"`
	LastUpdated    time.Time        `json:"last_updated"`
	Subagents      []SubagentRecord `json:"subagents"`
}

// SubagentRecord tracks one running subagent of a session. Entries are unique
// by AgentID, appended on subagent start and removed on subagent stop.
type SubagentRecord struct {
	AgentID     string    `json:"agent_id"`
	AgentType   string    `json:"agent_type"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"last_updated"`
}

// IsActive reports whether the session has not ended.
func (r *SessionRecord) IsActive() bool {
	return r.Status != StatusEnded
}

// HasSubagent reports whether a subagent with the given ID is tracked.
func (r *SessionRecord) HasSubagent(agentID string) bool {
	for _, sa := range r.Subagents {
		if sa.AgentID == agentID {
			return true
		}
	}
	return false
}

// RemoveSubagent drops the subagent with the given ID, if present.
func (r *SessionRecord) RemoveSubagent(agentID string) {
	kept := r.Subagents[:0]
	for _, sa := range r.Subagents {
		if sa.AgentID != agentID {
			kept = append(kept, sa)
		}
	}
	r.Subagents = kept
}
