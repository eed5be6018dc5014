package hook

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind identifies a lifecycle event emitted by the monitored agent.
type Kind string

const (
	KindSessionStart      Kind = "SessionStart"
	KindUserPromptSubmit  Kind = "UserPromptSubmit"
	KindPreToolUse        Kind = "PreToolUse"
	KindPostToolUse       Kind = "PostToolUse"
	KindPermissionRequest Kind = "PermissionRequest"
	KindNotification      Kind = "Notification"
	KindStop              Kind = "Stop"
	KindSessionEnd        Kind = "SessionEnd"
	KindSubagentStart     Kind = "SubagentStart"
	KindSubagentStop      Kind = "SubagentStop"
)

var knownKinds = map[Kind]bool{
	KindSessionStart:      true,
	KindUserPromptSubmit:  true,
	KindPreToolUse:        true,
	KindPostToolUse:       true,
	KindPermissionRequest: true,
	KindNotification:      true,
	KindStop:              true,
	KindSessionEnd:        true,
	KindSubagentStart:     true,
	KindSubagentStop:      true,
}

// ErrNoSessionID is returned for events that carry no session_id; such events
// cannot be attributed to a record and are dropped by the caller.
var ErrNoSessionID = errors.New("event has no session_id")

// Event is one lifecycle notification, as delivered on stdin by the hook
// command. The wire format is a single flat JSON object; fields beyond the
// kind tag and session_id are kind-specific and may be empty.
type Event struct {
	Kind             Kind   `json:"hook_event_name"`
	SessionID        string `json:"session_id"`
	TranscriptPath   string `json:"transcript_path,omitempty"`
	Cwd              string `json:"cwd,omitempty"`
	PermissionMode   string `json:"permission_mode,omitempty"`
	Model            string `json:"model,omitempty"`
	ToolName         string `json:"tool_name,omitempty"`
	Prompt           string `json:"prompt,omitempty"`
	NotificationType string `json:"notification_type,omitempty"`
	AgentID          string `json:"agent_id,omitempty"`
	AgentType        string `json:"agent_type,omitempty"`
}

// ParseEvent parses raw JSON into an Event, rejecting payloads without a
// recognized kind or a session_id.
func ParseEvent(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("failed to parse hook event: %w", err)
	}
	if ev.Kind == "" {
		return nil, errors.New("missing hook_event_name")
	}
	if !knownKinds[ev.Kind] {
		return nil, fmt.Errorf("unknown hook event: %s", ev.Kind)
	}
	if ev.SessionID == "" {
		return nil, ErrNoSessionID
	}
	return &ev, nil
}
