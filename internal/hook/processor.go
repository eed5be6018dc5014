package hook

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/luxlabs/claude-monitor/internal/store"
)

// userInputTools are tools that pause for user input rather than executing;
// a PreToolUse for one of these means the session is waiting on a human.
var userInputTools = map[string]bool{
	"ExitPlanMode":    true,
	"AskUserQuestion": true,
}

// Processor folds lifecycle events into session records, one event per call.
//
// Each invocation is a full read-modify-write of the record so the persisted
// file is always a complete, self-consistent snapshot. Processing runs inline
// with the event source, so failures degrade to "state not updated this time":
// the caller logs the returned error and moves on, never blocking the source.
type Processor struct {
	store *store.Store
	log   *logrus.Entry
	now   func() time.Time
}

// NewProcessor returns a Processor writing through st.
func NewProcessor(st *store.Store, log *logrus.Entry) *Processor {
	return &Processor{store: st, log: log, now: time.Now}
}

// Process applies one event to the session record it addresses.
//
// Events for sessions with no record are dropped unless the event is a
// SessionStart: the lifecycle stream is authoritative, and a session that
// started before the monitor's visibility window is not a correctness
// concern.
func (p *Processor) Process(ev *Event) error {
	rec, err := p.store.Read(ev.SessionID)
	if err != nil {
		return err
	}

	if ev.Kind == KindSessionEnd {
		return p.store.Delete(ev.SessionID)
	}

	now := p.now()
	if rec == nil {
		if ev.Kind != KindSessionStart {
			p.log.WithFields(logrus.Fields{
				"session_id": ev.SessionID,
				"event":      ev.Kind,
			}).Debug("dropping event for unknown session")
			return nil
		}
		rec = &store.SessionRecord{
			SessionID: ev.SessionID,
			Status:    store.StatusStarting,
			StartedAt: now,
			Subagents: []store.SubagentRecord{},
		}
	}

	switch ev.Kind {
	case KindSessionStart:
		rec.Status = store.StatusStarting
		if ev.Model != "" {
			rec.Model = ev.Model
		}

	case KindUserPromptSubmit:
		rec.Status = store.StatusThinking
		rec.LastPrompt = ev.Prompt
		if rec.Topic == "" {
			if cleaned := CleanPrompt(ev.Prompt); cleaned != "" {
				rec.Topic = cleaned
			}
		}

	case KindPreToolUse:
		if userInputTools[ev.ToolName] {
			rec.Status = store.StatusPermission
		} else {
			rec.Status = store.StatusExecuting
		}
		rec.ToolName = ev.ToolName

	case KindPostToolUse:
		rec.Status = store.StatusThinking
		rec.ToolCount++

	case KindPermissionRequest:
		rec.Status = store.StatusPermission

	case KindNotification:
		if ev.NotificationType == "permission_prompt" {
			rec.Status = store.StatusPermission
		}

	case KindStop:
		rec.Status = store.StatusWaiting

	case KindSubagentStart:
		if ev.AgentID != "" && !rec.HasSubagent(ev.AgentID) {
			rec.Subagents = append(rec.Subagents, store.SubagentRecord{
				AgentID:     ev.AgentID,
				AgentType:   ev.AgentType,
				Status:      "running",
				LastUpdated: now,
			})
		}

	case KindSubagentStop:
		rec.RemoveSubagent(ev.AgentID)
	}

	if ev.Cwd != "" {
		rec.Cwd = ev.Cwd
		rec.Project = projectName(ev.Cwd)
	}
	if ev.PermissionMode != "" {
		rec.PermissionMode = ev.PermissionMode
	}
	rec.LastUpdated = now

	return p.store.Write(rec)
}
