package tui

import (
	"fmt"
	"strings"
	"time"
)

var modelShort = map[string]string{
	"claude-opus-4-6":           "opus",
	"claude-sonnet-4-6":         "sonnet",
	"claude-haiku-4-5-20251001": "haiku",
}

var modeShort = map[string]string{
	"default":           "default",
	"plan":              "plan",
	"acceptEdits":       "autoEdit",
	"dontAsk":           "dontAsk",
	"bypassPermissions": "bypass",
}

// formatClock renders a timestamp as local HH:MM:SS.
func formatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("15:04:05")
}

// formatDuration renders the elapsed time since start as H:MM:SS or M:SS.
func formatDuration(start, now time.Time) string {
	if start.IsZero() || now.Before(start) {
		return "-"
	}
	total := int(now.Sub(start).Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// shortModel abbreviates a model identifier to its family name.
func shortModel(model string) string {
	if model == "" {
		return "-"
	}
	if s, ok := modelShort[model]; ok {
		return s
	}
	if i := strings.LastIndex(model, "-"); i >= 0 && i+1 < len(model) {
		return model[i+1:]
	}
	return model
}

// shortMode abbreviates a permission mode.
func shortMode(mode string) string {
	if mode == "" {
		return "-"
	}
	if s, ok := modeShort[mode]; ok {
		return s
	}
	return mode
}

// truncate collapses newlines and shortens text to maxLen with an ellipsis.
func truncate(text string, maxLen int) string {
	if text == "" {
		return "-"
	}
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen < 1 {
		return ""
	}
	return string(runes[:maxLen-1]) + "…"
}
