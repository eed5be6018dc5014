package hook

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ideTagRE    = regexp.MustCompile(`(?s)<ide_\w+>.*?</ide_\w+>`)
	systemTagRE = regexp.MustCompile(`(?s)<system-reminder>.*?</system-reminder>`)
)

// CleanPrompt strips injected IDE context tags and system reminders from a
// user prompt so only the text the user actually typed remains.
func CleanPrompt(text string) string {
	text = ideTagRE.ReplaceAllString(text, "")
	text = systemTagRE.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// projectName derives a project label from a working directory: the name of
// the nearest ancestor containing .git, falling back to the directory's own
// base name.
func projectName(cwd string) string {
	if cwd == "" {
		return ""
	}
	for dir := cwd; ; {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return filepath.Base(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return filepath.Base(cwd)
}
