// Package tui provides the Bubble Tea dashboard over the reconciled session
// view. Everything here is presentation: the engine owns the data.
package tui

import (
	"fmt"
	"strings"
	"time"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luxlabs/claude-monitor/internal/monitor"
	"github.com/luxlabs/claude-monitor/internal/store"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(catppuccin.Mocha.Crust().Hex)).
			Background(lipgloss.Color(catppuccin.Mocha.Mauve().Hex)).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(catppuccin.Mocha.Subtext1().Hex))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(catppuccin.Mocha.Overlay0().Hex))

	attentionBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(catppuccin.Mocha.Crust().Hex)).
				Background(lipgloss.Color(catppuccin.Mocha.Red().Hex)).
				Padding(0, 1)

	waitingBadgeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(catppuccin.Mocha.Crust().Hex)).
				Background(lipgloss.Color(catppuccin.Mocha.Green().Hex)).
				Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color(catppuccin.Mocha.Surface0().Hex)).
			Foreground(lipgloss.Color(catppuccin.Mocha.Subtext0().Hex)).
			Padding(0, 1)

	statusStyles = map[store.Status]lipgloss.Style{
		store.StatusStarting:   lipgloss.NewStyle().Foreground(lipgloss.Color(catppuccin.Mocha.Sky().Hex)),
		store.StatusThinking:   lipgloss.NewStyle().Foreground(lipgloss.Color(catppuccin.Mocha.Yellow().Hex)),
		store.StatusExecuting:  lipgloss.NewStyle().Foreground(lipgloss.Color(catppuccin.Mocha.Blue().Hex)),
		store.StatusPermission: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(catppuccin.Mocha.Red().Hex)),
		store.StatusWaiting:    lipgloss.NewStyle().Foreground(lipgloss.Color(catppuccin.Mocha.Green().Hex)),
		store.StatusEnded:      dimStyle,
	}
)

func statusStyle(s store.Status) lipgloss.Style {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// ── Model ────────────────────

type tickMsg time.Time

// Model is the root Bubble Tea model for the monitor dashboard.
type Model struct {
	engine     *monitor.Engine
	store      *store.Store
	badge      *Badge
	cleanupAge time.Duration

	rows     []monitor.Row
	viewport viewport.Model
	width    int
	height   int
	ready    bool
	notice   string
}

// New creates the dashboard model. badge must be the same SignalPort the
// engine was constructed with.
func New(engine *monitor.Engine, st *store.Store, badge *Badge, cleanupAge time.Duration) Model {
	return Model{
		engine:     engine,
		store:      st,
		badge:      badge,
		cleanupAge: cleanupAge,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.refresh()
			m.notice = "refreshed"
			return m, nil
		case "c":
			removed, err := m.store.Purge(m.cleanupAge, time.Now())
			if err != nil {
				m.notice = "cleanup failed"
			} else {
				m.notice = fmt.Sprintf("cleaned up %d old session(s)", removed)
			}
			m.refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tickMsg:
		m.notice = ""
		m.refresh()
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title(1) + header(1) + statusBar(1) = 3 fixed rows
		vpHeight := m.height - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.viewport = viewport.New(m.width, vpHeight)
		m.ready = true
		m.refresh()
		return m, nil
	}
	return m, nil
}

func (m *Model) refresh() {
	m.rows = m.engine.Tick(time.Now())
	if m.ready {
		m.viewport.SetContent(m.renderRows())
	}
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := m.renderTitle()
	header := headerStyle.Render(fmt.Sprintf(
		"  %-20s %-11s %-14s %-8s %-9s %5s  %8s  %8s  %-8s %s",
		"PROJECT", "STATUS", "TOOL", "MODEL", "MODE", "TOOLS", "ELAPSED", "UPDATED", "IDE", "TOPIC",
	))

	hint := "  q quit  r refresh  c cleanup"
	if m.notice != "" {
		hint += "  · " + m.notice
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint)

	return lipgloss.JoinVertical(lipgloss.Left, title, header, m.viewport.View(), statusBar)
}

func (m Model) renderTitle() string {
	label := fmt.Sprintf("claude-monitor · %d session(s)", len(m.rows))
	parts := []string{titleStyle.Render(label)}

	waiting, attention := m.badge.Counts()
	if attention > 0 {
		parts = append(parts, attentionBadgeStyle.Render(fmt.Sprintf("%d needs attention", attention)))
	}
	if waiting > 0 {
		parts = append(parts, waitingBadgeStyle.Render(fmt.Sprintf("%d waiting", waiting)))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderRows() string {
	if len(m.rows) == 0 {
		return dimStyle.Render("\n  no active sessions\n")
	}

	now := time.Now()
	var sb strings.Builder
	for _, row := range m.rows {
		rec := row.Record

		project := rec.Project
		if project == "" {
			project = rec.Cwd
		}
		tool := rec.ToolName
		if tool == "" {
			tool = "-"
		}
		tools := "-"
		if rec.ToolCount > 0 {
			tools = fmt.Sprintf("%d", rec.ToolCount)
		}
		ideName := "-"
		if row.IDE != nil {
			ideName = row.IDE.IdeName
			if !row.IDE.Running {
				ideName += "?"
			}
		}
		topic := rec.Topic
		if topic == "" {
			topic = rec.LastPrompt
		}

		sb.WriteString(fmt.Sprintf(
			"  %-20s %s %-14s %-8s %-9s %5s  %8s  %8s  %-8s %s\n",
			truncate(project, 20),
			statusStyle(rec.Status).Render(fmt.Sprintf("%-11s", rec.Status)),
			truncate(tool, 14),
			shortModel(rec.Model),
			shortMode(rec.PermissionMode),
			tools,
			formatDuration(rec.StartedAt, now),
			formatClock(rec.LastUpdated),
			truncate(ideName, 8),
			truncate(topic, 50),
		))

		for i, sa := range rec.Subagents {
			prefix := "  ├─ "
			if i == len(rec.Subagents)-1 {
				prefix = "  └─ "
			}
			name := sa.AgentType
			if name == "" {
				name = truncate(sa.AgentID, 12)
			}
			sb.WriteString(dimStyle.Render(fmt.Sprintf(
				"  %s%-16s %-11s %s",
				prefix, name, sa.Status, formatClock(sa.LastUpdated),
			)) + "\n")
		}
	}
	return sb.String()
}

// Run starts the dashboard and blocks until the user quits.
func Run(engine *monitor.Engine, st *store.Store, badge *Badge, cleanupAge time.Duration) error {
	p := tea.NewProgram(New(engine, st, badge, cleanupAge), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
