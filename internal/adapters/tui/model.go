// Package tui provides the interactive terminal observer for extbuild.
package tui

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/ui/output"
)

const (
	taskListWidthRatio = 0.4
	logPaneBorderWidth = 4
	// maxLogLines bounds the log history kept for the log pane.
	maxLogLines = 500
)

// MsgTasks carries a task list snapshot.
type MsgTasks struct {
	Rows []domain.TaskSnapshot
}

// MsgLog carries one observer log line.
type MsgLog struct {
	Text     string
	Severity domain.Severity
}

// MsgStatus replaces the run status line.
type MsgStatus struct {
	Text string
}

// LogLine is one entry of the log pane.
type LogLine struct {
	Text     string
	Severity domain.Severity
}

// Model represents the main TUI state.
type Model struct {
	Rows        []domain.TaskSnapshot
	Logs        []LogLine
	Status      string
	SelectedIdx int
	ListOffset  int
	ListHeight  int
	Width       int
	Height      int
	FollowMode  bool

	onQuit func()
}

// NewModel creates a new TUI model writing to w.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	return Model{FollowMode: true}
}

// WithQuitHandler registers fn to run when the operator quits the TUI.
func (m Model) WithQuitHandler(fn func()) Model {
	m.onQuit = fn
	return m
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

func (m *Model) selected() (domain.TaskSnapshot, bool) {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Rows) {
		return m.Rows[m.SelectedIdx], true
	}
	return domain.TaskSnapshot{}, false
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.onQuit != nil {
				m.onQuit()
			}
			return m, tea.Quit
		case "k", "up":
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.FollowMode = false
				m.ensureVisible()
			}
		case "j", "down":
			if m.SelectedIdx < len(m.Rows)-1 {
				m.SelectedIdx++
				m.FollowMode = false
				m.ensureVisible()
			}
		case "esc":
			m.FollowMode = true
			for i, r := range m.Rows {
				if r.Status == domain.StatusRunning {
					m.SelectedIdx = i
					break
				}
			}
			m.ensureVisible()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

		fullHeader := titleStyle.Render("EXTENSIONS") + "\n\n"
		m.ListHeight = max(msg.Height-lipgloss.Height(fullHeader)-1, 1)
		m.ensureVisible()

	case MsgTasks:
		m.applyRows(msg.Rows)

	case MsgLog:
		m.Logs = append(m.Logs, LogLine(msg))
		if over := len(m.Logs) - maxLogLines; over > 0 {
			m.Logs = append(m.Logs[:0:0], m.Logs[over:]...)
		}

	case MsgStatus:
		m.Status = msg.Text
	}

	return m, nil
}

// applyRows merges a snapshot. Rows older than the ones already shown are
// ignored. In follow mode the selection jumps to a task that started compiling.
func (m *Model) applyRows(rows []domain.TaskSnapshot) {
	if len(m.Rows) != len(rows) {
		m.Rows = make([]domain.TaskSnapshot, len(rows))
		copy(m.Rows, rows)
		return
	}

	for i, r := range rows {
		prev := m.Rows[i]
		if r.Seq <= prev.Seq {
			continue
		}
		m.Rows[i] = r
		if m.FollowMode && r.Status == domain.StatusRunning && prev.Status != domain.StatusRunning {
			m.SelectedIdx = i
			m.ensureVisible()
		}
	}
}
