package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/extbuild/internal/core/domain"
	uistyle "go.trai.ch/extbuild/internal/ui/style"
)

// View renders the UI.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.taskList(),
		m.detailPane(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, body, statusStyle.Render(m.Status))
}

func (m *Model) listWidth() int {
	if m.Width <= 0 {
		return 0
	}
	return int(float64(m.Width) * taskListWidthRatio)
}

func (m *Model) taskList() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("EXTENSIONS") + "\n\n")

	start := m.ListOffset
	end := min(m.ListOffset+m.ListHeight, len(m.Rows))
	if start > end {
		start = end
	}

	for i := start; i < end; i++ {
		s.WriteString(m.renderTaskRow(i, m.Rows[i]) + "\n")
	}

	st := listStyle
	if w := m.listWidth(); w > 0 {
		st = st.Width(w)
	}
	return st.Render(s.String())
}

func (m *Model) renderTaskRow(index int, row domain.TaskSnapshot) string {
	st := taskStyle(row.Status)

	cursor := "  "
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if !row.Status.IsTerminal() {
			st = selectedStyle
		}
	}

	content := fmt.Sprintf("%s %s", uistyle.StatusIcon(row.Status), row.Label)
	line := cursor + st.Render(content)
	if row.Text != "" {
		line += " " + detailStyle.Render(row.Text)
	}
	return line
}

func taskStyle(s domain.TaskStatus) lipgloss.Style {
	switch s {
	case domain.StatusRunning:
		return taskRunningStyle
	case domain.StatusSucceeded:
		return taskDoneStyle
	case domain.StatusFailed:
		return taskErrorStyle
	default:
		return taskPendingStyle
	}
}

// detailPane shows the diagnostics of a selected failed task, and the log
// otherwise.
func (m *Model) detailPane() string {
	var header string
	var lines []string

	row, ok := m.selected()
	if ok && row.Status == domain.StatusFailed && len(row.Errors) > 0 {
		header = failureTitleStyle.Render("ERRORS: " + row.Label)
		for _, e := range row.Errors {
			lines = append(lines, e.Error())
			if e.Frame != "" {
				lines = append(lines, strings.Split(e.Frame, "\n")...)
			}
			for _, n := range e.Notes {
				lines = append(lines, "  note: "+n)
			}
		}
	} else {
		mode := " (Following)"
		if !m.FollowMode {
			mode = " (Manual)"
		}
		header = titleStyle.Render("LOG" + mode)
		for _, l := range m.Logs {
			text := l.Text
			if prefix := uistyle.SeverityPrefix(l.Severity); prefix != "" {
				text = lipgloss.NewStyle().Foreground(uistyle.SeverityColor(l.Severity)).Render(prefix) + text
			}
			lines = append(lines, strings.Split(text, "\n")...)
		}
	}

	if m.ListHeight > 0 && len(lines) > m.ListHeight {
		lines = lines[len(lines)-m.ListHeight:]
	}

	st := logStyle
	if w := m.Width - m.listWidth() - logPaneBorderWidth; m.Width > 0 && w > 0 {
		st = st.Width(w)
	}
	return st.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(lines, "\n")))
}
