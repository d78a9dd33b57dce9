// Package style holds the colors and glyphs shared by the logger and the
// build observers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/extbuild/internal/core/domain"
)

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
	Cyan   = lipgloss.Color("#0EA5E9")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
	Eye     = "◉"
)

// StatusIcon returns the glyph of a task row. Settled rows of a watch run
// show the watching glyph next to their result color.
func StatusIcon(s domain.TaskStatus) string {
	switch s {
	case domain.StatusSucceeded:
		return Check
	case domain.StatusFailed:
		return Cross
	case domain.StatusRunning:
		return Dot
	default:
		return Circle
	}
}

// StatusColor returns the color of a task row.
func StatusColor(s domain.TaskStatus) lipgloss.Color {
	switch s {
	case domain.StatusSucceeded:
		return Green
	case domain.StatusFailed:
		return Red
	case domain.StatusRunning:
		return Iris
	default:
		return Slate
	}
}

// SeverityColor returns the color of a log line.
func SeverityColor(s domain.Severity) lipgloss.Color {
	switch s {
	case domain.SeverityWarn:
		return Yellow
	case domain.SeverityError:
		return Red
	default:
		return Slate
	}
}

// SeverityPrefix returns the glyph written before a log line, if any.
func SeverityPrefix(s domain.Severity) string {
	switch s {
	case domain.SeverityWarn:
		return Warning + " "
	case domain.SeverityError:
		return Cross + " "
	default:
		return ""
	}
}
