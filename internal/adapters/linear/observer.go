// Package linear provides a synchronous, line-oriented observer for CI logs.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/ui/output"
	"go.trai.ch/extbuild/internal/ui/style"
)

// Observer implements ports.Observer for CI and other non-interactive
// environments. Every visible change of a task row becomes one log line
// prefixed with the task label.
type Observer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	mu      sync.Mutex
	rows    map[domain.TaskID]printed
	last    []domain.TaskSnapshot
	stopped bool
}

// printed is the part of a row that was last written.
type printed struct {
	seq    uint64
	status domain.TaskStatus
	text   string
}

// NewObserver creates a new Observer. Nil writers select the process streams.
func NewObserver(stdout, stderr io.Writer) *Observer {
	if stderr == nil {
		stderr = os.Stderr
	}
	return NewObserverWithOutput(stdout, output.NewCI(stderr))
}

// NewObserverWithOutput creates an Observer writing progress to out.
func NewObserverWithOutput(stdout io.Writer, out *termenv.Output) *Observer {
	if stdout == nil {
		stdout = os.Stdout
	}
	return &Observer{
		stdout: stdout,
		stderr: out,
		output: out,
		rows:   make(map[domain.TaskID]printed),
	}
}

// Start is a no-op for the linear observer (synchronous).
func (o *Observer) Start(_ context.Context) error {
	return nil
}

// Stop prints the summary of the last task list.
func (o *Observer) Stop() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.stopped {
		return nil
	}
	o.stopped = true

	if len(o.last) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(o.stdout, summarize(o.last))
	return err
}

// Wait is a no-op for the linear observer (synchronous).
func (o *Observer) Wait() error {
	return nil
}

// OnLog prints a message with its severity glyph.
func (o *Observer) OnLog(message string, severity domain.Severity) {
	o.mu.Lock()
	defer o.mu.Unlock()

	prefix := style.SeverityPrefix(severity)
	if prefix != "" {
		prefix = o.colored(prefix, style.SeverityColor(severity))
	}
	_, _ = fmt.Fprintf(o.stderr, "%s%s\n", prefix, message)
}

// OnTaskListChanged prints the rows whose status or text changed since they
// were last printed. Stale rows are ignored.
func (o *Observer) OnTaskListChanged(tasks []domain.TaskSnapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.last == nil {
		o.last = make([]domain.TaskSnapshot, len(tasks))
		copy(o.last, tasks)
	}

	for _, row := range tasks {
		prev, seen := o.rows[row.ID]
		if seen && row.Seq <= prev.seq {
			continue
		}
		if int(row.ID) < len(o.last) {
			o.last[row.ID] = row
		}
		o.rows[row.ID] = printed{seq: row.Seq, status: row.Status, text: row.Text}

		if row.Status == domain.StatusPending || row.Text == "" || row.Text == domain.TextWaiting {
			continue
		}
		// A new cycle keeps the previous text until the first update.
		if seen && prev.text == row.Text && (prev.status == row.Status || row.Status == domain.StatusRunning) {
			continue
		}
		o.printRowLocked(row)
	}
}

// OnOverallStatus prints the run status.
func (o *Observer) OnOverallStatus(text string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	_, _ = fmt.Fprintln(o.stderr, o.output.String(text).Bold().String())
}

func (o *Observer) printRowLocked(row domain.TaskSnapshot) {
	prefix := o.output.String(fmt.Sprintf("[%s]", row.Label)).Faint().String()

	switch row.Status {
	case domain.StatusSucceeded, domain.StatusFailed:
		icon := o.colored(style.StatusIcon(row.Status), style.StatusColor(row.Status))
		_, _ = fmt.Fprintf(o.stderr, "%s %s %s\n", prefix, icon, row.Text)
	default:
		_, _ = fmt.Fprintf(o.stderr, "%s %s\n", prefix, row.Text)
	}
}

func (o *Observer) colored(s string, c lipgloss.Color) string {
	return o.output.String(s).Foreground(o.output.Color(string(c))).String()
}

func summarize(rows []domain.TaskSnapshot) string {
	var succeeded, failed []string
	for _, r := range rows {
		switch r.Status {
		case domain.StatusSucceeded:
			succeeded = append(succeeded, r.Label)
		case domain.StatusFailed:
			failed = append(failed, r.Label)
		}
	}

	line := fmt.Sprintf("Built %d of %d extension(s)", len(succeeded), len(rows))
	if len(failed) > 0 {
		line += fmt.Sprintf(", %d failed: %s", len(failed), strings.Join(failed, ", "))
	}
	return line
}
