package domain

import (
	"fmt"
	"strings"
)

// EventKind tags a ProgressEvent.
type EventKind uint8

const (
	// EventStarted opens a compile cycle.
	EventStarted EventKind = iota
	// EventTextUpdate replaces the task's display text.
	EventTextUpdate
	// EventSucceeded closes a cycle successfully.
	EventSucceeded
	// EventFailed closes a cycle with compile errors.
	EventFailed
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "Started"
	case EventTextUpdate:
		return "TextUpdate"
	case EventSucceeded:
		return "Succeeded"
	case EventFailed:
		return "Failed"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// IsTerminal reports whether the kind ends a compile cycle.
func (k EventKind) IsTerminal() bool {
	return k == EventSucceeded || k == EventFailed
}

// ProgressEvent is one step of a task's build lifecycle.
type ProgressEvent struct {
	TaskID  TaskID
	Kind    EventKind
	Payload string
	// Errors is set on EventFailed.
	Errors []CompileError
}

// Severity classifies observer log lines.
type Severity uint8

const (
	// SeverityInfo is informational output.
	SeverityInfo Severity = iota
	// SeverityWarn marks a skipped module or other recoverable problem.
	SeverityWarn
	// SeverityError marks a failed task or fatal condition.
	SeverityError
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarn:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// CompileError is a structured compiler diagnostic.
type CompileError struct {
	Message string
	// Plugin names the compiler plugin that raised the error, if any.
	Plugin string
	File   string
	Line   int
	Column int
	// Frame is the rendered source excerpt around the location.
	Frame string
	Notes []string
}

// Location formats file:line:column, or the bare file when no line is known.
func (e CompileError) Location() string {
	if e.File == "" {
		return ""
	}
	if e.Line <= 0 {
		return e.File
	}
	return fmt.Sprintf("%s:%d:%d", e.File, e.Line, e.Column)
}

// Error implements error with a one-line summary.
func (e CompileError) Error() string {
	var b strings.Builder
	if e.Plugin != "" {
		fmt.Fprintf(&b, "(plugin %s) ", e.Plugin)
	}
	b.WriteString(e.Message)
	if loc := e.Location(); loc != "" {
		b.WriteString(" at ")
		b.WriteString(loc)
	}
	return b.String()
}

// CompileResult is the outcome of one compile-and-write cycle.
type CompileResult struct {
	Errors   []CompileError
	Warnings []CompileError
	// Inputs lists the absolute paths of every file the bundle read.
	Inputs []string
}

// Failed reports whether the cycle produced errors.
func (r CompileResult) Failed() bool {
	return len(r.Errors) > 0
}

// Summary returns the first error's summary, with a count of the rest.
func (r CompileResult) Summary() string {
	switch len(r.Errors) {
	case 0:
		return ""
	case 1:
		return r.Errors[0].Error()
	default:
		return fmt.Sprintf("%s (and %d more)", r.Errors[0].Error(), len(r.Errors)-1)
	}
}
