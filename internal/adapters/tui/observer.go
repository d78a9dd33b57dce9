package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/extbuild/internal/core/domain"
)

// Observer wraps the TUI Bubble Tea model as a ports.Observer.
type Observer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewObserver creates a new TUI observer.
func NewObserver(model *Model, opts ...tea.ProgramOption) *Observer {
	program := tea.NewProgram(model, opts...)
	return &Observer{
		program: program,
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (o *Observer) Start(_ context.Context) error {
	go func() {
		_, err := o.program.Run()
		o.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (o *Observer) Stop() error {
	o.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated.
func (o *Observer) Wait() error {
	return <-o.errCh
}

// OnLog forwards a log line to the TUI.
func (o *Observer) OnLog(message string, severity domain.Severity) {
	o.program.Send(MsgLog{Text: message, Severity: severity})
}

// OnTaskListChanged forwards a snapshot to the TUI.
func (o *Observer) OnTaskListChanged(tasks []domain.TaskSnapshot) {
	o.program.Send(MsgTasks{Rows: tasks})
}

// OnOverallStatus forwards the run status to the TUI.
func (o *Observer) OnOverallStatus(text string) {
	o.program.Send(MsgStatus{Text: text})
}

// Program returns the underlying tea.Program for testing.
func (o *Observer) Program() *tea.Program {
	return o.program
}
