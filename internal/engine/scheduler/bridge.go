package scheduler

import (
	"fmt"
	"strings"
	"sync"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
)

// bridge folds task events into the shared task list and republishes the
// resulting snapshots to the observer.
//
// Each event stream is drained by its own goroutine, so events of one task
// are applied in order while streams of different tasks interleave freely.
// Snapshots of different streams may reach the observer out of order; rows
// carry a per-task sequence number for that reason.
type bridge struct {
	list     *domain.TaskList
	observer ports.Observer
	wg       sync.WaitGroup
}

func newBridge(list *domain.TaskList, observer ports.Observer) *bridge {
	return &bridge{list: list, observer: observer}
}

// attach starts draining one event stream. The stream ends when the sender
// closes it.
func (b *bridge) attach(events <-chan message) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for msg := range events {
			b.deliver(msg.event)
			if msg.applied != nil {
				close(msg.applied)
			}
		}
	}()
}

// wait blocks until every attached stream has been drained.
func (b *bridge) wait() {
	b.wg.Wait()
}

func (b *bridge) deliver(ev domain.ProgressEvent) {
	snapshot := b.list.Apply(ev)
	if snapshot == nil || b.observer == nil {
		return
	}

	if ev.Kind == domain.EventFailed {
		label := snapshot[ev.TaskID].Label
		for _, e := range ev.Errors {
			b.observer.OnLog(formatCompileError(label, e), domain.SeverityError)
		}
	}
	b.observer.OnTaskListChanged(snapshot)
}

// formatCompileError renders a diagnostic with its task label so it can be
// located without the task list.
func formatCompileError(label string, e domain.CompileError) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s", label, e.Error())
	if e.Frame != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimRight(e.Frame, "\n"))
	}
	for _, note := range e.Notes {
		sb.WriteString("\n  note: ")
		sb.WriteString(note)
	}
	return sb.String()
}
