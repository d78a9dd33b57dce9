package domain

import "sync"

// TextWaiting is the display text of a task that has not been dispatched.
const TextWaiting = "Waiting for a worker..."

// TaskSnapshot is a read-only copy of one task's UI row.
type TaskSnapshot struct {
	ID       TaskID
	Label    string
	Category string
	Status   TaskStatus
	Text     string
	// Errors holds the diagnostics of the last failed cycle.
	Errors []CompileError
	// Cycle counts Started events; it is 1 after the initial build.
	Cycle int
	// Seq increments on every applied event for this task.
	Seq uint64
}

// Summary aggregates task statuses.
type Summary struct {
	Total     int
	Pending   int
	Running   int
	Succeeded int
	Failed    int
}

// Done reports whether every task reached a terminal status.
func (s Summary) Done() bool {
	return s.Pending == 0 && s.Running == 0
}

// TaskList owns the mutable status and display text of every build task.
// Only the scheduler and progress bridge mutate it.
type TaskList struct {
	mu    sync.Mutex
	tasks []BuildTask
	rows  []TaskSnapshot
}

// NewTaskList creates a list with every task Pending. Task IDs are
// reassigned to match their index.
func NewTaskList(tasks []BuildTask) *TaskList {
	l := &TaskList{
		tasks: make([]BuildTask, len(tasks)),
		rows:  make([]TaskSnapshot, len(tasks)),
	}
	for i, t := range tasks {
		t.ID = TaskID(i)
		l.tasks[i] = t
		l.rows[i] = TaskSnapshot{
			ID:       t.ID,
			Label:    t.Label,
			Category: t.Category.Name,
			Status:   StatusPending,
			Text:     TextWaiting,
		}
	}
	return l
}

// Len returns the number of tasks.
func (l *TaskList) Len() int {
	return len(l.tasks)
}

// Task returns the immutable task record for id.
func (l *TaskList) Task(id TaskID) (BuildTask, bool) {
	if int(id) < 0 || int(id) >= len(l.tasks) {
		return BuildTask{}, false
	}
	return l.tasks[id], true
}

// Tasks returns a copy of all task records in list order.
func (l *TaskList) Tasks() []BuildTask {
	out := make([]BuildTask, len(l.tasks))
	copy(out, l.tasks)
	return out
}

// Apply folds ev into the task's row and returns a snapshot of the whole
// list taken under the same lock. Events for unknown tasks are ignored and
// yield a nil snapshot.
func (l *TaskList) Apply(ev ProgressEvent) []TaskSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	if int(ev.TaskID) < 0 || int(ev.TaskID) >= len(l.rows) {
		return nil
	}

	row := &l.rows[ev.TaskID]
	switch ev.Kind {
	case EventStarted:
		row.Status = StatusRunning
		row.Cycle++
		row.Errors = nil
	case EventSucceeded:
		row.Status = StatusSucceeded
	case EventFailed:
		row.Status = StatusFailed
		row.Errors = append([]CompileError(nil), ev.Errors...)
	case EventTextUpdate:
	}
	if ev.Payload != "" {
		row.Text = ev.Payload
	}
	row.Seq++

	return l.snapshotLocked()
}

// Snapshot returns a copy of every row.
func (l *TaskList) Snapshot() []TaskSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// Status returns the current status of one task.
func (l *TaskList) Status(id TaskID) TaskStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	if int(id) < 0 || int(id) >= len(l.rows) {
		return ""
	}
	return l.rows[id].Status
}

// Summary counts tasks per status.
func (l *TaskList) Summary() Summary {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := Summary{Total: len(l.rows)}
	for i := range l.rows {
		switch l.rows[i].Status {
		case StatusPending:
			s.Pending++
		case StatusRunning:
			s.Running++
		case StatusSucceeded:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}

func (l *TaskList) snapshotLocked() []TaskSnapshot {
	out := make([]TaskSnapshot, len(l.rows))
	for i, row := range l.rows {
		if row.Errors != nil {
			row.Errors = append([]CompileError(nil), row.Errors...)
		}
		out[i] = row
	}
	return out
}
