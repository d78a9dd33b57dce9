package domain

// TaskID indexes a BuildTask inside its TaskList.
type TaskID int

// BuildTask is the immutable description of one extension build.
// It is handed to a worker at dispatch time and never mutated afterwards.
type BuildTask struct {
	ID TaskID
	// SourcePath is the absolute path of the entry file.
	SourcePath string
	// OutputPath is the absolute path of the artifact.
	OutputPath string
	// ModuleRoot is the module directory, or the source file itself for single-file modules.
	ModuleRoot string
	// Module is the module's name as listed in its category directory.
	Module   string
	Category Category
	Language Language
	// Label identifies the task in logs and UI rows, e.g. "panel/mypanel".
	Label string
}

// SingleFile reports whether the task was derived from a single-file module.
func (t BuildTask) SingleFile() bool {
	return t.ModuleRoot == t.SourcePath
}

// TaskStatus represents the status of a build task.
type TaskStatus string

const (
	// StatusPending indicates the task is waiting for a worker.
	StatusPending TaskStatus = "Pending"
	// StatusRunning indicates the task is compiling.
	StatusRunning TaskStatus = "Running"
	// StatusSucceeded indicates the last compile cycle succeeded.
	StatusSucceeded TaskStatus = "Succeeded"
	// StatusFailed indicates the last compile cycle failed.
	StatusFailed TaskStatus = "Failed"
)

// IsTerminal checks if a status ends a compile cycle.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}
