package ports

import (
	"context"

	"go.trai.ch/extbuild/internal/core/domain"
)

// Observer is the abstraction for build progress presentation.
// It decouples the build engine from rendering, allowing the same event
// stream to drive either a rich TUI or linear CI logs.
//
// Implementations must be safe for concurrent use and must treat snapshots as
// read-only.
//
//go:generate mockgen -source=observer.go -destination=mocks/mock_observer.go -package=mocks
type Observer interface {
	// Start initializes the observer and begins its lifecycle.
	// For asynchronous observers (like the TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the observer to stop accepting new events and flush its output.
	Stop() error

	// Wait blocks until the observer has fully terminated.
	Wait() error

	// OnLog reports a free-form message such as a discovery warning or a
	// compile diagnostic.
	OnLog(message string, severity domain.Severity)

	// OnTaskListChanged delivers the state of every task after a change.
	OnTaskListChanged(tasks []domain.TaskSnapshot)

	// OnOverallStatus replaces the one-line status of the whole run.
	OnOverallStatus(text string)
}
