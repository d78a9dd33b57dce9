// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/extbuild/internal/core/domain"
)

// Compiler turns one BuildTask into an artifact.
//
//go:generate mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Open prepares a compile session for task. The config is shared by every
	// session and must not be modified.
	//
	// A returned error is a setup failure; it fails the task without
	// affecting other tasks.
	Open(ctx context.Context, task domain.BuildTask, cfg *domain.CompilerConfig) (CompileSession, error)
}

// CompileSession is an incremental build of a single task.
type CompileSession interface {
	// Compile performs one compile-and-write cycle. Compile errors are
	// reported in the result, never as a panic.
	Compile(ctx context.Context) domain.CompileResult

	// Close releases the session. It is safe to call once after the last Compile.
	Close() error
}
