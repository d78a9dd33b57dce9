package domain

import "go.trai.ch/zerr"

var (
	// ErrInputPathMissing is returned when the extension source root does not exist.
	ErrInputPathMissing = zerr.New("input path does not exist")
	// ErrUnrecognizedCategory is reported when a directory under the input root is not a known category.
	ErrUnrecognizedCategory = zerr.New("unrecognized extension category")
	// ErrUnrecognizedLanguage is reported when a single-file module has an unsupported extension.
	ErrUnrecognizedLanguage = zerr.New("unsupported source language")
	// ErrNoEntryFileFound is reported when a module directory has no index file in a supported language.
	ErrNoEntryFileFound = zerr.New("no entry file found")
	// ErrDuplicateTask is returned when two build tasks share a source or output path.
	ErrDuplicateTask = zerr.New("duplicate build task")
	// ErrListFailed is returned when a directory of the input tree cannot be listed.
	ErrListFailed = zerr.New("failed to list directory")
	// ErrInvalidCategory is returned when a category definition is malformed or duplicated.
	ErrInvalidCategory = zerr.New("invalid category definition")
	// ErrInvalidProfile is returned when a category references an unknown compiler profile.
	ErrInvalidProfile = zerr.New("invalid compiler profile, expected 'app' or 'api'")
	// ErrInvalidLoader is returned when a plugin maps a file extension to an unknown loader.
	ErrInvalidLoader = zerr.New("invalid loader")
	// ErrInvalidConfig is returned when the compiler configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid compiler configuration")
	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")
	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")
	// ErrConfigNotFound is returned when an explicitly requested config file does not exist.
	ErrConfigNotFound = zerr.New("config file not found")
	// ErrUnsafeOutputRoot is returned when cleaning the output root would delete sources or the working directory.
	ErrUnsafeOutputRoot = zerr.New("refusing to clean output root")
	// ErrOutputCleanFailed is returned when the output root cannot be emptied.
	ErrOutputCleanFailed = zerr.New("failed to clean output root")
	// ErrCompilerSetupFailed is returned when a compile session cannot be opened.
	ErrCompilerSetupFailed = zerr.New("failed to set up compiler")
	// ErrCompileFailed marks a task whose compile cycle produced errors.
	ErrCompileFailed = zerr.New("compile failed")
	// ErrWatchCycleFailed marks a failed recompilation inside a watch loop.
	ErrWatchCycleFailed = zerr.New("watch cycle failed")
	// ErrManifestMismatch is returned when a module's package.json declares a different extension type.
	ErrManifestMismatch = zerr.New("extension manifest does not match category")
	// ErrManifestReadFailed is returned when a module's package.json cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read extension manifest")
	// ErrWatcherStartFailed is returned when the file watcher cannot be started.
	ErrWatcherStartFailed = zerr.New("failed to start file watcher")
	// ErrBuildExecutionFailed is returned when one or more build tasks failed.
	ErrBuildExecutionFailed = zerr.New("build execution failed")
	// ErrInvalidOutputMode is returned for an unknown --output-mode value.
	ErrInvalidOutputMode = zerr.New("unknown output mode, expected auto, tui or linear")
	// ErrNoTasks is returned by the scheduler when it is asked to run an empty task list.
	ErrNoTasks = zerr.New("no build tasks")
)
