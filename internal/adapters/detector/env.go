// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"
	"strings"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeTUI forces the interactive TUI observer.
	ModeTUI
	// ModeLinear forces the linear CI observer.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Environment is the part of the process environment detection looks at.
type Environment struct {
	Getenv     func(string) string
	IsTerminal func(fd int) bool
	Stdout     *os.File
}

// OSEnvironment returns the environment of the running process.
func OSEnvironment() Environment {
	return Environment{Getenv: os.Getenv, IsTerminal: term.IsTerminal, Stdout: os.Stdout}
}

// DetectEnvironment returns the recommended output mode based on the environment.
// It checks if stdout is a TTY and if CI environment variables are set.
func DetectEnvironment() OutputMode {
	return OSEnvironment().Detect()
}

// Detect returns ModeLinear when stdout is not a terminal or CI is set,
// ModeTUI otherwise.
func (e Environment) Detect() OutputMode {
	isTTY := e.Stdout != nil && e.IsTerminal(int(e.Stdout.Fd()))
	if !isTTY || IsCI(e.Getenv("CI")) {
		return ModeLinear
	}
	return ModeTUI
}

// IsCI interprets the value of a CI variable.
func IsCI(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}

// ParseMode parses an --output-mode value.
func ParseMode(flag string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(flag)) {
	case "auto", "":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(domain.ErrInvalidOutputMode, "mode", flag)
	}
}

// ResolveMode applies user override flag to auto-detection.
// userFlag should be one of: "auto", "tui", "linear", "ci", or empty.
// Unknown values fall back to auto-detection.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	mode, err := ParseMode(userFlag)
	if err != nil || mode == ModeAuto {
		return autoDetected
	}
	return mode
}
