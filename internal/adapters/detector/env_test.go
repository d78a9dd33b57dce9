package detector_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/extbuild/internal/adapters/detector"
	"go.trai.ch/extbuild/internal/core/domain"
)

func env(ci string, tty bool) detector.Environment {
	return detector.Environment{
		Getenv: func(key string) string {
			if key == "CI" {
				return ci
			}
			return ""
		},
		IsTerminal: func(int) bool { return tty },
		Stdout:     os.Stdout,
	}
}

func TestEnvironment_Detect(t *testing.T) {
	tests := []struct {
		name     string
		ci       string
		tty      bool
		expected detector.OutputMode
	}{
		{name: "terminal without CI", tty: true, expected: detector.ModeTUI},
		{name: "CI=true forces linear mode", ci: "true", tty: true, expected: detector.ModeLinear},
		{name: "CI=1 forces linear mode", ci: "1", tty: true, expected: detector.ModeLinear},
		{name: "CI=false keeps the TUI", ci: "false", tty: true, expected: detector.ModeTUI},
		{name: "piped output is linear", tty: false, expected: detector.ModeLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, env(tt.ci, tt.tty).Detect())
		})
	}
}

func TestEnvironment_DetectWithoutStdout(t *testing.T) {
	e := env("", true)
	e.Stdout = nil
	assert.Equal(t, detector.ModeLinear, e.Detect())
}

func TestParseMode(t *testing.T) {
	for flag, want := range map[string]detector.OutputMode{
		"":       detector.ModeAuto,
		"auto":   detector.ModeAuto,
		"TUI":    detector.ModeTUI,
		"linear": detector.ModeLinear,
		"ci":     detector.ModeLinear,
	} {
		got, err := detector.ParseMode(flag)
		require.NoError(t, err, flag)
		assert.Equal(t, want, got, flag)
	}

	_, err := detector.ParseMode("fancy")
	assert.ErrorContains(t, err, domain.ErrInvalidOutputMode.Error())
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     detector.OutputMode
	}{
		{
			name:         "auto respects auto-detection (TUI)",
			autoDetected: detector.ModeTUI,
			userFlag:     "auto",
			expected:     detector.ModeTUI,
		},
		{
			name:         "empty flag respects auto-detection",
			autoDetected: detector.ModeLinear,
			userFlag:     "",
			expected:     detector.ModeLinear,
		},
		{
			name:         "tui overrides auto-detection",
			autoDetected: detector.ModeLinear,
			userFlag:     "tui",
			expected:     detector.ModeTUI,
		},
		{
			name:         "linear overrides auto-detection",
			autoDetected: detector.ModeTUI,
			userFlag:     "linear",
			expected:     detector.ModeLinear,
		},
		{
			name:         "unknown flag falls back",
			autoDetected: detector.ModeTUI,
			userFlag:     "fancy",
			expected:     detector.ModeTUI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveMode(tt.autoDetected, tt.userFlag))
		})
	}
}

func TestIsCI(t *testing.T) {
	assert.True(t, detector.IsCI("TRUE"))
	assert.True(t, detector.IsCI(" yes "))
	assert.False(t, detector.IsCI(""))
	assert.False(t, detector.IsCI("0"))
}

func TestOutputMode_String(t *testing.T) {
	assert.Equal(t, "auto", detector.ModeAuto.String())
	assert.Equal(t, "tui", detector.ModeTUI.String())
	assert.Equal(t, "linear", detector.ModeLinear.String())
}
