package commands_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/extbuild/cmd/extbuild/commands"
	"go.trai.ch/extbuild/internal/app"
	"go.trai.ch/extbuild/internal/build"
)

type mockApp struct {
	buildFunc func(ctx context.Context, opts app.BuildOptions) error
}

func (m *mockApp) Build(ctx context.Context, opts app.BuildOptions) error {
	if m.buildFunc != nil {
		return m.buildFunc(ctx, opts)
	}
	return nil
}

// capture runs args and returns the options the app received.
func capture(t *testing.T, args ...string) app.BuildOptions {
	t.Helper()
	var captured app.BuildOptions
	called := false
	mock := &mockApp{
		buildFunc: func(_ context.Context, opts app.BuildOptions) error {
			captured = opts
			called = true
			return nil
		},
	}

	cli := commands.New(mock)
	cli.SetArgs(args)
	cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))
	require.NoError(t, cli.Execute(context.Background()))
	require.True(t, called)
	return captured
}

func TestCommands_Build(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts := capture(t, "build")
		assert.Equal(t, app.BuildOptions{
			Input:      "./src/extensions/",
			Output:     "./extensions/",
			OutputMode: "auto",
		}, opts)
	})

	t.Run("wires long flags", func(t *testing.T) {
		opts := capture(t, "build",
			"--input", "src", "--output", "dist", "--language", "typescript",
			"--watch", "--force", "--concurrency", "3", "--config", "x.yaml",
			"--output-mode", "linear", "--ci", "--trace", "trace.json", "--no-clean",
		)
		assert.Equal(t, app.BuildOptions{
			Input:       "src",
			Output:      "dist",
			Language:    "typescript",
			Watch:       true,
			Force:       true,
			Concurrency: 3,
			ConfigPath:  "x.yaml",
			OutputMode:  "linear",
			CI:          true,
			TraceFile:   "trace.json",
			NoClean:     true,
		}, opts)
	})

	t.Run("wires short flags", func(t *testing.T) {
		opts := capture(t, "build", "-i", "a", "-o", "b", "-l", "javascript", "-w", "-f", "-j", "2", "-c", "c.yml")
		assert.Equal(t, "a", opts.Input)
		assert.Equal(t, "b", opts.Output)
		assert.Equal(t, "javascript", opts.Language)
		assert.True(t, opts.Watch)
		assert.True(t, opts.Force)
		assert.Equal(t, 2, opts.Concurrency)
		assert.Equal(t, "c.yml", opts.ConfigPath)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("EXTBUILD_OUTPUT", "env-out")
		t.Setenv("EXTBUILD_OUTPUT_MODE", "linear")
		t.Setenv("EXTBUILD_NO_CLEAN", "true")

		opts := capture(t, "build")
		assert.Equal(t, "env-out", opts.Output)
		assert.Equal(t, "linear", opts.OutputMode)
		assert.True(t, opts.NoClean)
	})

	t.Run("flags override environment", func(t *testing.T) {
		t.Setenv("EXTBUILD_INPUT", "env-in")

		opts := capture(t, "build", "-i", "flag-in")
		assert.Equal(t, "flag-in", opts.Input)
	})

	t.Run("returns error on build failure", func(t *testing.T) {
		mock := &mockApp{
			buildFunc: func(context.Context, app.BuildOptions) error {
				return errors.New("simulated error")
			},
		}

		cli := commands.New(mock)
		cli.SetArgs([]string{"build"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		err := cli.Execute(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("rejects positional arguments", func(t *testing.T) {
		cli := commands.New(&mockApp{})
		cli.SetArgs([]string{"build", "panels"})
		cli.SetOutput(new(bytes.Buffer), new(bytes.Buffer))

		require.Error(t, cli.Execute(context.Background()))
	})
}

func TestCommands_Version(t *testing.T) {
	cli := commands.New(&mockApp{})

	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs([]string{"version"})

	err := cli.Execute(context.Background())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "extbuild version "+build.Version)
}
