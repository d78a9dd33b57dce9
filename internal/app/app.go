// Package app implements the application layer for extbuild.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/extbuild/internal/adapters/detector"
	"go.trai.ch/extbuild/internal/adapters/linear"
	"go.trai.ch/extbuild/internal/adapters/logger"
	"go.trai.ch/extbuild/internal/adapters/telemetry"
	"go.trai.ch/extbuild/internal/adapters/tui"
	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/extbuild/internal/engine/discovery"
	"go.trai.ch/extbuild/internal/engine/scheduler"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	discoverer   *discovery.Discoverer
	scheduler    *scheduler.Scheduler
	logger       ports.Logger
	teaOptions   []tea.ProgramOption
	stdout       io.Writer
	stderr       io.Writer
	detect       func() detector.OutputMode
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	discoverer *discovery.Discoverer,
	sched *scheduler.Scheduler,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		discoverer:   discoverer,
		scheduler:    sched,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		detect:       detector.DetectEnvironment,
	}
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithOutput redirects the observers' output streams.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	Input       string
	Output      string
	Language    string
	Watch       bool
	Force       bool
	Concurrency int
	ConfigPath  string
	OutputMode  string
	CI          bool
	TraceFile   string
	NoClean     bool
}

// Build discovers the extensions below opts.Input and compiles them into
// opts.Output. In watch mode it returns once ctx is canceled.
//
//nolint:cyclop,funlen // orchestration function
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	// 1. Load the configuration
	cwd, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to resolve working directory")
	}
	cfg, err := a.configLoader.Load(cwd, opts.ConfigPath)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if cfg.Path != "" {
		a.logger.Info(fmt.Sprintf("using configuration %s", relTo(cwd, cfg.Path)))
	}
	compilerCfg := cfg.Compiler
	compilerCfg.Force = opts.Force

	mode, err := a.outputMode(opts)
	if err != nil {
		return err
	}

	// 2. Discover build tasks
	var warnings []string
	tasks, err := a.discoverer.Discover(ctx, discovery.Request{
		InputRoot:         opts.Input,
		OutputRoot:        opts.Output,
		PreferredLanguage: opts.Language,
		Categories:        cfg.Categories,
		OnWarning:         func(msg string) { warnings = append(warnings, msg) },
	})
	if err != nil {
		return err
	}

	// 3. Clean the output root
	if !opts.NoClean {
		if err := a.cleanOutput(cwd, opts.Input, opts.Output); err != nil {
			return err
		}
	}

	if len(tasks) == 0 {
		a.logger.Info(fmt.Sprintf("no extensions found in %s", opts.Input))
		return nil
	}

	// 4. Initialize the observer
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var observer ports.Observer
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr).WithQuitHandler(cancel)
		observer = tui.NewObserver(&model, a.teaOptions...)
		if lg, ok := a.logger.(*logger.Logger); ok {
			lg.SetSink(observer.OnLog)
			defer lg.SetSink(nil)
		}
	} else {
		observer = linear.NewObserver(a.stdout, a.stderr)
	}

	// 5. Initialize telemetry
	shutdown, err := telemetry.Setup(telemetry.Options{
		RunID:     telemetry.NewRunID(),
		TraceFile: opts.TraceFile,
		Observer:  observer,
	})
	if err != nil {
		return err
	}
	defer func() {
		_ = shutdown(context.WithoutCancel(ctx))
	}()

	// 6. Run observer and scheduler concurrently
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		if err := observer.Start(gctx); err != nil {
			return err
		}
		return observer.Wait()
	})

	var summary domain.Summary
	g.Go(func() error {
		defer func() { _ = observer.Stop() }()

		// The logger printed these before the TUI took over the terminal.
		if mode == detector.ModeTUI {
			for _, w := range warnings {
				observer.OnLog(w, domain.SeverityWarn)
			}
		}

		exec, err := a.scheduler.Run(gctx, tasks, scheduler.Options{
			Concurrency: opts.Concurrency,
			Watch:       opts.Watch,
			Config:      &compilerCfg,
		}, observer)
		if err != nil {
			return err
		}
		if err := exec.Wait(); err != nil {
			return err
		}
		summary = exec.Summary()
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if !opts.Watch && summary.Failed > 0 {
		failed := zerr.With(zerr.With(domain.ErrCompileFailed, "failed", summary.Failed), "total", summary.Total)
		return errors.Join(domain.ErrBuildExecutionFailed, failed)
	}
	return nil
}

func (a *App) outputMode(opts BuildOptions) (detector.OutputMode, error) {
	if opts.CI {
		return detector.ModeLinear, nil
	}
	if _, err := detector.ParseMode(opts.OutputMode); err != nil {
		return detector.ModeAuto, err
	}
	return detector.ResolveMode(a.detect(), opts.OutputMode), nil
}

func relTo(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil && !filepath.IsAbs(rel) {
		return rel
	}
	return path
}
