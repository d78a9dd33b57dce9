// Package scheduler runs build tasks on a bounded worker pool and streams
// their progress to an observer.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"slices"
	"sync"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

const (
	textBuilding = "Building extension %s..."
	textDone     = "Done"
	textWatching = "Watching files for changes..."
	textCanceled = "Canceled"
)

// Options configures one scheduler run.
type Options struct {
	// Concurrency bounds the number of compile cycles running at once.
	// Zero or less uses runtime.NumCPU().
	Concurrency int
	// Watch keeps every task in a recompile loop after its initial build.
	Watch bool
	// Config is shared read-only by every compile session.
	Config *domain.CompilerConfig
}

// Scheduler manages the execution of build tasks.
type Scheduler struct {
	compiler ports.Compiler
	watcher  ports.Watcher
	tracer   ports.Tracer
}

// NewScheduler creates a new Scheduler with the given dependencies.
// The watcher is only used in watch mode.
func NewScheduler(compiler ports.Compiler, watcher ports.Watcher, tracer ports.Tracer) *Scheduler {
	return &Scheduler{
		compiler: compiler,
		watcher:  watcher,
		tracer:   tracer,
	}
}

// Run builds tasks with at most opts.Concurrency compile cycles in flight.
//
// In one-shot mode Run returns once every task reached Succeeded or Failed.
// Task failures never cancel siblings and are reported through the returned
// Execution, not as an error.
//
// In watch mode Run returns once every task has entered its watch loop.
// Execution.Wait then blocks until ctx is canceled and every loop released
// its compile session and watcher subscription.
func (s *Scheduler) Run(
	ctx context.Context,
	tasks []domain.BuildTask,
	opts Options,
	observer ports.Observer,
) (*Execution, error) {
	if len(tasks) == 0 {
		return nil, domain.ErrNoTasks
	}
	if opts.Watch && s.watcher == nil {
		return nil, zerr.Wrap(domain.ErrWatcherStartFailed, "no file watcher configured")
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	list := domain.NewTaskList(tasks)
	exec := &Execution{
		list:  list,
		watch: opts.Watch,
	}

	if opts.Watch {
		if err := s.watcher.Start(ctx, watchRoots(list.Tasks())...); err != nil {
			return nil, zerr.Wrap(err, domain.ErrWatcherStartFailed.Error())
		}
	}

	r := &run{
		s:        s,
		opts:     opts,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		bridge:   newBridge(list, observer),
		exec:     exec,
		observer: observer,
	}

	queue := make(chan domain.TaskID, list.Len())
	for _, t := range list.Tasks() {
		queue <- t.ID
	}
	close(queue)

	workers := min(concurrency, list.Len())
	if observer != nil {
		observer.OnOverallStatus(fmt.Sprintf("Building %d extension(s) with %d worker(s)", list.Len(), workers))
	}

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			return newWorkerSession(i, r).serve(ctx, queue)
		})
	}
	if err := g.Wait(); err != nil {
		return exec, err
	}

	if !opts.Watch {
		r.bridge.wait()
		return exec, nil
	}

	exec.stop = func() {
		exec.loops.Wait()
		r.bridge.wait()
		if err := s.watcher.Stop(); err != nil {
			exec.recordErr(zerr.Wrap(err, "failed to stop file watcher"))
		}
	}
	if observer != nil && ctx.Err() == nil {
		observer.OnOverallStatus(fmt.Sprintf("Watching %d extension(s) for changes", list.Len()))
	}
	return exec, nil
}

// Execution is the handle of a scheduler run.
type Execution struct {
	list  *domain.TaskList
	watch bool
	loops sync.WaitGroup

	stopOnce sync.Once
	stop     func()

	mu   sync.Mutex
	errs []error
}

// Tasks returns the task list the run mutates.
func (e *Execution) Tasks() *domain.TaskList {
	return e.list
}

// Summary counts the current task statuses.
func (e *Execution) Summary() domain.Summary {
	return e.list.Summary()
}

// Wait blocks until every watch loop has exited. It returns immediately for
// one-shot runs. The returned error joins every failure to release a compile
// session or the file watcher.
func (e *Execution) Wait() error {
	if e.stop != nil {
		e.stopOnce.Do(e.stop)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return errors.Join(e.errs...)
}

func (e *Execution) recordErr(err error) {
	if err == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs = append(e.errs, err)
}

// run is the state shared by the workers and watch loops of one Run call.
type run struct {
	s        *Scheduler
	opts     Options
	sem      *semaphore.Weighted
	bridge   *bridge
	exec     *Execution
	observer ports.Observer
}

// dispatch builds one task on the calling worker. In watch mode the task is
// then handed over to its own watch loop.
func (r *run) dispatch(ctx context.Context, id domain.TaskID) {
	task, _ := r.exec.list.Task(id)
	t := newTaskRun(task)
	r.bridge.attach(t.events)

	if ctx.Err() != nil {
		t.emitAndWait(domain.EventFailed, textCanceled, nil)
		r.exec.recordErr(t.close())
		return
	}

	res, ok := r.cycle(ctx, t)
	if !r.opts.Watch || !ok {
		r.exec.recordErr(t.close())
		return
	}

	r.exec.loops.Add(1)
	go func() {
		defer r.exec.loops.Done()
		r.watch(ctx, t, res.Inputs)
	}()
}

// watchRoots returns the directories to watch recursively: module
// directories, and the parent of single-file modules.
func watchRoots(tasks []domain.BuildTask) []string {
	roots := make([]string, 0, len(tasks))
	for _, t := range tasks {
		root := t.ModuleRoot
		if t.SingleFile() {
			root = filepath.Dir(t.SourcePath)
		}
		if !slices.Contains(roots, root) {
			roots = append(roots, root)
		}
	}
	return roots
}
