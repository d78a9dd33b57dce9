package scheduler

import (
	"context"
	"fmt"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// eventBuffer is the number of events a task may emit ahead of the bridge.
const eventBuffer = 16

// workerSession is one pool slot. It pulls tasks from the shared queue until
// the queue is drained; a slot never idles while tasks are pending.
type workerSession struct {
	id int
	r  *run
}

func newWorkerSession(id int, r *run) *workerSession {
	return &workerSession{id: id, r: r}
}

func (w *workerSession) serve(ctx context.Context, queue <-chan domain.TaskID) error {
	for id := range queue {
		w.r.dispatch(ctx, id)
	}
	return nil
}

// message carries one event to the bridge. For terminal events applied is
// closed once the event is reflected in the task list.
type message struct {
	event   domain.ProgressEvent
	applied chan struct{}
}

// taskRun is the per-task state: its event stream and compile session.
type taskRun struct {
	task    domain.BuildTask
	events  chan message
	session ports.CompileSession
	cycles  int
}

func newTaskRun(task domain.BuildTask) *taskRun {
	return &taskRun{
		task:   task,
		events: make(chan message, eventBuffer),
	}
}

func (t *taskRun) emit(kind domain.EventKind, payload string) {
	t.events <- message{event: domain.ProgressEvent{TaskID: t.task.ID, Kind: kind, Payload: payload}}
}

// emitAndWait sends a terminal event and blocks until the bridge applied it,
// so the task no longer counts as Running once the caller releases its slot.
func (t *taskRun) emitAndWait(kind domain.EventKind, payload string, errs []domain.CompileError) {
	applied := make(chan struct{})
	t.events <- message{
		event: domain.ProgressEvent{
			TaskID:  t.task.ID,
			Kind:    kind,
			Payload: payload,
			Errors:  errs,
		},
		applied: applied,
	}
	<-applied
}

// close releases the compile session and ends the event stream.
func (t *taskRun) close() error {
	var err error
	if t.session != nil {
		if cerr := t.session.Close(); cerr != nil {
			err = zerr.With(zerr.Wrap(cerr, "failed to close compile session"), "task", t.task.Label)
		}
		t.session = nil
	}
	close(t.events)
	return err
}

// cycle runs one compile-and-write cycle on a pool slot. It reports false
// when ctx was canceled before the cycle could start.
func (r *run) cycle(ctx context.Context, t *taskRun) (domain.CompileResult, bool) {
	acquireCtx := ctx
	if !r.opts.Watch {
		// A dispatched one-shot task always runs to a terminal state.
		acquireCtx = context.WithoutCancel(ctx)
	}
	if err := r.sem.Acquire(acquireCtx, 1); err != nil {
		if t.cycles == 0 {
			t.emitAndWait(domain.EventFailed, textCanceled, nil)
		}
		return domain.CompileResult{}, false
	}
	defer r.sem.Release(1)

	t.cycles++
	ctx, span := r.s.tracer.Start(ctx, t.task.Label,
		ports.WithAttribute("extbuild.category", t.task.Category.Name),
		ports.WithAttribute("extbuild.source", t.task.SourcePath),
		ports.WithAttribute("extbuild.output", t.task.OutputPath),
		ports.WithAttribute("extbuild.cycle", t.cycles),
	)
	defer span.End()

	t.emit(domain.EventStarted, "")
	t.emit(domain.EventTextUpdate, fmt.Sprintf(textBuilding, t.task.Label))

	res := r.compile(ctx, t)
	if res.Failed() {
		sentinel := domain.ErrCompileFailed
		if t.cycles > 1 {
			sentinel = domain.ErrWatchCycleFailed
		}
		span.RecordError(zerr.With(zerr.Wrap(res.Errors[0], sentinel.Error()), "task", t.task.Label))
		t.emitAndWait(domain.EventFailed, res.Summary(), res.Errors)
		return res, true
	}

	span.SetAttribute("extbuild.inputs", len(res.Inputs))
	t.emitAndWait(domain.EventSucceeded, textDone, nil)
	return res, true
}

// compile opens the task's session on first use and runs it. Setup errors
// and panics are reported as compile errors of this task only.
func (r *run) compile(ctx context.Context, t *taskRun) (res domain.CompileResult) {
	defer func() {
		if p := recover(); p != nil {
			res = domain.CompileResult{Errors: []domain.CompileError{{
				Message: fmt.Sprintf("compiler panic: %v", p),
				File:    t.task.SourcePath,
			}}}
		}
	}()

	if t.session == nil {
		session, err := r.s.compiler.Open(ctx, t.task, r.opts.Config)
		if err != nil {
			return domain.CompileResult{Errors: []domain.CompileError{setupError(t.task, err)}}
		}
		t.session = session
	}
	return t.session.Compile(ctx)
}

func setupError(task domain.BuildTask, err error) domain.CompileError {
	msg := err.Error()
	if m, ok := err.(interface{ Message() string }); ok {
		msg = m.Message()
	}
	return domain.CompileError{
		Message: fmt.Sprintf("%s: %s", domain.ErrCompilerSetupFailed, msg),
		File:    task.SourcePath,
	}
}
