package scheduler_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"
	"time"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/extbuild/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// makeTasks returns n directory-module panel tasks.
func makeTasks(n int) []domain.BuildTask {
	panel := domain.Category{Name: "panel", Plural: "panels", Profile: domain.ProfileApp}
	tasks := make([]domain.BuildTask, n)
	for i := range tasks {
		name := fmt.Sprintf("p%d", i)
		tasks[i] = domain.BuildTask{
			ID:         domain.TaskID(i),
			SourcePath: "/src/panels/" + name + "/index.js",
			OutputPath: "/out/panels/" + name + "/index.js",
			ModuleRoot: "/src/panels/" + name,
			Module:     name,
			Category:   panel,
			Language:   domain.LanguageJavaScript,
			Label:      "panel/" + name,
		}
	}
	return tasks
}

func newTracer(t *testing.T) ports.Tracer {
	t.Helper()
	ctrl := gomock.NewController(t)

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()
	return tracer
}

// fakeCompiler records compile concurrency and session lifecycles.
type fakeCompiler struct {
	delay time.Duration
	// fail decides whether the given cycle (1-based) of a task fails.
	fail func(label string, cycle int) bool
	// openErr fails Open for the labels it contains.
	openErr map[string]error
	// panics makes Compile panic for the labels it contains.
	panics map[string]bool
	// closeErr fails Close for the labels it contains.
	closeErr map[string]error
	// during runs inside the given cycle, before it reports its result.
	during func(label string, cycle int)
	// inputs overrides the files a cycle reports as read.
	inputs func(task domain.BuildTask, cycle int) []string

	mu         sync.Mutex
	running    int
	maxRunning int
	compiles   map[string]int
	opened     map[string]int
	closed     map[string]int
}

func newFakeCompiler() *fakeCompiler {
	return &fakeCompiler{
		compiles: make(map[string]int),
		opened:   make(map[string]int),
		closed:   make(map[string]int),
	}
}

func (c *fakeCompiler) Open(_ context.Context, task domain.BuildTask, _ *domain.CompilerConfig) (ports.CompileSession, error) {
	if err := c.openErr[task.Label]; err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.opened[task.Label]++
	c.mu.Unlock()
	return &fakeSession{c: c, task: task}, nil
}

func (c *fakeCompiler) count(m map[string]int, label string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return m[label]
}

func (c *fakeCompiler) total(m map[string]int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

type fakeSession struct {
	c     *fakeCompiler
	task  domain.BuildTask
	cycle int
}

func (s *fakeSession) Compile(_ context.Context) domain.CompileResult {
	c := s.c
	c.mu.Lock()
	c.running++
	c.maxRunning = max(c.maxRunning, c.running)
	s.cycle++
	cycle := s.cycle
	c.mu.Unlock()

	if c.delay > 0 {
		time.Sleep(c.delay)
	}

	c.mu.Lock()
	c.running--
	c.compiles[s.task.Label]++
	c.mu.Unlock()

	if c.during != nil {
		c.during(s.task.Label, cycle)
	}
	if c.panics[s.task.Label] {
		panic("boom")
	}
	if c.fail != nil && c.fail(s.task.Label, cycle) {
		return domain.CompileResult{Errors: []domain.CompileError{{
			Message: "Expected \";\" but found \"}\"",
			File:    s.task.SourcePath,
			Line:    3,
			Column:  9,
		}}}
	}
	if c.inputs != nil {
		return domain.CompileResult{Inputs: c.inputs(s.task, cycle)}
	}
	return domain.CompileResult{Inputs: []string{s.task.SourcePath}}
}

func (s *fakeSession) Close() error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.closed[s.task.Label]++
	return s.c.closeErr[s.task.Label]
}

// recorder is an Observer that keeps the row history of every task.
type recorder struct {
	mu         sync.Mutex
	maxRunning int
	history    map[domain.TaskID][]domain.TaskSnapshot
	logs       []string
	statuses   []string
}

func newRecorder() *recorder {
	return &recorder{history: make(map[domain.TaskID][]domain.TaskSnapshot)}
}

func (r *recorder) Start(context.Context) error { return nil }
func (r *recorder) Stop() error                 { return nil }
func (r *recorder) Wait() error                 { return nil }

func (r *recorder) OnLog(message string, _ domain.Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, message)
}

func (r *recorder) OnOverallStatus(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, text)
}

func (r *recorder) OnTaskListChanged(tasks []domain.TaskSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	running := 0
	for _, row := range tasks {
		if row.Status == domain.StatusRunning {
			running++
		}
		h := r.history[row.ID]
		if len(h) == 0 || row.Seq > h[len(h)-1].Seq {
			r.history[row.ID] = append(h, row)
		}
	}
	r.maxRunning = max(r.maxRunning, running)
}

func (r *recorder) rows(id domain.TaskID) []domain.TaskSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.history[id])
}

func (r *recorder) last(id domain.TaskID) domain.TaskSnapshot {
	rows := r.rows(id)
	if len(rows) == 0 {
		return domain.TaskSnapshot{}
	}
	return rows[len(rows)-1]
}

// fakeWatcher hands out subscriptions that fire on trigger.
type fakeWatcher struct {
	mu      sync.Mutex
	roots   []string
	subs    []*fakeSubscription
	stopped bool
	stopErr error
}

func (w *fakeWatcher) Start(_ context.Context, roots ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.roots = append(w.roots, roots...)
	return nil
}

func (w *fakeWatcher) Subscribe(paths []string) ports.Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	sub := &fakeSubscription{paths: paths, ch: make(chan []string, 1)}
	w.subs = append(w.subs, sub)
	return sub
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	return w.stopErr
}

// trigger delivers a change of path to every open subscription covering it.
func (w *fakeWatcher) trigger(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, sub := range w.subs {
		if sub.isClosed() || !slices.Contains(sub.paths, path) {
			continue
		}
		select {
		case sub.ch <- []string{path}:
		default:
		}
	}
}

func (w *fakeWatcher) openSubscriptions() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, sub := range w.subs {
		if !sub.isClosed() {
			n++
		}
	}
	return n
}

type fakeSubscription struct {
	paths  []string
	ch     chan []string
	mu     sync.Mutex
	closed bool
}

func (s *fakeSubscription) Changes() <-chan []string { return s.ch }

func (s *fakeSubscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *fakeSubscription) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
