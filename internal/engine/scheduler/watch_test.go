package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/engine/scheduler"
)

func TestWatch_ChangeRebuildsOnlyThatTask(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		c := newFakeCompiler()
		w := &fakeWatcher{}
		rec := newRecorder()
		s := scheduler.NewScheduler(c, w, newTracer(t))
		tasks := makeTasks(3)

		exec, err := s.Run(ctx, tasks, scheduler.Options{Concurrency: 2, Watch: true}, rec)
		require.NoError(t, err)
		synctest.Wait()

		assert.ElementsMatch(t, []string{"/src/panels/p0", "/src/panels/p1", "/src/panels/p2"}, w.roots)
		assert.Equal(t, 3, w.openSubscriptions())
		for id := range domain.TaskID(3) {
			row := rec.last(id)
			assert.Equal(t, domain.StatusSucceeded, row.Status)
			assert.Equal(t, "Watching files for changes...", row.Text)
		}
		before := rec.last(2).Seq

		w.trigger(tasks[1].SourcePath)
		synctest.Wait()

		assert.Equal(t, 1, c.count(c.compiles, "panel/p0"))
		assert.Equal(t, 2, c.count(c.compiles, "panel/p1"))
		assert.Equal(t, 1, c.count(c.compiles, "panel/p2"))

		row := rec.last(1)
		assert.Equal(t, 2, row.Cycle)
		assert.Equal(t, domain.StatusSucceeded, row.Status)
		assert.Equal(t, "Watching files for changes...", row.Text)
		assert.Equal(t, before, rec.last(2).Seq, "other tasks see no events")

		// The second cycle replays Started, TextUpdate and the terminal event.
		var cycle2 []domain.TaskStatus
		for _, r := range rec.rows(1) {
			if r.Cycle == 2 {
				cycle2 = append(cycle2, r.Status)
			}
		}
		assert.Equal(t, []domain.TaskStatus{
			domain.StatusRunning, domain.StatusRunning, domain.StatusSucceeded, domain.StatusSucceeded,
		}, cycle2)

		cancel()
		require.NoError(t, exec.Wait())

		assert.Equal(t, 3, c.total(c.closed), "every compile session released")
		assert.Zero(t, w.openSubscriptions())
		assert.True(t, w.stopped)
	})
}

func TestWatch_FailedCycleKeepsWatching(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		c := newFakeCompiler()
		c.fail = func(_ string, cycle int) bool { return cycle == 2 }
		w := &fakeWatcher{}
		rec := newRecorder()
		s := scheduler.NewScheduler(c, w, newTracer(t))
		tasks := makeTasks(1)

		exec, err := s.Run(ctx, tasks, scheduler.Options{Concurrency: 1, Watch: true}, rec)
		require.NoError(t, err)
		synctest.Wait()

		w.trigger(tasks[0].SourcePath)
		synctest.Wait()
		row := rec.last(0)
		assert.Equal(t, domain.StatusFailed, row.Status)
		assert.Equal(t, "Watching files for changes...", row.Text)
		assert.Len(t, row.Errors, 1)
		assert.Len(t, rec.logs, 1)

		w.trigger(tasks[0].SourcePath)
		synctest.Wait()
		row = rec.last(0)
		assert.Equal(t, domain.StatusSucceeded, row.Status)
		assert.Equal(t, 3, row.Cycle)
		assert.Empty(t, row.Errors)

		cancel()
		require.NoError(t, exec.Wait())
		assert.Equal(t, 1, c.count(c.closed, "panel/p0"))
	})
}

func TestWatch_InitialFailureEntersLoop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		c := newFakeCompiler()
		c.fail = func(_ string, cycle int) bool { return cycle == 1 }
		w := &fakeWatcher{}
		s := scheduler.NewScheduler(c, w, newTracer(t))
		tasks := makeTasks(2)

		exec, err := s.Run(ctx, tasks, scheduler.Options{Concurrency: 1, Watch: true}, nil)
		require.NoError(t, err)
		synctest.Wait()
		assert.Equal(t, 2, exec.Summary().Failed)
		assert.Equal(t, 2, w.openSubscriptions())

		w.trigger(tasks[0].SourcePath)
		synctest.Wait()
		assert.Equal(t, domain.StatusSucceeded, exec.Tasks().Status(0))
		assert.Equal(t, domain.StatusFailed, exec.Tasks().Status(1))

		cancel()
		require.NoError(t, exec.Wait())
	})
}

func TestWatch_ChangeDuringRebuildWithNewImports(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		c := newFakeCompiler()
		w := &fakeWatcher{}
		tasks := makeTasks(1)
		util := "/src/panels/p0/util.js"

		// The second cycle picks up a new import while the source is saved again.
		c.during = func(_ string, cycle int) {
			if cycle == 2 {
				w.trigger(tasks[0].SourcePath)
			}
		}
		c.inputs = func(task domain.BuildTask, cycle int) []string {
			if cycle >= 2 {
				return []string{task.SourcePath, util}
			}
			return []string{task.SourcePath}
		}

		s := scheduler.NewScheduler(c, w, newTracer(t))
		exec, err := s.Run(ctx, tasks, scheduler.Options{Concurrency: 1, Watch: true}, nil)
		require.NoError(t, err)
		synctest.Wait()

		w.trigger(tasks[0].SourcePath)
		synctest.Wait()

		assert.Equal(t, 3, c.count(c.compiles, "panel/p0"), "the save during cycle 2 runs cycle 3")
		assert.Equal(t, 1, w.openSubscriptions())

		w.trigger(util)
		synctest.Wait()
		assert.Equal(t, 4, c.count(c.compiles, "panel/p0"))

		cancel()
		require.NoError(t, exec.Wait())
	})
}

func TestWatch_StopErrorSurfacesFromWait(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		c := newFakeCompiler()
		c.closeErr = map[string]error{"panel/p0": errors.New("dispose failed")}
		w := &fakeWatcher{stopErr: errors.New("inotify gone")}
		s := scheduler.NewScheduler(c, w, newTracer(t))

		exec, err := s.Run(ctx, makeTasks(1), scheduler.Options{Concurrency: 1, Watch: true}, nil)
		require.NoError(t, err)
		synctest.Wait()

		cancel()
		err = exec.Wait()
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to stop file watcher")
		assert.ErrorContains(t, err, "failed to close compile session")
		assert.True(t, w.stopped)
	})
}
