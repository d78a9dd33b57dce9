package scheduler

import (
	"context"
	"slices"

	"go.trai.ch/extbuild/internal/core/domain"
	"go.trai.ch/extbuild/internal/core/ports"
)

// watch recompiles t whenever one of its inputs changes, until ctx is
// canceled or the watcher shuts down.
//
// The loop is Idle while it waits on the subscription and Compiling while a
// cycle holds a pool slot. Every cycle resolves back to Idle with a watching
// announcement, whether it succeeded or failed.
func (r *run) watch(ctx context.Context, t *taskRun, inputs []string) {
	defer func() { r.exec.recordErr(t.close()) }()

	paths := watchPaths(t.task, inputs)
	sub := r.s.watcher.Subscribe(paths)
	defer func() { sub.Close() }()

	t.emit(domain.EventTextUpdate, textWatching)

	// pending is set when a change arrived on a subscription that was
	// replaced before the loop could receive it.
	pending := false
	for {
		if !pending {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-sub.Changes():
				if !ok {
					return
				}
			}
		}
		pending = false

		res, ok := r.cycle(ctx, t)
		if !ok {
			return
		}

		// Imports may have been added or removed.
		if next := watchPaths(t.task, res.Inputs); len(res.Inputs) > 0 && !slices.Equal(next, paths) {
			prev := sub
			paths = next
			sub = r.s.watcher.Subscribe(paths)
			pending = drained(prev)
			prev.Close()
		}
		t.emit(domain.EventTextUpdate, textWatching)
	}
}

// drained reports whether sub holds an undelivered change batch.
func drained(sub ports.Subscription) bool {
	select {
	case batch, ok := <-sub.Changes():
		return ok && batch != nil
	default:
		return false
	}
}

// watchPaths is the sorted set of paths whose change triggers a rebuild:
// the module itself plus every file the last bundle read.
func watchPaths(task domain.BuildTask, inputs []string) []string {
	paths := make([]string, 0, len(inputs)+2)
	paths = append(paths, task.ModuleRoot, task.SourcePath)
	paths = append(paths, inputs...)
	slices.Sort(paths)
	return slices.Compact(paths)
}
