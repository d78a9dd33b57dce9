package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/extbuild/internal/adapters/watcher"
)

const (
	testWindow = 20 * time.Millisecond
	waitFor    = 3 * time.Second
	quiet      = 300 * time.Millisecond
)

func receive(t *testing.T, ch <-chan []string) []string {
	t.Helper()
	select {
	case paths, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return paths
	case <-time.After(waitFor):
		t.Fatal("no change delivered")
		return nil
	}
}

func assertQuiet(t *testing.T, ch <-chan []string) {
	t.Helper()
	select {
	case paths := <-ch:
		t.Fatalf("unexpected change: %v", paths)
	case <-time.After(quiet):
	}
}

func TestWatcher_DeliversMatchingChanges(t *testing.T) {
	root := t.TempDir()
	mine := filepath.Join(root, "panels", "mine")
	other := filepath.Join(root, "panels", "other")
	require.NoError(t, os.MkdirAll(mine, 0o750))
	require.NoError(t, os.MkdirAll(other, 0o750))
	entry := filepath.Join(mine, "index.ts")
	require.NoError(t, os.WriteFile(entry, []byte("a"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(testWindow, nil)
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	sub := w.Subscribe([]string{mine, entry})
	defer sub.Close()

	require.NoError(t, os.WriteFile(filepath.Join(other, "index.ts"), []byte("x"), 0o600))
	assertQuiet(t, sub.Changes())

	require.NoError(t, os.WriteFile(entry, []byte("b"), 0o600))
	assert.Contains(t, receive(t, sub.Changes()), entry)
}

func TestWatcher_IgnoresUnchangedContent(t *testing.T) {
	root := t.TempDir()
	entry := filepath.Join(root, "index.js")
	require.NoError(t, os.WriteFile(entry, []byte("same"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(testWindow, nil)
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	sub := w.Subscribe([]string{entry})
	defer sub.Close()

	require.NoError(t, os.WriteFile(entry, []byte("same"), 0o600))
	assertQuiet(t, sub.Changes())
}

func TestWatcher_WatchesPathsOutsideRoots(t *testing.T) {
	root := t.TempDir()
	shared := t.TempDir()
	lib := filepath.Join(shared, "lib.ts")
	require.NoError(t, os.WriteFile(lib, []byte("1"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := watcher.NewWatcher(testWindow, nil)
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	sub := w.Subscribe([]string{lib})
	defer sub.Close()

	require.NoError(t, os.WriteFile(lib, []byte("2"), 0o600))
	assert.Equal(t, []string{lib}, receive(t, sub.Changes()))
}

func TestWatcher_StopClosesSubscriptions(t *testing.T) {
	root := t.TempDir()
	w := watcher.NewWatcher(testWindow, nil)
	require.NoError(t, w.Start(context.Background(), root))

	sub := w.Subscribe([]string{filepath.Join(root, "index.js")})
	require.NoError(t, w.Stop())

	_, ok := <-sub.Changes()
	assert.False(t, ok)

	sub.Close()
	require.NoError(t, w.Stop(), "stop is idempotent")

	late := w.Subscribe([]string{filepath.Join(root, "index.js")})
	_, ok = <-late.Changes()
	assert.False(t, ok, "subscriptions after stop are closed")
}
