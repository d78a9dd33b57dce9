// Package watcher implements file system watching for watch-mode rebuilds.
package watcher

import (
	"context"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/extbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that are never watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	"node_modules": true,
}

// DefaultDebounceWindow is the default time window for debouncing file events.
const DefaultDebounceWindow = 50 * time.Millisecond

// Watcher is one fsnotify watcher shared by every subscription. Events are
// debounced and content-filtered once, then fanned out to the subscriptions
// whose paths cover them.
type Watcher struct {
	window time.Duration
	onErr  func(error)

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	watched   map[string]bool
	subs      map[*subscription]struct{}
	hashes    *HashCache
	debouncer *Debouncer
	running   bool
	closed    bool
}

// NewWatcher creates a watcher that debounces events over window. Errors
// reported by the file system are passed to onErr, which may be nil.
func NewWatcher(window time.Duration, onErr func(error)) *Watcher {
	w := &Watcher{
		window:  window,
		onErr:   onErr,
		watched: make(map[string]bool),
		subs:    make(map[*subscription]struct{}),
		hashes:  NewHashCache(),
	}
	w.debouncer = NewDebouncer(window, w.dispatch)
	return w
}

// Start watches every directory below roots. It may be called more than
// once; the fsnotify watcher is created on the first call.
func (w *Watcher) Start(ctx context.Context, roots ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return zerr.New("watcher is stopped")
	}
	if w.fsWatcher == nil {
		fsw, err := fsnotify.NewWatcher()
		if err != nil {
			return zerr.Wrap(err, "failed to create fsnotify watcher")
		}
		w.fsWatcher = fsw
	}

	for _, root := range roots {
		for dir := range walkDirs(root) {
			if err := w.addLocked(dir); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to watch directory"), "path", dir)
			}
		}
	}

	if !w.running {
		w.running = true
		go w.processEvents(ctx, w.fsWatcher)
	}
	return nil
}

// Subscribe returns a stream of changed paths equal to or below one of
// paths. Listed files are hashed up front so that a no-op save does not
// trigger a rebuild; directories outside the watched roots are added.
func (w *Watcher) Subscribe(paths []string) ports.Subscription {
	sub := &subscription{
		w:     w,
		paths: slices.Clone(paths),
		ch:    make(chan []string, 1),
	}

	for _, p := range paths {
		w.hashes.Prime(p)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		close(sub.ch)
		sub.done = true
		return sub
	}
	w.subs[sub] = struct{}{}

	if w.fsWatcher != nil {
		for _, p := range paths {
			dir := p
			if info, err := os.Stat(p); err != nil || !info.IsDir() {
				dir = filepath.Dir(p)
			}
			if !w.watched[dir] {
				_ = w.addLocked(dir)
			}
		}
	}
	return sub
}

// Stop closes the fsnotify watcher and every open subscription.
func (w *Watcher) Stop() error {
	w.debouncer.Stop()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	for sub := range w.subs {
		sub.closeLocked()
	}
	if w.fsWatcher == nil {
		return nil
	}
	return w.fsWatcher.Close()
}

func (w *Watcher) addLocked(dir string) error {
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = true
	return nil
}

func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if event.Has(fsnotify.Create) {
				w.watchCreated(event.Name)
			}
			w.debouncer.Add(event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			if w.onErr != nil {
				w.onErr(zerr.Wrap(err, "file system watch error"))
			}
		}
	}
}

// watchCreated adds a newly created directory tree.
func (w *Watcher) watchCreated(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || shouldSkipDirectories[info.Name()] {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	for dir := range walkDirs(path) {
		_ = w.addLocked(dir)
	}
}

// dispatch runs when a debounced batch fires.
func (w *Watcher) dispatch(paths []string) {
	changed := paths[:0:0]
	for _, p := range paths {
		if w.hashes.Changed(p) {
			changed = append(changed, p)
		}
	}
	if len(changed) == 0 {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	for sub := range w.subs {
		if matched := sub.match(changed); len(matched) > 0 {
			sub.sendLocked(matched)
		}
	}
}

// walkDirs yields root and every directory below it, skipping
// version-control and dependency directories.
func walkDirs(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are not watched
			}
			if !d.IsDir() {
				return nil
			}
			if path != root && shouldSkipDirectories[d.Name()] {
				return fs.SkipDir
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// subscription is guarded by the owning Watcher's mutex.
type subscription struct {
	w     *Watcher
	paths []string
	ch    chan []string
	done  bool
}

func (s *subscription) Changes() <-chan []string {
	return s.ch
}

func (s *subscription) Close() {
	s.w.mu.Lock()
	defer s.w.mu.Unlock()
	s.closeLocked()
}

func (s *subscription) closeLocked() {
	if s.done {
		return
	}
	s.done = true
	delete(s.w.subs, s)
	close(s.ch)
}

// sendLocked never blocks: a batch still waiting to be read already
// guarantees a rebuild.
func (s *subscription) sendLocked(paths []string) {
	if s.done {
		return
	}
	select {
	case s.ch <- paths:
	default:
	}
}

func (s *subscription) match(changed []string) []string {
	var out []string
	for _, c := range changed {
		for _, p := range s.paths {
			if c == p || strings.HasPrefix(c, p+string(filepath.Separator)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
