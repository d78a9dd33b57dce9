package watcher

import (
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// fileState is the last observed content of a path.
type fileState struct {
	exists bool
	sum    uint64
}

// HashCache remembers content hashes so that events which leave a file's
// bytes unchanged (touch, chmod, save without edits) are dropped.
type HashCache struct {
	mu      sync.Mutex
	entries map[string]fileState
}

// NewHashCache creates an empty cache.
func NewHashCache() *HashCache {
	return &HashCache{entries: make(map[string]fileState)}
}

// Prime records the current content of path without reporting a change.
// Directories are ignored.
func (h *HashCache) Prime(path string) {
	state, ok := hashFile(path)
	if !ok {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, seen := h.entries[path]; !seen {
		h.entries[path] = state
	}
}

// Changed rehashes path and reports whether its content differs from the
// previous observation. A path never observed before counts as changed.
// Directories always count as changed.
func (h *HashCache) Changed(path string) bool {
	state, ok := hashFile(path)
	if !ok {
		return true
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	prev, seen := h.entries[path]
	h.entries[path] = state
	return !seen || prev != state
}

// hashFile reports ok=false for directories.
func hashFile(path string) (fileState, bool) {
	f, err := os.Open(path) //nolint:gosec // paths come from the watched tree
	if err != nil {
		return fileState{}, true
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fileState{}, true
	}
	if info.IsDir() {
		return fileState{}, false
	}

	digest := xxhash.New()
	if _, err := io.Copy(digest, f); err != nil {
		return fileState{}, true
	}
	return fileState{exists: true, sum: digest.Sum64()}, true
}
