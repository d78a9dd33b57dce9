package ports

import "context"

// Watcher defines the interface for watching file system changes.
//
//go:generate mockgen -source=watcher.go -destination=mocks/mock_watcher.go -package=mocks
type Watcher interface {
	// Start begins watching the given root directories recursively.
	// It returns an error if the watcher fails to start.
	Start(ctx context.Context, roots ...string) error
	// Subscribe delivers debounced batches of changed paths that are either
	// listed in paths or located below one of them. Paths outside the
	// started roots are added to the watch set.
	Subscribe(paths []string) Subscription
	// Stop stops the watcher and releases all resources.
	Stop() error
}

// Subscription is a filtered stream of change batches.
type Subscription interface {
	// Changes is closed when the subscription or the watcher is closed.
	Changes() <-chan []string
	// Close cancels the subscription.
	Close()
}
