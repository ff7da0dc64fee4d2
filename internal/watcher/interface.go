package watcher

import "context"

// Watcher defines the interface for file system monitoring
type Watcher interface {
	// Start blocks until ctx is done, then waits for in-flight handlers.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error

// Filter reports whether a created file should be handled.
type Filter func(path string) bool
