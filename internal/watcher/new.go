package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
)

// Options tune a Watcher.
type Options struct {
	// Accept selects which created files are handed to the handler. Nil accepts all.
	Accept Filter
	// MaxConcurrent bounds parallel handler calls; defaults to 1.
	MaxConcurrent int
	// SettleDelay is how long to wait after a create event before handling the file.
	SettleDelay time.Duration
}

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, opts Options) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.Accept == nil {
		opts.Accept = func(string) bool { return true }
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		accept:        opts.Accept,
		logger:        log,
		watcher:       watcher,
		maxConcurrent: opts.MaxConcurrent,
		settleDelay:   opts.SettleDelay,
		semaphore:     make(chan struct{}, opts.MaxConcurrent),
		pending:       make(map[string]struct{}),
	}, nil
}
