package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/diarize-flow/internal/logger"
)

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	accept        Filter
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	settleDelay   time.Duration
	semaphore     chan struct{}
	wg            sync.WaitGroup

	mu      sync.Mutex
	pending map[string]struct{}
}

// Start begins monitoring the input directory for new video files
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			// Files moved into the directory arrive as Create too.
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !w.accept(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}
			if !w.markPending(event.Name) {
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			w.wg.Add(1)
			go w.handle(ctx, event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// handle waits for the file to settle, then runs the handler under the semaphore.
func (w *implWatcher) handle(ctx context.Context, filePath string) {
	defer w.wg.Done()
	defer w.clearPending(filePath)

	if w.settleDelay > 0 {
		timer := time.NewTimer(w.settleDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}

	select {
	case w.semaphore <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-w.semaphore }()

	if err := w.handler(ctx, filePath); err != nil {
		w.logger.Error(ctx, "Failed to process %s: %v", filePath, err)
	}
}

func (w *implWatcher) markPending(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.pending[path]; ok {
		return false
	}
	w.pending[path] = struct{}{}
	return true
}

func (w *implWatcher) clearPending(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}
