package cli

import (
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/nguyentantai21042004/diarize-flow/internal/processor"
	"github.com/nguyentantai21042004/diarize-flow/internal/watcher"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Process existing videos, then keep transcribing new ones as they appear",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runWatch(cmd.Context())
		},
	}
}

func (a *appState) runWatch(ctx context.Context) error {
	proc, err := a.newProcessor()
	if err != nil {
		return err
	}

	a.logBanner(ctx)

	if _, err := processor.Discover(a.cfg.Paths.Input); err != nil {
		return err
	}

	// Watch first so videos landing while the initial batch runs still raise events.
	done := &batchSet{}
	handler := func(ctx context.Context, path string) error {
		if done.take(path) {
			a.logger.Debug(ctx, "Already processed by the initial batch: %s", path)
			return nil
		}
		return proc.ProcessFile(ctx, path)
	}

	w, err := watcher.New(a.cfg.Paths.Input, handler, a.logger, watcher.Options{
		Accept:        processor.IsVideoFile,
		MaxConcurrent: a.cfg.Performance.MaxConcurrent,
		SettleDelay:   a.cfg.Watch.SettleDelay,
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	summary, err := proc.Run(ctx)
	if err != nil {
		return err
	}
	done.add(summary.Videos...)

	a.logger.Info(ctx, "Monitoring: %s", a.cfg.Paths.Input)
	a.logger.Info(ctx, "Press Ctrl+C to stop")

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info(ctx, "Watch stopped")
	return nil
}

// batchSet holds videos the initial batch handled. Each entry absorbs one
// create event, so a later re-drop of the same name is processed again.
type batchSet struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func (b *batchSet) add(paths ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.paths == nil {
		b.paths = make(map[string]struct{}, len(paths))
	}
	for _, p := range paths {
		b.paths[filepath.Clean(p)] = struct{}{}
	}
}

func (b *batchSet) take(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	path = filepath.Clean(path)
	if _, ok := b.paths[path]; !ok {
		return false
	}
	delete(b.paths, path)
	return true
}
