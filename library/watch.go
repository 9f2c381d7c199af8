package library

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads the library from path whenever the file is written or
// recreated. The watcher is registered before Watch returns; reload sizes
// are sent on the returned channel, which closes when ctx is done.
// The parent directory is watched so editors that replace files by rename
// keep triggering reloads.
func (l *Library) Watch(ctx context.Context, path string) (<-chan int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}

	reloads := make(chan int, 8)
	go l.watchLoop(ctx, w, abs, reloads)
	return reloads, nil
}

func (l *Library) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, reloads chan<- int) {
	defer close(reloads)
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				l.logger.Warn("library reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			n, err := l.Replace(data)
			if err != nil {
				// Partial writes parse as invalid JSON; the next event retries
				l.logger.Debug("library reload skipped", zap.String("path", path), zap.Error(err))
				continue
			}
			l.logger.Info("library reloaded", zap.String("path", path), zap.Int("sounds", n))
			select {
			case reloads <- n:
			default:
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			l.logger.Warn("library watcher error", zap.Error(err))
		}
	}
}
