package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/tartampluch/go-vakitmatik/internal/config"
)

// Watch requests a Refresh each time the file at path is written or
// recreated. It blocks until ctx is cancelled.
func (s *Service) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}
	defer func() { _ = watcher.Close() }()

	// Browsers and spreadsheet apps replace the file instead of writing in
	// place, so the parent directory is watched.
	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWatcher, err)
	}

	log := slog.With(
		config.LogKeyComponent, config.CompWorker,
		config.LogKeyPath, target,
	)
	log.Info(config.MsgWatchStart)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Debug(config.MsgWatchEvent, config.LogKeyOp, event.Op.String())
				s.Refresh()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn(config.MsgWatchError, config.LogKeyError, err)
		}
	}
}
