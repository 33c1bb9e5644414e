package ogengine

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kristoferlund/ogengine/log"
)

// Invalidator is anything holding state derived from the content directory.
type Invalidator interface {
	Invalidate()
}

// Watch invalidates target whenever a file below dir is created, written,
// removed or renamed. New subdirectories are watched as they appear. It
// blocks until ctx is done.
func Watch(ctx context.Context, dir string, target Invalidator) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := addTree(w, dir); err != nil {
		return err
	}
	log.L().Info("watching content", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if err := addTree(w, ev.Name); err != nil {
					log.L().Warn("watch new path", zap.String("path", ev.Name), zap.Error(err))
				}
			}
			log.L().Debug("content changed", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			target.Invalidate()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.L().Warn("watcher error", zap.Error(err))
		}
	}
}

// addTree registers root and every directory below it. Files are ignored.
func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}
