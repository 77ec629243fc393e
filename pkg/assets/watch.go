package assets

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached entries when any of paths is written, created,
// removed or renamed. It blocks until ctx is done or the watcher fails.
func (c *Cache) Watch(ctx context.Context, paths ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating asset watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]string, len(paths))
	dirs := make(map[string]struct{})
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}
		tracked[filepath.Clean(abs)] = p
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	// Editors often replace files instead of writing in place, so watch the
	// parent directories.
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			original, ok := tracked[filepath.Clean(event.Name)]
			if !ok {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			c.logger.Debug("asset changed", "path", original, "op", event.Op.String())
			c.Invalidate(original)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("asset watcher error: %w", err)
		}
	}
}
