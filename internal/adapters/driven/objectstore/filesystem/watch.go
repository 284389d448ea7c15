package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch emits the key of every file created or written under the root
// until ctx is cancelled, at which point the channel closes. New
// subdirectories are added to the watch as they appear; hidden entries
// are ignored, matching List.
func (o *ObjectStore) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("filesystem: create watcher: %w", err)
	}

	if err := addRecursive(watcher, o.root); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("filesystem: watch %s: %w", o.root, err)
	}

	keys := make(chan string)

	go func() {
		defer close(keys)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if strings.HasPrefix(filepath.Base(event.Name), ".") {
					continue
				}

				// A created directory joins the watch; a created or
				// written file becomes a key.
				if isDir(event.Name) {
					if event.Op&fsnotify.Create != 0 {
						_ = addRecursive(watcher, event.Name)
					}
					continue
				}

				rel, err := filepath.Rel(o.root, event.Name)
				if err != nil {
					continue
				}
				select {
				case keys <- filepath.ToSlash(rel):
				case <-ctx.Done():
					return
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Watch errors are transient (dropped events on busy
				// trees); the loop keeps going.
			}
		}
	}()

	return keys, nil
}

// addRecursive watches dir and every non-hidden subdirectory below it.
func addRecursive(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != dir {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// isDir reports whether path currently names a directory. Races with
// deletion resolve to false, which just skips the event.
func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
