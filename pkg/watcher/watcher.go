// Package watcher watches a deck file for changes and invokes a callback
// once per edit burst. It drives the watch command's rebuild loop.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches one file and reports debounced change events.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	debounce *debouncer
}

// New creates a watcher for path. The parent directory is watched rather
// than the file itself: editors that save via rename replace the inode, and
// a watch on the old inode would go silent after the first save.
func New(path string, window time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		path:     abs,
		fsw:      fsw,
		debounce: newDebouncer(window),
	}, nil
}

// Run blocks, invoking onChange once per debounced burst of writes to the
// watched file, until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			w.debounce.trigger(onChange)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

// matches reports whether an event concerns the watched file and represents
// a content change.
func (w *Watcher) matches(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// Close stops the watcher and drops any pending callback.
func (w *Watcher) Close() error {
	w.debounce.cancel()
	return w.fsw.Close()
}
