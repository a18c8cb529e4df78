// Package watch reruns an analysis whenever the watched trace file
// changes, keeping a terminal report live while captures are copied
// over from the device.
package watch

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher triggers a rerun callback on trace file changes.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	rerun   func()
}

// New creates a watcher for path. rerun fires after changes settle.
func New(path string, rerun func()) (*Watcher, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("watch target: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", path, err)
	}

	return &Watcher{watcher: watcher, path: path, rerun: rerun}, nil
}

// Run blocks until ctx is cancelled. Writes are debounced 500ms so a
// slow serial-console copy triggers one rerun, not hundreds.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(500*time.Millisecond, w.rerun)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "file watcher error: %v\n", err)
		}
	}
}
