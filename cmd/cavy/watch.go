package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watcher reports changes to one file. It watches the file's directory so
// that editors which replace the file on save are seen.
type watcher struct {
	fs       *fsnotify.Watcher
	path     string
	debounce time.Duration
}

func newWatcher(path string) (*watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &watcher{fs: fw, path: abs, debounce: 100 * time.Millisecond}, nil
}

func (w *watcher) Close() error {
	return w.fs.Close()
}

// run calls changed after each burst of writes to the file until ctx is done.
func (w *watcher) run(ctx context.Context, changed func()) error {
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				settle = time.After(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			return err
		case <-settle:
			settle = nil
			changed()
		}
	}
}

// watch runs a file, then runs it again each time it changes. The exit status
// is that of the last run.
func (d *driver) watch(ctx context.Context, path string, act action) int {
	w, err := newWatcher(path)
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return 1
	}
	defer w.Close()
	code := d.file(path, act)
	err = w.run(ctx, func() {
		fmt.Fprintf(d.stderr, "%s changed\n", path)
		code = d.file(path, act)
	})
	if err != nil {
		fmt.Fprintln(d.stderr, err)
		return 1
	}
	return code
}
