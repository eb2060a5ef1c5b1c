// Package watch reports changes to Yap source files using OS-native
// notifications.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// Watcher batches file change notifications. Files are watched through
// their directory so that editors replacing a file by rename are seen.
type Watcher struct {
	w        *fsnotify.Watcher
	debounce time.Duration
	ext      string

	// OnError receives failures that do not stop Run, such as a new
	// subdirectory that cannot be watched. Nil drops them.
	OnError func(err error)

	mu    sync.Mutex
	files map[string]bool // watched files
	trees map[string]bool // watched directories, matched by extension
}

// New creates a watcher that waits debounce after the last change before
// reporting. Files under watched directories are reported when they have
// extension ext.
func New(debounce time.Duration, ext string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	return &Watcher{
		w:        w,
		debounce: debounce,
		ext:      ext,
		files:    make(map[string]bool),
		trees:    make(map[string]bool),
	}, nil
}

// Add watches path: a file, or a directory together with its subdirectories.
func (w *Watcher) Add(path string) error {
	path = filepath.Clean(path)
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "watch %s", path)
	}

	if !info.IsDir() {
		w.mu.Lock()
		w.files[path] = true
		w.mu.Unlock()
		return errors.Wrapf(w.w.Add(filepath.Dir(path)), "watch %s", path)
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		w.mu.Lock()
		w.trees[p] = true
		w.mu.Unlock()
		return errors.Wrapf(w.w.Add(p), "watch %s", p)
	})
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.w.Close()
}

// relevant reports whether an event on path concerns a watched file.
func (w *Watcher) relevant(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.files[path] {
		return true
	}
	return w.trees[filepath.Dir(path)] && filepath.Ext(path) == w.ext
}

// follow starts watching a directory created inside a watched tree.
func (w *Watcher) follow(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) {
		return
	}
	w.mu.Lock()
	inTree := w.trees[filepath.Dir(ev.Name)]
	w.mu.Unlock()
	if !inTree {
		return
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.Add(ev.Name); err != nil && w.OnError != nil {
		w.OnError(err)
	}
}

// Run calls onChange with the sorted set of changed files each time
// changes settle, until ctx is done or the watcher fails.
func (w *Watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(time.Hour)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.follow(ev)
			if ev.Op == fsnotify.Chmod || !w.relevant(filepath.Clean(ev.Name)) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			return errors.Wrap(err, "watch")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]bool)
			onChange(paths)
		}
	}
}
