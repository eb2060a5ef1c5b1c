package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func startWatcher(t *testing.T, paths ...string) (<-chan []string, context.CancelFunc) {
	t.Helper()
	w, err := New(50*time.Millisecond, ".yap")
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	t.Cleanup(func() { w.Close() })
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			t.Fatal(err)
		}
	}

	changes := make(chan []string, 8)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = w.Run(ctx, func(paths []string) { changes <- paths })
	}()
	t.Cleanup(cancel)
	return changes, cancel
}

func expectChange(t *testing.T, changes <-chan []string, want string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case paths := <-changes:
			for _, p := range paths {
				if p == want {
					return
				}
			}
		case <-deadline:
			t.Fatalf("timeout waiting for a change to %s", want)
		}
	}
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "main.yap")
	other := filepath.Join(dir, "other.yap")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	changes, _ := startWatcher(t, target)

	if err := os.WriteFile(other, []byte("2;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(target, []byte("3;"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case paths := <-changes:
		for _, p := range paths {
			if p != target {
				t.Errorf("unwatched file reported: %s", p)
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for fsnotify event")
	}
}

func TestWatchDirectory(t *testing.T) {
	dir := t.TempDir()
	changes, _ := startWatcher(t, dir)

	sub := filepath.Join(dir, "lib")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	top := filepath.Join(dir, "a.yap")
	if err := os.WriteFile(top, []byte("1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	expectChange(t, changes, top)

	// the new subdirectory is followed
	nested := filepath.Join(sub, "b.yap")
	deadline := time.Now().Add(2 * time.Second)
	for {
		if err := os.WriteFile(nested, []byte("2;"), 0o644); err != nil {
			t.Fatal(err)
		}
		select {
		case paths := <-changes:
			for _, p := range paths {
				if p == nested {
					return
				}
			}
		case <-time.After(200 * time.Millisecond):
		}
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for a change to %s", nested)
		}
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	w, err := New(10*time.Millisecond, ".yap")
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func([]string) {}) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestFollowReportsErrors(t *testing.T) {
	dir := t.TempDir()
	w, err := New(time.Millisecond, ".yap")
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	var reported []error
	w.OnError = func(err error) { reported = append(reported, err) }
	if err := w.Add(dir); err != nil {
		t.Fatal(err)
	}

	sub := filepath.Join(dir, "lib")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	// a closed watcher cannot add the new directory
	w.Close()
	w.follow(fsnotify.Event{Name: sub, Op: fsnotify.Create})

	if len(reported) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(reported), reported)
	}
	if !strings.Contains(reported[0].Error(), "watch "+sub) {
		t.Errorf("error %q does not name %s", reported[0], sub)
	}
}

func TestAddMissing(t *testing.T) {
	w, err := New(time.Millisecond, ".yap")
	if err != nil {
		t.Skip("fsnotify not supported: ", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Join(t.TempDir(), "missing.yap")); err == nil {
		t.Error("expected an error watching a missing file")
	}
}
