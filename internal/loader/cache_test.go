package loader

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestCacheParse(t *testing.T) {
	c := NewCache()

	first, changed := c.Parse("a.yap", []byte("let a = 1;"))
	if !changed {
		t.Error("first parse reported as unchanged")
	}
	again, changed := c.Parse("a.yap", []byte("let a = 1;"))
	if changed || again != first {
		t.Error("identical contents were parsed again")
	}
	edited, changed := c.Parse("a.yap", []byte("let a = 2;"))
	if !changed || edited == first {
		t.Error("edited contents were served from the cache")
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 2 || stats.BytesSkipped != int64(len("let a = 1;")) {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestCacheReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.yap")
	if err := os.WriteFile(path, []byte("1;"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewCache()
	if _, changed, err := c.ReadFile(path); err != nil || !changed {
		t.Fatalf("ReadFile = changed %v, err %v", changed, err)
	}
	// rewriting the same bytes is not a change
	if err := os.WriteFile(path, []byte("1;"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, changed, err := c.ReadFile(path); err != nil || changed {
		t.Errorf("ReadFile after touch = changed %v, err %v", changed, err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.ReadFile(path); err == nil {
		t.Error("expected an error for a removed file")
	}
	if c.Len() != 0 || c.Stats().Evictions != 1 {
		t.Errorf("removed file still cached: len %d, stats %+v", c.Len(), c.Stats())
	}
}

func TestCacheAdd(t *testing.T) {
	c := NewCache()
	f := Parse("b.yap", []byte("2;"))
	c.Add(f)
	if got, changed := c.Parse("b.yap", []byte("2;")); changed || got != f {
		t.Error("added file not served from the cache")
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Parse("shared.yap", []byte("let x = 1;"))
			}
		}()
	}
	wg.Wait()

	stats := c.Stats()
	if stats.Hits+stats.Misses != 400 {
		t.Errorf("lost lookups: %+v", stats)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}
