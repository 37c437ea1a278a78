package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) record(path string) {
	r.mu.Lock()
	r.paths = append(r.paths, path)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestWatcher_DebouncedReload(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "spots.csv")
	other := filepath.Join(dir, "notes.csv")
	if err := os.WriteFile(target, []byte("name,lat,lng\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	w := NewWatcher([]string{target}, rec.record, WithDebounce(100*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(target, []byte("name,lat,lng\nA,1,2\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(other, []byte("ignored"), 0644); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return len(rec.snapshot()) >= 1 })
	time.Sleep(300 * time.Millisecond)

	got := rec.snapshot()
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 debounced reload, got %d: %v", len(got), got)
	}
	if got[0] != filepath.Clean(target) {
		t.Errorf("reloaded %q, want %q", got[0], target)
	}
}

func TestWatcher_AddRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.xlsx")

	w := NewWatcher([]string{a}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.AddFile(b); err != nil {
		t.Fatal(err)
	}
	if err := w.AddFile(b); err != nil {
		t.Fatal(err)
	}
	files := w.Files()
	sort.Strings(files)
	if len(files) != 2 || files[0] != a || files[1] != b {
		t.Errorf("Files() = %v", files)
	}

	if err := w.RemoveFile(a); err != nil {
		t.Fatal(err)
	}
	if files := w.Files(); len(files) != 1 || files[0] != b {
		t.Errorf("after remove: %v", files)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher([]string{filepath.Join(t.TempDir(), "nope", "spots.csv")}, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Fatal("expected error for missing directory")
	}
}
