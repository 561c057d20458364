package level

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// putSpec lands a spec file atomically, the way editors save: write to
// a temp name the watcher ignores, then rename into place.
func putSpec(t *testing.T, dir, name, body string) string {
	t.Helper()
	tmp := filepath.Join(dir, name+".tmp")
	if err := os.WriteFile(tmp, []byte(body), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("rename spec: %v", err)
	}
	return path
}

func TestWatcherReloadsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	path := putSpec(t, dir, "dungeon.yaml", sampleTileset)

	select {
	case r := <-w.Reloads:
		if r.Path != path {
			t.Fatalf("reload path = %q, want %q", r.Path, path)
		}
		if r.Tileset.Name != "dungeon" || r.Tileset.TileW != 16 {
			t.Fatalf("reloaded tileset = %+v", r.Tileset)
		}
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload event")
	}
}

func TestWatcherSurfacesBrokenSpec(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	putSpec(t, dir, "broken.yaml", "name: [\n")

	select {
	case r := <-w.Reloads:
		t.Fatalf("broken spec delivered as reload: %+v", r)
	case err := <-w.Errors:
		if err == nil {
			t.Fatal("nil error from watcher")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no error event")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	putSpec(t, dir, "notes.txt", "not a tileset")

	select {
	case r := <-w.Reloads:
		t.Fatalf("non-spec file delivered: %+v", r)
	case err := <-w.Errors:
		t.Fatalf("non-spec file errored: %v", err)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcherCloseShutsChannels(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-w.Reloads; ok {
		t.Fatal("Reloads open after Close")
	}
	if _, ok := <-w.Errors; ok {
		t.Fatal("Errors open after Close")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
