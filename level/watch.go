package level

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reload is one hot-reloaded tileset spec: the file that changed and
// the tileset loaded from it. The watcher validates the spec before
// delivering it; consumers re-register and refresh whatever they
// derived from the old definition.
type Reload struct {
	Path    string
	Tileset *Tileset
}

// Watcher hot-reloads tileset spec files under a set of directories.
// A broken save keeps the previous definition in effect and surfaces
// on Errors instead. Events are debounced so one editor save does not
// reload twice. Reloads and Errors close after Close returns.
type Watcher struct {
	watcher *fsnotify.Watcher
	Reloads chan Reload
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		Reloads: make(chan Reload, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close stops the watch loop and waits for it to exit. Only the loop
// closes Reloads and Errors, so a send in flight can never hit a
// closed channel.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.Errors)
	defer close(w.Reloads)

	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// A deleted spec keeps its last registration; only
			// changes that leave a loadable file trigger a reload.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !isSpecFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}
			last[event.Name] = now
			w.reload(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload(path string) {
	ts, err := LoadTileset(path)
	if err != nil {
		w.send(fmt.Errorf("level: reload %s: %w", path, err))
		return
	}
	select {
	case w.Reloads <- Reload{Path: path, Tileset: ts}:
	case <-w.closeCh:
	}
}

func (w *Watcher) send(err error) {
	select {
	case w.Errors <- err:
	case <-w.closeCh:
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
