package chart

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads a chart file when it changes on disk. Editors tend to
// write charts with rename-and-replace, so the parent directory is
// watched and events are filtered by file name and debounced.
type Watcher struct {
	path     string
	debounce time.Duration
	onReload func(*Chart)
	fsw      *fsnotify.Watcher
	done     chan struct{}
}

// Watch starts watching the chart at path. onReload is called from the
// watcher goroutine with every successfully parsed new version; parse
// failures are logged and the previous chart stays live.
func Watch(path string, debounce time.Duration, onReload func(*Chart)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	w := &Watcher{
		path:     path,
		debounce: debounce,
		onReload: onReload,
		fsw:      fsw,
		done:     make(chan struct{}),
	}
	go w.run()

	log.Printf("Watching chart file %s", path)
	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) run() {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("Chart watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	ch, err := Load(w.path)
	if err != nil {
		log.Printf("Chart reload failed, keeping previous chart: %v", err)
		return
	}
	log.Printf("Chart %q reloaded from %s", ch.Name, w.path)
	w.onReload(ch)
}
