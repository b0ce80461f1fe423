package batch

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/nfoedit/nfoedit/internal/domain"
)

// Watcher flags pending tasks whose files change between preview and
// apply. A stale task can still be applied; the flag is surfaced in status
// so a caller knows the preview may no longer match the tree.
type Watcher struct {
	fw *fsnotify.Watcher

	mu      sync.Mutex
	tracked map[string]*domain.BatchTask
	done    chan struct{}
}

// NewWatcher creates a watcher and starts its event loop
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fw:      fw,
		tracked: make(map[string]*domain.BatchTask),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Track watches a pending task's directory tree. Watches stay registered
// for the process lifetime even after Untrack: fsnotify watches are cheap
// and several tasks may share a directory.
func (w *Watcher) Track(task *domain.BatchTask, dirs []string) {
	w.mu.Lock()
	w.tracked[task.ID] = task
	w.mu.Unlock()

	for _, dir := range dirs {
		// Best effort: a directory that vanished or cannot be watched
		// just goes unobserved.
		_ = w.fw.Add(dir)
	}
}

// Untrack stops staleness tracking for a task
func (w *Watcher) Untrack(taskID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.tracked, taskID)
}

// Close stops the event loop and releases the underlying watcher
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(ev.Name), ".nfo") {
				continue
			}
			w.markAffected(ev.Name)
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
		}
	}
}

func (w *Watcher) markAffected(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, task := range w.tracked {
		if underDir(path, task.Directory) {
			task.MarkStale()
		}
	}
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
