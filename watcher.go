package main

import (
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const (
	reloadDebounce  = 250 * time.Millisecond
	selfWriteWindow = 500 * time.Millisecond
)

// FileChangeMsg is sent when the store file changes on disk
type FileChangeMsg struct {
	Path    string
	Deleted bool
}

// reloadMsg fires after the debounce delay; only the latest generation reloads
type reloadMsg struct {
	generation int
}

// Watcher wraps fsnotify to watch the store file for changes made by
// other programs
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
}

// NewWatcher watches the directory holding path. Saves replace the file
// by renaming, so watching the file itself would lose track of it.
func NewWatcher(path string) (*Watcher, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	return &Watcher{watcher: w, path: filepath.Clean(path)}, nil
}

// WatchCmd returns a BubbleTea command that listens for file changes
func (w *Watcher) WatchCmd() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return nil
				}

				// Temp files from atomic saves share the directory
				if filepath.Clean(event.Name) != w.path {
					continue
				}

				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}

				deleted := event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
				return FileChangeMsg{Path: event.Name, Deleted: deleted}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return nil
				}
				continue
			}
		}
	}
}

// Close stops the watcher
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// scheduleReload starts the debounce timer for the given generation
func scheduleReload(generation int) tea.Cmd {
	return tea.Tick(reloadDebounce, func(time.Time) tea.Msg {
		return reloadMsg{generation: generation}
	})
}
