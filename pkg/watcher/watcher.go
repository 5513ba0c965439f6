package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher watches files for changes and triggers a debounced callback.
// Callbacks never run concurrently with each other.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	runMu    sync.Mutex
	files    map[string]bool
	debounce time.Duration
	timer    *time.Timer
	rewatchT *time.Timer
	stopped  bool
	onChange func(path string)
	onError  func(err error)
}

// NewFileWatcher creates a new file watcher.
// onChange receives the absolute path of the file that changed last within the debounce window.
func NewFileWatcher(debounce time.Duration, onChange func(path string)) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  w,
		files:    make(map[string]bool),
		debounce: debounce,
		onChange: onChange,
		onError:  func(error) {},
	}, nil
}

// OnError sets the handler for errors reported by the underlying watcher
func (fw *FileWatcher) OnError(handler func(err error)) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.onError = handler
}

// Watch starts watching the specified files
func (fw *FileWatcher) Watch(files ...string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if fw.files[absPath] {
			continue
		}

		if err := fw.watcher.Add(absPath); err != nil {
			return fmt.Errorf("failed to watch %s: %w", absPath, err)
		}
		fw.files[absPath] = true
	}

	return nil
}

// Files returns the number of watched files
func (fw *FileWatcher) Files() int {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return len(fw.files)
}

// Run processes file events until ctx is cancelled or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			fw.stopTimer()
			return ctx.Err()

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.handleFileChange(event.Name)
			}
			// editors that save by rename drop the watch; re-add it
			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				fw.rewatch(event.Name)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.mu.Lock()
			handler := fw.onError
			fw.mu.Unlock()
			handler(err)
		}
	}
}

// handleFileChange restarts the debounce timer for a watched file
func (fw *FileWatcher) handleFileChange(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped || !fw.files[filePath] {
		return
	}

	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.debounce, func() {
		fw.runMu.Lock()
		defer fw.runMu.Unlock()
		fw.onChange(filePath)
	})
}

func (fw *FileWatcher) rewatch(filePath string) {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.stopped || !fw.files[filePath] {
		return
	}

	if fw.rewatchT != nil {
		fw.rewatchT.Stop()
	}
	// the file may reappear shortly after the rename
	fw.rewatchT = time.AfterFunc(fw.debounce, func() {
		fw.mu.Lock()
		stopped := fw.stopped
		fw.mu.Unlock()
		if stopped {
			return
		}
		if err := fw.watcher.Add(filePath); err == nil {
			fw.handleFileChange(filePath)
		}
	})
}

// stopTimer cancels pending callbacks; no new ones are scheduled afterwards
func (fw *FileWatcher) stopTimer() {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	fw.stopped = true
	if fw.timer != nil {
		fw.timer.Stop()
	}
	if fw.rewatchT != nil {
		fw.rewatchT.Stop()
	}
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	fw.stopTimer()
	return fw.watcher.Close()
}
