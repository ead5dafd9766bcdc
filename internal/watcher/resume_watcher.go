// Package watcher re-runs a callback when resume files change on disk.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"resumescore/internal/errors"
)

// DefaultDebounce is used when no debounce delay is configured
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc receives the path of a file whose content changed
type ChangeFunc func(path string)

type fileState struct {
	modTime time.Time
	size    int64
	exists  bool
}

// ResumeWatcher watches resume files and calls back after edits settle
type ResumeWatcher struct {
	mu sync.Mutex

	files []string
	state map[string]fileState

	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan    chan struct{}
	triggerChan chan struct{}
	done        chan struct{}

	onChange ChangeFunc
	logger   *errors.Logger

	running bool
}

// NewResumeWatcher creates a watcher for the given files
func NewResumeWatcher(files []string, debounceDelay time.Duration, onChange ChangeFunc, logger *errors.Logger) (*ResumeWatcher, error) {
	if len(files) == 0 {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "at least one file to watch is required", nil)
	}
	if onChange == nil {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidRequest, "change callback is required", nil)
	}
	if debounceDelay <= 0 {
		debounceDelay = DefaultDebounce
	}
	if logger == nil {
		logger = errors.Nop()
	}

	absFiles := make([]string, 0, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return nil, errors.NewIOError(errors.ErrCodeFileNotFound, "failed to resolve watched file", err).
				WithContext("file", file)
		}
		absFiles = append(absFiles, abs)
	}

	return &ResumeWatcher{
		files:         absFiles,
		state:         make(map[string]fileState),
		debounceDelay: debounceDelay,
		onChange:      onChange,
		logger:        logger,
	}, nil
}

// Start begins watching; the callback runs on the watcher goroutine
func (w *ResumeWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("resume watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.fsWatcher = fsWatcher

	for _, file := range w.files {
		w.state[file] = statFile(file)
	}

	// editors save by rename, so watch directories rather than the files themselves
	dirs := make([]string, 0, len(w.files))
	for _, file := range w.files {
		dir := filepath.Dir(file)
		if slices.Contains(dirs, dir) {
			continue
		}
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		dirs = append(dirs, dir)
	}

	w.stopChan = make(chan struct{})
	w.triggerChan = make(chan struct{}, 1)
	w.done = make(chan struct{})
	w.running = true
	go w.watchLoop()

	w.logger.Info("Resume file watcher started",
		"files", w.files,
		"debounce_delay", w.debounceDelay)
	return nil
}

// Stop stops watching and waits for the event loop to exit
func (w *ResumeWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	done := w.done
	err := w.fsWatcher.Close()
	w.mu.Unlock()

	<-done
	if err != nil {
		w.logger.LogError(err, "Failed to close file system watcher")
		return err
	}
	w.logger.Info("Resume file watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *ResumeWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Files returns the absolute paths being watched
func (w *ResumeWatcher) Files() []string {
	return slices.Clone(w.files)
}

func (w *ResumeWatcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if w.isRelevant(event) {
				w.scheduleCheck()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "File watcher error")

		case <-w.triggerChan:
			for _, file := range w.changedFiles() {
				w.logger.Debug("Resume file changed", "file", file)
				w.onChange(file)
			}

		case <-w.stopChan:
			return
		}
	}
}

func (w *ResumeWatcher) isRelevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return slices.Contains(w.files, name)
}

// scheduleCheck restarts the debounce timer
func (w *ResumeWatcher) scheduleCheck() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.triggerChan <- struct{}{}:
		default:
			// a check is already pending
		}
	})
}

// changedFiles returns files whose size or modification time moved since the last check
func (w *ResumeWatcher) changedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	var changed []string
	for _, file := range w.files {
		current := statFile(file)
		previous := w.state[file]
		w.state[file] = current
		if !current.exists {
			continue
		}
		if !previous.exists || current.size != previous.size || !current.modTime.Equal(previous.modTime) {
			changed = append(changed, file)
		}
	}
	return changed
}

func statFile(path string) fileState {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), exists: true}
}
