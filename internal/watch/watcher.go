// Package watch follows the media and subtitle directories and reports
// settled changes to files the lists care about.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"ezsubs/internal/log"
	"ezsubs/pkg/types"

	"github.com/fsnotify/fsnotify"
)

// DefaultInterval is how long the directories must stay quiet before a
// change is reported.
const DefaultInterval = 500 * time.Millisecond

// Change is a debounced batch of file events.
type Change struct {
	Paths     []string // affected files, sorted
	Timestamp time.Time
}

// Watcher monitors directories for file changes using fsnotify
type Watcher struct {
	directories []string
	allowed     types.ExtensionSet
	interval    time.Duration

	changes   chan Change
	stopChan  chan struct{}
	done      chan struct{}
	fsWatcher *fsnotify.Watcher

	mutex   sync.RWMutex
	running bool
}

// New creates a watcher reporting changes to files whose extension is in
// allowed. A non-positive interval means DefaultInterval.
func New(allowed types.ExtensionSet, interval time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Watcher{
		allowed:   allowed,
		interval:  interval,
		changes:   make(chan Change, 1),
		fsWatcher: fsWatcher,
	}, nil
}

// AddDirectory adds a directory to watch using fsnotify
func (w *Watcher) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("error accessing directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := w.fsWatcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add directory %s to watcher: %w", dir, err)
	}

	w.mutex.Lock()
	found := false
	for _, existing := range w.directories {
		if existing == dir {
			found = true
			break
		}
	}
	if !found {
		w.directories = append(w.directories, dir)
	}
	w.mutex.Unlock()
	log.LogWithFields(log.F("directory", dir)).Info("Watching directory")
	return nil
}

// Changes returns the channel that delivers debounced changes. It is closed
// when the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Start begins the event loop.
func (w *Watcher) Start() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if w.done != nil {
		return fmt.Errorf("watcher cannot be restarted")
	}
	w.running = true
	w.stopChan = make(chan struct{})
	w.done = make(chan struct{})

	go w.loop()
	log.Debug("Watcher started")
	return nil
}

func (w *Watcher) loop() {
	defer close(w.done)
	defer close(w.changes)

	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.interval)
			} else {
				timer.Reset(w.interval)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			change := Change{Paths: make([]string, 0, len(pending)), Timestamp: time.Now()}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			sort.Strings(change.Paths)
			pending = make(map[string]struct{})

			select {
			case w.changes <- change:
			case <-w.stopChan:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stopChan:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant keeps events for files with an allowed extension. Removed and
// renamed-away files can no longer be stat'ed, so only the name is checked
// for them.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	ext := filepath.Ext(event.Name)
	if ext == "" || !w.allowed.Contains(ext) {
		return false
	}
	if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return false
		}
	}
	return true
}

// Stop halts the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mutex.Lock()
	if !w.running {
		w.mutex.Unlock()
		return
	}
	w.running = false
	close(w.stopChan)
	w.mutex.Unlock()

	if err := w.fsWatcher.Close(); err != nil {
		log.LogWithFields(log.F("error", err)).Error("Error closing fsnotify watcher")
	}
	<-w.done
	log.Debug("Watcher stopped")
}

// IsRunning returns whether the watcher is currently active
func (w *Watcher) IsRunning() bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	return w.running
}

// GetDirectories returns the list of directories being watched
func (w *Watcher) GetDirectories() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()
	dirs := make([]string, len(w.directories))
	copy(dirs, w.directories)
	return dirs
}
