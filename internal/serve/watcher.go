package serve

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// ChangeType represents the type of file change.
type ChangeType int

const (
	ChangeModified ChangeType = iota
	ChangeCreated
	ChangeRemoved
)

func (t ChangeType) String() string {
	switch t {
	case ChangeCreated:
		return "created"
	case ChangeRemoved:
		return "removed"
	default:
		return "modified"
	}
}

// Change represents a detected file change.
type Change struct {
	Path string
	Type ChangeType
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the files or directories to watch.
	Paths []string

	// Ignore lists base-name glob patterns to skip.
	Ignore []string

	// Interval is the polling period. Changes seen within one interval are
	// delivered as a single batch.
	Interval time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	".git",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls files for modification time changes.
type Watcher struct {
	config     WatcherConfig
	onChange   func([]Change)
	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time
}

// NewWatcher creates a new file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Interval <= 0 {
		config.Interval = 200 * time.Millisecond
	}
	if len(config.Ignore) == 0 {
		config.Ignore = DefaultIgnore
	}
	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnChange sets the callback for change batches. It runs on the watcher
// goroutine, so batches never overlap.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Start polls until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	stopCh, ok := w.begin()
	if !ok {
		return nil
	}
	return w.loop(ctx, stopCh)
}

// begin marks the watcher running and takes the initial snapshot. It
// reports false when the watcher is already running. A Stop after begin
// returns ends the matching loop, even if the loop has not started yet.
func (w *Watcher) begin() (chan struct{}, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil, false
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.timestamps = w.scan()
	return w.stopCh, true
}

func (w *Watcher) loop(ctx context.Context, stopCh chan struct{}) error {
	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.stop(stopCh)
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.poll()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// stop ends the run owning stopCh and leaves a newer run alone.
func (w *Watcher) stop(stopCh chan struct{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running && w.stopCh == stopCh {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning returns whether the watcher is running.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// poll compares a fresh scan with the previous one and reports the
// difference.
func (w *Watcher) poll() {
	current := w.scan()

	w.mu.Lock()
	previous := w.timestamps
	w.timestamps = current
	callback := w.onChange
	w.mu.Unlock()

	changes := diff(previous, current)
	if len(changes) > 0 && callback != nil {
		callback(changes)
	}
}

func diff(previous, current map[string]time.Time) []Change {
	var changes []Change
	for p, mod := range current {
		last, ok := previous[p]
		switch {
		case !ok:
			changes = append(changes, Change{Path: p, Type: ChangeCreated})
		case !mod.Equal(last):
			changes = append(changes, Change{Path: p, Type: ChangeModified})
		}
	}
	for p := range previous {
		if _, ok := current[p]; !ok {
			changes = append(changes, Change{Path: p, Type: ChangeRemoved})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func (w *Watcher) scan() map[string]time.Time {
	stamps := make(map[string]time.Time)
	for _, root := range w.config.Paths {
		filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if w.shouldIgnore(p) {
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !info.IsDir() {
				stamps[p] = info.ModTime()
			}
			return nil
		})
	}
	return stamps
}

func (w *Watcher) shouldIgnore(p string) bool {
	name := filepath.Base(p)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
