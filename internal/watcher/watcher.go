// Package watcher reports changes to the commit history of a repository so
// the git log list can reload. Only the handful of paths inside .git that
// move when history moves are watched, never the working tree, so the
// watch count stays constant on large monorepos.
//
// Watched paths:
//   - .git/HEAD         → commits, branch switches
//   - .git/refs/heads   → local branch updates
//   - .git/refs/tags    → tag creation/deletion
//   - .git/refs/remotes → fetch/pull updates
//   - .git/packed-refs  → gc / pack-refs
//
// The index is ignored: staging does not change the log.
package watcher

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event is sent when the history may have changed.
type Event struct {
	// Path is the last path that changed within the debounce window.
	Path string
}

// Watcher coalesces fsnotify events on .git into Event values.
type Watcher struct {
	fs     *fsnotify.Watcher
	events chan Event
	done   chan struct{}
	log    *slog.Logger
}

// New starts watching gitDir. Rapid bursts are coalesced via the debounce
// window plus up to 50% random jitter, so several instances on one
// repository do not all reload at once.
func New(gitDir string, debounce time.Duration, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	added := 0
	for _, dir := range targets(gitDir) {
		if err := fw.Add(dir); err != nil {
			// Non-fatal: some dirs may not exist yet.
			log.Debug("watch skipped", "path", dir, "err", err)
			continue
		}
		added++
	}
	if added == 0 {
		_ = fw.Close()
		return nil, fmt.Errorf("nothing to watch under %s", gitDir)
	}

	w := &Watcher{
		fs:     fw,
		events: make(chan Event, 1),
		done:   make(chan struct{}),
		log:    log,
	}
	go w.loop(debounce)
	return w, nil
}

// Events returns the channel of coalesced events. It is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}

// targets lists the directories to watch. Files such as HEAD are covered
// by watching their parent.
func targets(gitDir string) []string {
	dirs := []string{
		gitDir,
		filepath.Join(gitDir, "refs", "heads"),
		filepath.Join(gitDir, "refs", "tags"),
	}
	remotes := filepath.Join(gitDir, "refs", "remotes")
	if entries, err := os.ReadDir(remotes); err == nil {
		dirs = append(dirs, remotes)
		for _, e := range entries {
			if e.IsDir() {
				dirs = append(dirs, filepath.Join(remotes, e.Name()))
			}
		}
	}
	return dirs
}

func (w *Watcher) loop(debounce time.Duration) {
	defer close(w.events)
	var (
		timer *time.Timer
		last  string
	)
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if shouldIgnore(ev.Name) {
				continue
			}
			last = ev.Name
			d := debounce + jitter(debounce/2)
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				timer.Reset(d)
			}
		case <-timerChan(timer):
			timer = nil
			w.log.Debug("history changed", "path", last)
			select {
			case w.events <- Event{Path: last}:
			default:
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watcher error", "err", err)
		case <-w.done:
			return
		}
	}
}

func jitter(n time.Duration) time.Duration {
	if n <= 0 {
		return 0
	}
	return time.Duration(rand.Int64N(int64(n)))
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

// shouldIgnore returns true for events that cannot move history.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	// Git lock files are transient, mid-operation. Reloading while git holds
	// one would race the writer.
	if strings.HasSuffix(base, ".lock") {
		return true
	}

	// Editor swap/temp files that somehow end up in .git.
	if strings.HasSuffix(base, ".swp") || strings.HasSuffix(base, ".swo") ||
		strings.HasSuffix(base, "~") || strings.HasPrefix(base, ".#") {
		return true
	}

	switch base {
	case "index", "COMMIT_EDITMSG", "gc.log", "FETCH_HEAD", "ORIG_HEAD":
		return true
	}
	return strings.HasPrefix(base, "fsmonitor")
}
