package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ashgrovelabs/testsmith/internal/swiftscan"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

// debounceWindow coalesces event bursts (saves, branch switches, Xcode
// touching many files) into a single re-ingestion.
const debounceWindow = 2 * time.Second

// Watcher triggers a callback when Swift sources under a root change.
// fsnotify watches are non-recursive, so every non-excluded directory is
// registered individually and new directories are picked up on create.
type Watcher struct {
	root    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	stop    chan struct{}
}

// NewWatcher creates a watcher over root. Call Start to begin watching.
func NewWatcher(root string, logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		root:    root,
		watcher: w,
		logger:  logger,
		stop:    make(chan struct{}),
	}, nil
}

// Start registers directory watches and runs the event loop in a background
// goroutine. onChange is invoked after the debounce window whenever a Swift
// file changed; it runs on the watcher goroutine, so it must not block
// indefinitely.
func (w *Watcher) Start(ctx context.Context, onChange func()) error {
	if err := w.addRecursive(w.root); err != nil {
		return err
	}
	go w.loop(ctx, onChange)
	return nil
}

// Stop stops the watcher and releases its resources.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
	default:
		close(w.stop)
		_ = w.watcher.Close()
	}
}

func (w *Watcher) loop(ctx context.Context, onChange func()) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case <-fire:
			fire = nil
			onChange()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// relevant reports whether the event should trigger re-ingestion. Directory
// creation also registers a new watch so files added inside it are seen.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&fsnotify.Create != 0 {
		// Best effort: path may be a new directory to track.
		if !excludedDir(event.Name) {
			_ = w.addRecursive(event.Name)
		}
	}
	if !strings.HasSuffix(event.Name, ".swift") {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

// addRecursive watches path and every non-excluded directory below it.
// A path that is not a directory is ignored.
func (w *Watcher) addRecursive(path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return nil
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && excludedDir(p) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(p); err != nil {
			w.logger.Warn("cannot watch directory", zap.String("dir", p), zap.Error(err))
		}
		return nil
	})
}

// excludedDir applies the scanner's directory denylist to a full path.
func excludedDir(path string) bool {
	return swiftscan.ExcludedDir(filepath.Base(path))
}
