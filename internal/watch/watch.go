// Package watch re-runs a build when any of its input files change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jonathan/resume-forge/internal/logfields"
)

// DefaultDebounce is how long the watcher waits for events to settle
const DefaultDebounce = 300 * time.Millisecond

// BuildFunc performs one build; its error is logged and the watcher keeps going
type BuildFunc func(ctx context.Context) error

// Watcher runs Build once at start and again after each settled burst of changes.
// Builds never overlap; changes seen during a build queue exactly one more build.
type Watcher struct {
	// Paths are files or directories; directories are watched recursively
	Paths []string
	// Ignore are directories whose changes never trigger a build (e.g. the output directory)
	Ignore   []string
	Debounce time.Duration
	Build    BuildFunc
	Logger   *slog.Logger

	files   map[string]struct{}
	dirs    []string
	ignored []string
}

// New creates a Watcher with the default debounce
func New(build BuildFunc, logger *slog.Logger, paths ...string) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{Paths: paths, Debounce: DefaultDebounce, Build: build, Logger: logger}
}

// Run blocks until ctx is canceled
func (w *Watcher) Run(ctx context.Context) error {
	if w.Build == nil {
		return errors.New("watch: no build function")
	}
	if w.Logger == nil {
		w.Logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := w.register(watcher); err != nil {
		return err
	}

	rebuildReq := make(chan struct{}, 1)
	rebuildReq <- struct{}{}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.worker(ctx, rebuildReq)
	}()
	defer wg.Wait()

	var mu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn("watcher error", logfields.Error(err))
		}
	}
}

// worker runs builds one at a time; the channel's single slot coalesces bursts
func (w *Watcher) worker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			started := time.Now()
			if err := w.Build(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				w.Logger.Warn("rebuild failed", logfields.Error(err))
				continue
			}
			w.Logger.Info("rebuild finished", logfields.DurationMS(float64(time.Since(started).Milliseconds())))
		}
	}
}

// register watches directories recursively and files through their parent
// directory, since editors often replace a file instead of writing it in place
func (w *Watcher) register(watcher *fsnotify.Watcher) error {
	w.files = map[string]struct{}{}
	w.dirs = nil
	w.ignored = nil
	for _, p := range w.Ignore {
		if abs, err := filepath.Abs(p); err == nil && p != "" {
			w.ignored = append(w.ignored, abs)
		}
	}

	for _, p := range w.Paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if info.IsDir() {
			w.dirs = append(w.dirs, abs)
			if err := w.addDirsRecursive(watcher, abs); err != nil {
				return err
			}
			continue
		}
		w.files[abs] = struct{}{}
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", abs, err)
		}
	}
	return nil
}

// relevant reports whether a changed path belongs to the watched inputs
func (w *Watcher) relevant(path string) bool {
	if shouldIgnoreEvent(path) || under(path, w.ignored) {
		return false
	}
	if _, ok := w.files[path]; ok {
		return true
	}
	return under(path, w.dirs)
}

// under reports whether path is one of dirs or inside one of them
func under(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	path, err := filepath.Abs(ev.Name)
	if err != nil || !w.relevant(path) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(path); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(watcher, path)
		}
	}
	w.Logger.Debug("file change detected", logfields.Path(path), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if under(path, w.ignored) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			w.Logger.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, editor swap and lock files
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#")) {
		return true
	}
	return base == "Thumbs.db"
}
