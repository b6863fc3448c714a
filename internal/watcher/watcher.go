package watcher

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// skippedDirs are never watched.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	".tox":         true,
}

// Options configures a Watcher.
type Options struct {
	Root         string
	Debounce     time.Duration
	PollInterval time.Duration
	// Relevant filters events by slash-separated path relative to Root.
	// A nil filter accepts every path.
	Relevant func(relPath string) bool
	Logger   *slog.Logger
}

// Watcher feeds filesystem events and poll ticks into a Machine and calls
// the trigger when a debounced change is ready. Triggers run on the
// watcher goroutine, so analyses never overlap.
type Watcher struct {
	opts    Options
	machine *Machine
	fs      *fsnotify.Watcher
	logger  *slog.Logger
}

func New(opts Options) (*Watcher, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		opts:    opts,
		machine: NewMachine(opts.Debounce),
		fs:      fsw,
		logger:  logger,
	}, nil
}

func (w *Watcher) State() State {
	return w.machine.State()
}

// Run watches until ctx is done. It blocks and should be run in a goroutine
// when the caller has other work.
func (w *Watcher) Run(ctx context.Context, trigger func(ctx context.Context)) error {
	if w.machine.State() == Watching {
		return ErrAlreadyWatching
	}
	if err := w.addTree(w.opts.Root); err != nil {
		return err
	}
	gitDir := filepath.Join(w.opts.Root, ".git")
	for _, dir := range []string{gitDir, filepath.Join(gitDir, "refs", "heads")} {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if err := w.fs.Add(dir); err != nil {
				w.logger.Debug("failed to watch git dir", "path", dir, "error", err)
			}
		}
	}

	if err := w.machine.Start(); err != nil {
		return err
	}
	defer w.machine.Stop()

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	w.logger.Info("watching for changes", "root", w.opts.Root)

	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case now := <-ticker.C:
			if w.machine.Tick(now) {
				trigger(ctx)
			}

		case <-ctx.Done():
			w.logger.Debug("watcher stopping")
			return nil
		}
	}
}

func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 && !skipDir(filepath.Base(event.Name)) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Debug("failed to watch new directory", "path", event.Name, "error", err)
			}
		}
	}

	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	rel, err := filepath.Rel(w.opts.Root, event.Name)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)

	if !w.relevant(rel) {
		return
	}

	w.logger.Debug("change detected", "path", rel, "op", event.Op.String())
	w.machine.Event(time.Now())
}

// relevant accepts HEAD and ref updates inside .git plus whatever the
// configured filter accepts elsewhere.
func (w *Watcher) relevant(rel string) bool {
	if rel == ".git" || strings.HasPrefix(rel, ".git/") {
		return rel == ".git/HEAD" || strings.HasPrefix(rel, ".git/refs/")
	}
	if w.opts.Relevant == nil {
		return true
	}
	return w.opts.Relevant(rel)
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || skippedDirs[name]
}

// addTree watches root and every directory below it. Only a failure on root
// itself is returned; unreadable subdirectories are logged and skipped.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, w.visit(root))
}

func (w *Watcher) visit(root string) fs.WalkDirFunc {
	return func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("skipping unreadable directory", "path", path, "error", err)
			if d == nil || d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			if path == root {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
			return filepath.SkipDir
		}
		return nil
	}
}
