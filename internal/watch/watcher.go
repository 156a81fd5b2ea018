// Package watch re-runs an action when any of a set of files changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docleaflet/internal/frontmatter"
	"git.home.luguber.info/inful/docleaflet/internal/logfields"
)

// DefaultDebounce collapses editor save bursts into one change.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors files and calls OnChange after they settle.
// A file whose content fingerprint did not change since the last call is
// not reported.
type Watcher struct {
	files    map[string]struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(ctx context.Context, changed []string)
	logger   *slog.Logger

	mu      sync.Mutex
	seen    map[string]string // path -> last reported fingerprint
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a Watcher for files. Directories containing the files are
// watched rather than the files, so rename-on-save editors keep working.
func New(files []string, debounce time.Duration, onChange func(ctx context.Context, changed []string), logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		seen:     make(map[string]string, len(files)),
		watcher:  fw,
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
		pending:  make(map[string]struct{}),
	}
	dirs := map[string]struct{}{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve path %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		w.seen[abs] = fingerprintFile(abs)
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
	}
	return w, nil
}

// Run processes events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
		if err := w.watcher.Close(); err != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[abs]; !ok {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		if ev.Has(fsnotify.Remove) {
			w.logger.Warn("Watched file removed", logfields.Path(abs))
		}
		return
	}
	w.logger.Debug("File change detected", logfields.Path(abs), slog.String("op", ev.Op.String()))

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[abs] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
}

func (w *Watcher) fire(ctx context.Context) {
	w.mu.Lock()
	changed := make([]string, 0, len(w.pending))
	for p := range w.pending {
		fp := fingerprintFile(p)
		if fp != "" && fp == w.seen[p] {
			w.logger.Debug("Content unchanged, skipping", logfields.Path(p))
			continue
		}
		w.seen[p] = fp
		changed = append(changed, p)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(changed) == 0 || ctx.Err() != nil {
		return
	}
	w.onChange(ctx, changed)
}

// fingerprintFile returns "" when path cannot be read, so the change is
// always reported and the caller sees the read error.
func fingerprintFile(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return frontmatter.Fingerprint(content)
}
