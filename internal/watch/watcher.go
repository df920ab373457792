// Package watch re-renders post sources as they change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/postforge/internal/logfields"
	"git.home.luguber.info/inful/postforge/internal/pipeline"
)

// Watcher monitors a content directory and feeds changed sources through the
// pipeline. Events are debounced so editor write bursts produce one render.
type Watcher struct {
	dir        string
	extensions []string
	pipeline   *pipeline.Pipeline
	watcher    *fsnotify.Watcher
	debounce   time.Duration

	mu       sync.Mutex
	changed  map[string]bool // path -> seen since last flush
	removed  map[string]bool
	timer    *time.Timer
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher over dir for the given source extensions.
func NewWatcher(dir string, extensions []string, p *pipeline.Pipeline, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve content dir: %w", err)
	}

	return &Watcher{
		dir:        absDir,
		extensions: extensions,
		pipeline:   p,
		watcher:    fsw,
		debounce:   debounce,
		changed:    make(map[string]bool),
		removed:    make(map[string]bool),
		stopChan:   make(chan struct{}),
	}, nil
}

// Start registers the content tree with the file watcher and begins the event
// loop. Subdirectories created later are picked up automatically.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addTree(w.dir); err != nil {
		return err
	}

	slog.Info("Watching content directory", slog.String("dir", w.dir))
	go w.eventLoop(ctx)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		err = w.watcher.Close()
	})
	return err
}

// addTree watches dir and every non-hidden subdirectory beneath it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && len(d.Name()) > 0 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) eventLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.cancelTimer()
			return
		case <-w.stopChan:
			w.cancelTimer()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("Content watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	// New directories join the watch set immediately; their contents arrive
	// as separate Create events.
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if filepath.Base(event.Name)[0] != '.' {
				if err := w.addTree(event.Name); err != nil {
					slog.Error("Failed to watch new directory",
						slog.String("dir", event.Name), logfields.Error(err))
				}
			}
			return
		}
	}

	if !pipeline.IsSource(event.Name, w.extensions) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	switch {
	case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
		w.removed[event.Name] = true
		delete(w.changed, event.Name)
	case event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create):
		w.changed[event.Name] = true
		delete(w.removed, event.Name)
	default:
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() { w.flush(ctx) })
}

func (w *Watcher) cancelTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// flush drains the pending change sets and applies them through the pipeline.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	changed := w.changed
	removed := w.removed
	w.changed = make(map[string]bool)
	w.removed = make(map[string]bool)
	w.mu.Unlock()

	for path := range removed {
		if err := w.pipeline.RemoveBySource(ctx, path); err != nil {
			slog.Error("Failed to remove documents for deleted source",
				logfields.Source(path), logfields.Error(err))
		} else {
			slog.Info("Source removed", logfields.Source(path))
		}
	}

	var sources []pipeline.Source
	for path := range changed {
		content, err := os.ReadFile(path)
		if err != nil {
			// The file may have vanished between the event and the flush.
			slog.Warn("Failed to read changed source",
				logfields.Source(path), logfields.Error(err))
			continue
		}
		sources = append(sources, pipeline.Source{Name: path, Content: content})
	}
	if len(sources) == 0 {
		return
	}

	report := w.pipeline.RenderBatch(ctx, sources)
	slog.Info("Re-rendered changed sources",
		logfields.BatchID(report.BatchID),
		slog.Int("rendered", report.Rendered),
		slog.Int("failed", report.Failed))
}
