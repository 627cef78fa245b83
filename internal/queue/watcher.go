package queue

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docsift/pdf-extract-server/internal/extract"
)

// defaultSettleDelay is how long a file must stay quiet after its last write
// event before it is enqueued. Copies into the inbox arrive as many small
// writes.
const defaultSettleDelay = 2 * time.Second

// Watcher auto-enqueues PDF files dropped into an inbox directory.
type Watcher struct {
	queue    *Queue
	dir      string
	logger   *slog.Logger
	settle   time.Duration
	priority int

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewWatcher creates a watcher over dir that submits finished files to q.
func NewWatcher(q *Queue, dir string, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		queue:    q,
		dir:      dir,
		logger:   logger.With("component", "watcher", "dir", dir),
		settle:   defaultSettleDelay,
		priority: PriorityNormal,
		timers:   make(map[string]*time.Timer),
	}
}

// Run watches the inbox until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching inbox")

	for {
		select {
		case <-ctx.Done():
			w.stopTimers()
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.HasSuffix(strings.ToLower(event.Name), ".pdf") {
				continue
			}
			w.schedule(event.Name)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// schedule arms the settle timer for a path, resetting it on repeat events so
// a file is enqueued once, after its last write.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Reset(w.settle)
		return
	}

	w.timers[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		item, err := w.queue.Submit(path, w.priority, extract.ProcessConfig{})
		if err != nil {
			w.logger.Warn("failed to enqueue inbox file",
				"path", filepath.Base(path), "error", err)
			return
		}
		w.logger.Info("inbox file enqueued",
			"path", filepath.Base(path), "id", item.ID)
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.timers {
		timer.Stop()
		delete(w.timers, path)
	}
}
