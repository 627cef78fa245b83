package queue

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/docsift/pdf-extract-server/internal/extract"
	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
)

// ErrQueueFull is returned by Submit when the pending backlog is at capacity.
var ErrQueueFull = errors.New("queue backlog is full")

// ErrNotFound is returned when an item id is unknown.
var ErrNotFound = errors.New("queue item not found")

// ErrNotPending is returned by Cancel for items that already started.
var ErrNotPending = errors.New("queue item is not pending")

// maxAttempts bounds the retries for recoverably failing items.
const maxAttempts = 3

// Processor runs the extraction pipeline for one file. *extract.Service
// satisfies it.
type Processor interface {
	ProcessFile(ctx context.Context, req extract.ProcessFileRequest) (*extract.ProcessingResult, error)
}

// Config holds queue construction parameters.
type Config struct {
	// MaxConcurrent is the number of worker goroutines. Defaults to 2.
	MaxConcurrent int
	// MaxQueued bounds the pending backlog. Defaults to 100.
	MaxQueued int
	// JobTimeout bounds one processing attempt. Defaults to 5 minutes.
	JobTimeout time.Duration
	Logger     *slog.Logger
}

// Queue dispatches submitted documents to a fixed set of workers.
type Queue struct {
	processor     Processor
	logger        *slog.Logger
	maxConcurrent int
	maxQueued     int
	jobTimeout    time.Duration

	mu         sync.Mutex
	items      map[string]*Item
	pending    itemHeap
	seq        uint64
	processing int
	notify     chan struct{}

	wg sync.WaitGroup
}

// New creates a queue. Start must be called before submitted items run.
func New(processor Processor, cfg Config) *Queue {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.MaxQueued <= 0 {
		cfg.MaxQueued = 100
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 5 * time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Queue{
		processor:     processor,
		logger:        logger.With("component", "queue"),
		maxConcurrent: cfg.MaxConcurrent,
		maxQueued:     cfg.MaxQueued,
		jobTimeout:    cfg.JobTimeout,
		items:         make(map[string]*Item),
		notify:        make(chan struct{}, 1),
	}
}

// Start launches the workers. They exit when ctx is cancelled; Wait blocks
// until they do.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.maxConcurrent; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
	q.logger.Info("queue started",
		"workers", q.maxConcurrent, "backlog", q.maxQueued, "timeout", q.jobTimeout)
}

// Wait blocks until all workers have exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Submit enqueues a document for processing. It fails with ErrQueueFull when
// the pending backlog is at capacity.
func (q *Queue) Submit(path string, priority int, config extract.ProcessConfig) (*Item, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	q.mu.Lock()
	if q.pending.Len() >= q.maxQueued {
		q.mu.Unlock()
		return nil, ErrQueueFull
	}

	item := newItem(path, priority, config)
	q.items[item.ID] = item
	q.seq++
	heap.Push(&q.pending, &itemEntry{item: item, seq: q.seq})
	snapshot := item.clone()
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}

	q.logger.Info("item submitted", "id", item.ID, "path", path, "priority", priority)
	return snapshot, nil
}

// Cancel removes a pending item. Items already processing or finished cannot
// be cancelled.
func (q *Queue) Cancel(id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items[id]
	if !ok {
		return ErrNotFound
	}
	if item.Status != StatusPending {
		return ErrNotPending
	}

	q.pending.remove(id)
	heap.Init(&q.pending)

	now := time.Now().UTC()
	item.Status = StatusFailed
	item.CompletedAt = &now
	item.Error = perrors.New(perrors.CodeValidation, "cancelled before processing")

	q.logger.Info("item cancelled", "id", id)
	return nil
}

// Get returns a snapshot of one item.
func (q *Queue) Get(id string) (*Item, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	item, ok := q.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return item.clone(), nil
}

// List returns snapshots of all known items, newest first.
func (q *Queue) List() []*Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*Item, 0, len(q.items))
	for _, item := range q.items {
		out = append(out, item.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// QueueStatus is a point-in-time summary of the queue.
type QueueStatus struct {
	MaxConcurrent     int `json:"max_concurrent"`
	CurrentProcessing int `json:"current_processing"`
	Pending           int `json:"pending"`
	Completed         int `json:"completed"`
	Failed            int `json:"failed"`
}

// Status reports the current queue state.
func (q *Queue) Status() QueueStatus {
	q.mu.Lock()
	defer q.mu.Unlock()

	status := QueueStatus{
		MaxConcurrent:     q.maxConcurrent,
		CurrentProcessing: q.processing,
		Pending:           q.pending.Len(),
	}
	for _, item := range q.items {
		switch item.Status {
		case StatusCompleted:
			status.Completed++
		case StatusFailed:
			status.Failed++
		}
	}
	return status
}

// worker pops pending items and processes them until ctx is cancelled.
func (q *Queue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	logger := q.logger.With("worker", id)

	for {
		item := q.next(ctx)
		if item == nil {
			return
		}

		logger.Info("processing item", "id", item.ID, "path", item.Path)
		q.process(ctx, item)
	}
}

// next blocks until a pending item is available or ctx is cancelled.
func (q *Queue) next(ctx context.Context) *Item {
	for {
		q.mu.Lock()
		if q.pending.Len() > 0 {
			entry := heap.Pop(&q.pending).(*itemEntry)
			item := entry.item
			now := time.Now().UTC()
			item.Status = StatusProcessing
			item.StartedAt = &now
			q.processing++
			q.mu.Unlock()
			return item
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil
		case <-q.notify:
		}
	}
}

// process runs one item with retries. Only recoverable errors are retried;
// an invalid or encrypted document fails immediately.
func (q *Queue) process(ctx context.Context, item *Item) {
	var result *extract.ProcessingResult

	err := retry.Do(
		func() error {
			q.mu.Lock()
			item.Attempts++
			q.mu.Unlock()

			attemptCtx, cancel := context.WithTimeout(ctx, q.jobTimeout)
			defer cancel()

			r, err := q.processor.ProcessFile(attemptCtx,
				extract.ProcessFileRequest{Path: item.Path, Config: item.Config})
			if err != nil {
				return err
			}
			result = r
			if r.Error != nil {
				return r.Error
			}
			return nil
		},
		retry.Attempts(maxAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.RetryIf(func(err error) bool {
			var perr *perrors.ProcessingError
			if errors.As(err, &perr) {
				return perr.Recoverable
			}
			return true
		}),
	)

	now := time.Now().UTC()
	q.mu.Lock()
	defer q.mu.Unlock()
	q.processing--
	item.CompletedAt = &now
	item.Result = result

	if err != nil {
		item.Status = StatusFailed
		item.Error = perrors.Classify(err).WithFile(item.Path)
		q.logger.Warn("item failed",
			"id", item.ID, "attempts", item.Attempts, "error", err)
		return
	}

	item.Status = StatusCompleted
	q.logger.Info("item completed", "id", item.ID, "attempts", item.Attempts)
}
