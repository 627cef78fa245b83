package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/docsift/pdf-extract-server/internal/extract"
	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
)

// fakeProcessor scripts per-path outcomes. failures sets how many leading
// attempts fail before success; code selects the failure kind.
type fakeProcessor struct {
	mu       sync.Mutex
	failures int
	code     perrors.Code
	attempts int
	block    chan struct{}
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, req extract.ProcessFileRequest) (*extract.ProcessingResult, error) {
	f.mu.Lock()
	f.attempts++
	attempt := f.attempts
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if attempt <= f.failures {
		return &extract.ProcessingResult{
			FilePath: req.Path,
			Error:    perrors.New(f.code, "scripted failure"),
		}, nil
	}
	return &extract.ProcessingResult{Success: true, FilePath: req.Path}, nil
}

func testConfig() Config {
	return Config{
		MaxConcurrent: 1,
		MaxQueued:     10,
		JobTimeout:    time.Second,
	}
}

// waitTerminal polls until the item reaches a terminal state.
func waitTerminal(t *testing.T, q *Queue, id string) *Item {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		item, err := q.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if item.Status.IsTerminal() {
			return item
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("item did not reach a terminal state")
	return nil
}

func TestSubmitAndStatus(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())

	item, err := q.Submit("a.pdf", PriorityNormal, extract.ProcessConfig{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if item.ID == "" || item.Status != StatusPending {
		t.Errorf("unexpected item: %+v", item)
	}
	if item.CreatedAt.IsZero() {
		t.Error("created timestamp should be set")
	}

	status := q.Status()
	if status.Pending != 1 || status.CurrentProcessing != 0 || status.MaxConcurrent != 1 {
		t.Errorf("unexpected status: %+v", status)
	}
}

func TestSubmitBacklogFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueued = 2
	q := New(&fakeProcessor{}, cfg)

	for i := 0; i < 2; i++ {
		if _, err := q.Submit("a.pdf", PriorityNormal, extract.ProcessConfig{}); err != nil {
			t.Fatalf("Submit %d failed: %v", i, err)
		}
	}
	if _, err := q.Submit("a.pdf", PriorityNormal, extract.ProcessConfig{}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("error = %v, want ErrQueueFull", err)
	}
}

func TestSubmitEmptyPath(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())
	if _, err := q.Submit("", PriorityNormal, extract.ProcessConfig{}); err == nil {
		t.Error("empty path should be rejected")
	}
}

func TestPriorityOrder(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())

	low, _ := q.Submit("low.pdf", PriorityLow, extract.ProcessConfig{})
	high, _ := q.Submit("high.pdf", PriorityHigh, extract.ProcessConfig{})
	normal, _ := q.Submit("normal.pdf", PriorityNormal, extract.ProcessConfig{})

	ctx := context.Background()
	for _, want := range []string{high.ID, normal.ID, low.ID} {
		item := q.next(ctx)
		if item == nil || item.ID != want {
			t.Fatalf("pop order wrong: got %v, want id %s", item, want)
		}
	}
}

func TestFIFOWithinPriority(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())

	first, _ := q.Submit("first.pdf", PriorityNormal, extract.ProcessConfig{})
	second, _ := q.Submit("second.pdf", PriorityNormal, extract.ProcessConfig{})

	ctx := context.Background()
	if item := q.next(ctx); item.ID != first.ID {
		t.Errorf("first pop = %s, want %s", item.ID, first.ID)
	}
	if item := q.next(ctx); item.ID != second.ID {
		t.Errorf("second pop = %s, want %s", item.ID, second.ID)
	}
}

func TestProcessCompletes(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	item, err := q.Submit("doc.pdf", PriorityNormal, extract.ProcessConfig{})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	done := waitTerminal(t, q, item.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s (error: %v)", done.Status, StatusCompleted, done.Error)
	}
	if done.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", done.Attempts)
	}
	if done.StartedAt == nil || done.CompletedAt == nil {
		t.Error("timestamps should be set on completion")
	}
	if done.Result == nil || !done.Result.Success {
		t.Error("result should be attached")
	}
}

func TestProcessRetriesRecoverable(t *testing.T) {
	proc := &fakeProcessor{failures: 2, code: perrors.CodeFileReadError}
	q := New(proc, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	item, _ := q.Submit("flaky.pdf", PriorityNormal, extract.ProcessConfig{})
	done := waitTerminal(t, q, item.ID)

	if done.Status != StatusCompleted {
		t.Fatalf("status = %s, want %s", done.Status, StatusCompleted)
	}
	if done.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", done.Attempts)
	}
}

func TestProcessFailsFastOnUnrecoverable(t *testing.T) {
	proc := &fakeProcessor{failures: maxAttempts, code: perrors.CodeEncryptedPDF}
	q := New(proc, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)

	item, _ := q.Submit("locked.pdf", PriorityNormal, extract.ProcessConfig{})
	done := waitTerminal(t, q, item.ID)

	if done.Status != StatusFailed {
		t.Fatalf("status = %s, want %s", done.Status, StatusFailed)
	}
	if done.Attempts != 1 {
		t.Errorf("unrecoverable failure should not retry, attempts = %d", done.Attempts)
	}
	if done.Error == nil || done.Error.Code != perrors.CodeEncryptedPDF {
		t.Errorf("error = %v, want code %s", done.Error, perrors.CodeEncryptedPDF)
	}
}

func TestCancelPending(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())

	item, _ := q.Submit("doc.pdf", PriorityNormal, extract.ProcessConfig{})
	if err := q.Cancel(item.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	got, _ := q.Get(item.ID)
	if got.Status != StatusFailed {
		t.Errorf("status = %s, want %s", got.Status, StatusFailed)
	}
	if q.Status().Pending != 0 {
		t.Error("cancelled item should leave the backlog")
	}

	if err := q.Cancel(item.ID); !errors.Is(err, ErrNotPending) {
		t.Errorf("second cancel = %v, want ErrNotPending", err)
	}
	if err := q.Cancel("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	q := New(&fakeProcessor{}, testConfig())

	a, _ := q.Submit("a.pdf", PriorityNormal, extract.ProcessConfig{})
	time.Sleep(2 * time.Millisecond)
	b, _ := q.Submit("b.pdf", PriorityNormal, extract.ProcessConfig{})

	items := q.List()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Errorf("list should be newest first, got [%s %s]", items[0].Path, items[1].Path)
	}
}
