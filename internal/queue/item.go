// Package queue schedules document processing across a bounded set of
// workers. Items carry a priority; higher priorities run first, equal
// priorities run in submission order. Recoverable failures are retried with
// exponential backoff before an item is marked failed.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/docsift/pdf-extract-server/internal/extract"
	perrors "github.com/docsift/pdf-extract-server/internal/extract/errors"
)

// Status is the lifecycle state of a queue item.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// IsValid reports whether the status is one of the known states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether an item in this state will not change again.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Priority levels. Higher values are scheduled first.
const (
	PriorityLow    = 0
	PriorityNormal = 10
	PriorityHigh   = 20
)

// Item is one document processing job tracked by the queue.
type Item struct {
	ID          string                    `json:"id"`
	Path        string                    `json:"path"`
	Config      extract.ProcessConfig     `json:"config,omitempty"`
	Priority    int                       `json:"priority"`
	Status      Status                    `json:"status"`
	Attempts    int                       `json:"attempts"`
	CreatedAt   time.Time                 `json:"created_at"`
	StartedAt   *time.Time                `json:"started_at,omitempty"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	Result      *extract.ProcessingResult `json:"result,omitempty"`
	Error       *perrors.ProcessingError  `json:"error,omitempty"`
}

func newItem(path string, priority int, config extract.ProcessConfig) *Item {
	return &Item{
		ID:        uuid.NewString(),
		Path:      path,
		Config:    config,
		Priority:  priority,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// clone returns a copy safe to hand out while workers mutate the original.
func (i *Item) clone() *Item {
	out := *i
	return &out
}
