package domain

import (
	"errors"
	"sync"
	"time"
)

// ErrNotPending is returned when starting a task that already left Pending.
// Transitions are one-way; a task id is never re-run.
var ErrNotPending = errors.New("task is not pending")

// TaskError records one per-file failure during apply
type TaskError struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchTask tracks one bulk edit operation from preview through completion.
// The operation parameters and the preview set are fixed at creation; the
// counters and error list are mutated only through the synchronized methods
// below, never by direct assignment, since workers share the task.
type BatchTask struct {
	ID           string
	Directory    string
	Field        string
	Value        string
	Mode         Mode
	CreatedAt    time.Time
	TotalFiles   int
	PreviewFiles []PreviewRecord

	mu        sync.Mutex
	status    TaskStatus
	processed int
	success   int
	failed    int
	errs      []TaskError
	stale     bool
	failMsg   string
}

// NewBatchTask creates a Pending task over the given preview set
func NewBatchTask(id, directory, field, value string, mode Mode, previews []PreviewRecord) *BatchTask {
	return &BatchTask{
		ID:           id,
		Directory:    directory,
		Field:        field,
		Value:        value,
		Mode:         mode,
		CreatedAt:    time.Now(),
		TotalFiles:   len(previews),
		PreviewFiles: previews,
		status:       StatusPending,
	}
}

// Start transitions Pending -> Running
func (t *BatchTask) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status != StatusPending {
		return ErrNotPending
	}
	t.status = StatusRunning
	return nil
}

// Complete transitions to the Completed terminal state. Per-file failures
// are reflected in the counters, never in the status.
func (t *BatchTask) Complete() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.status.Terminal() {
		t.status = StatusCompleted
	}
}

// Fail transitions to the Failed terminal state. Reserved for systemic
// failures that prevent any per-file work from starting.
func (t *BatchTask) Fail(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.status.Terminal() {
		t.status = StatusFailed
		t.failMsg = msg
	}
}

// IncrementSuccess counts one successfully written file. The processed
// counter moves in the same critical section, so success+failed==processed
// holds at every instant, not just at the terminal state.
func (t *BatchTask) IncrementSuccess() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.success++
	t.processed++
}

// IncrementFailed counts one failed file and appends its error
func (t *BatchTask) IncrementFailed(msg, filename string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failed++
	t.processed++
	t.errs = append(t.errs, TaskError{Filename: filename, Message: msg})
}

// MarkStale flags a pending task whose directory changed since preview
func (t *BatchTask) MarkStale() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status == StatusPending {
		t.stale = true
	}
}

// Status returns the current lifecycle state
func (t *BatchTask) Status() TaskStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Progress returns completion as a percentage. An empty preview set is
// 100% done by definition.
func (t *BatchTask) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progressLocked()
}

func (t *BatchTask) progressLocked() float64 {
	if t.TotalFiles == 0 {
		return 100
	}
	return float64(t.processed) / float64(t.TotalFiles) * 100
}

// TaskSnapshot is a consistent point-in-time copy of a task's mutable state
type TaskSnapshot struct {
	ID         string
	Directory  string
	Field      string
	Value      string
	Mode       Mode
	CreatedAt  time.Time
	Status     TaskStatus
	Progress   float64
	Processed  int
	TotalFiles int
	Success    int
	Failed     int
	Errors     []TaskError
	Stale      bool
	FailReason string
}

// Snapshot copies all mutable state under one lock acquisition
func (t *BatchTask) Snapshot() TaskSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	errs := make([]TaskError, len(t.errs))
	copy(errs, t.errs)
	return TaskSnapshot{
		ID:         t.ID,
		Directory:  t.Directory,
		Field:      t.Field,
		Value:      t.Value,
		Mode:       t.Mode,
		CreatedAt:  t.CreatedAt,
		Status:     t.status,
		Progress:   t.progressLocked(),
		Processed:  t.processed,
		TotalFiles: t.TotalFiles,
		Success:    t.success,
		Failed:     t.failed,
		Errors:     errs,
		Stale:      t.stale,
		FailReason: t.failMsg,
	}
}
