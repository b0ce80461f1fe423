package batch

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced synchronously to callers. Per-file failures
// during apply never appear here; they land in the task's error list.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrDirectoryNotFound = errors.New("directory not found")
	ErrUnknownField      = errors.New("unknown field")
	ErrInvalidMode       = errors.New("invalid mode for field")

	// ErrResourceLimit is the common marker for fail-fast limit errors;
	// match with errors.Is.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrTaskConflict rejects a preview whose directory overlaps a
	// running task's directory.
	ErrTaskConflict = errors.New("directory overlaps a running batch task")
)

// DepthError reports a scan that exceeded the recursion limit
type DepthError struct {
	Max int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("maximum scan depth (%d) exceeded", e.Max)
}

func (e *DepthError) Is(target error) bool { return target == ErrResourceLimit }

// TooManyFilesError reports a scan result over the per-batch ceiling
type TooManyFilesError struct {
	Count int
	Max   int
}

func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("too many files (%d), maximum allowed: %d", e.Count, e.Max)
}

func (e *TooManyFilesError) Is(target error) bool { return target == ErrResourceLimit }
