package domain

import "fmt"

// TaskStatus represents the lifecycle state of a batch task
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// Terminal returns true if no further transitions occur from this status
func (s TaskStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Mode represents how a new value is combined with a field's current value
type Mode string

const (
	ModeOverwrite Mode = "overwrite"
	ModeAppend    Mode = "append"
)

// ParseMode validates a mode string
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeOverwrite, ModeAppend:
		return Mode(s), nil
	}
	return "", fmt.Errorf("invalid mode %q (expected overwrite or append)", s)
}
