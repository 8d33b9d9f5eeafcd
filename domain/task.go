package domain

import (
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"
)

// TaskStatus is the kanban column a task belongs to.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// Statuses lists every valid status in column order.
var Statuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (TaskStatus, error) {
	switch TaskStatus(raw) {
	case StatusTodo, StatusInProgress, StatusDone:
		return TaskStatus(raw), nil
	}
	return "", NewError(ErrCodeInvalid, "invalid task status: "+raw)
}

const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 10000
)

// Task represents a unit of work on a board.
type Task struct {
	ID          int64      `json:"id"`
	BoardID     int64      `json:"board_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	DueTime     *time.Time `json:"due_time,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// HasDueTime reports whether a specific time of day was set rather than the
// end-of-day default.
func (t *Task) HasDueTime() bool {
	return t != nil && t.DueTime != nil
}

// MarshalJSON adds the computed has_due_time flag so clients can tell a
// chosen time of day apart from the end-of-day default.
func (t Task) MarshalJSON() ([]byte, error) {
	type alias Task
	return json.Marshal(struct {
		alias
		HasDueTime bool `json:"has_due_time"`
	}{alias(t), t.HasDueTime()})
}

// Validate checks the create-time constraints on a task payload.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewError(ErrCodeInvalid, "title cannot be blank")
	}
	if utf8.RuneCountInString(t.Title) > MaxTitleLen {
		return NewError(ErrCodeInvalid, "title cannot be over 100 characters")
	}
	if utf8.RuneCountInString(t.Description) > MaxDescriptionLen {
		return NewError(ErrCodeInvalid, "description cannot be over 10000 characters")
	}
	if _, err := ParseStatus(string(t.Status)); err != nil {
		return err
	}
	if t.DueTime != nil && t.DueDate == nil {
		return NewError(ErrCodeInvalid, "dueTime can only be set when dueDate is also provided")
	}
	return nil
}
