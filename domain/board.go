package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxBoardTitleLen = 50
	MaxBoardsPerUser = 10
)

// Board is a task container owned by exactly one user.
type Board struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks the title constraints shared by create and rename.
func (b *Board) Validate() error {
	if b == nil {
		return ErrInvalidPayload
	}
	if strings.TrimSpace(b.Title) == "" {
		return NewError(ErrCodeInvalid, "title cannot be blank")
	}
	if utf8.RuneCountInString(b.Title) > MaxBoardTitleLen {
		return NewError(ErrCodeInvalid, "title cannot be over 50 characters")
	}
	return nil
}

// TaskPositions holds the user-defined drag order of task ids in each column
// of a board. The array order is the only source of truth for "position" sort.
type TaskPositions struct {
	BoardID       int64   `json:"board_id"`
	TodoPos       []int64 `json:"todo_pos"`
	InProgressPos []int64 `json:"in_progress_pos"`
	DonePos       []int64 `json:"done_pos"`
}

// Column returns the ordered id array for one status.
func (p *TaskPositions) Column(status TaskStatus) []int64 {
	if p == nil {
		return nil
	}
	switch status {
	case StatusTodo:
		return p.TodoPos
	case StatusInProgress:
		return p.InProgressPos
	case StatusDone:
		return p.DonePos
	}
	return nil
}

// RemoveID prunes a task id from all three columns, reporting whether any
// array changed.
func (p *TaskPositions) RemoveID(id int64) bool {
	if p == nil {
		return false
	}
	changed := false
	p.TodoPos, changed = removeID(p.TodoPos, id, changed)
	p.InProgressPos, changed = removeID(p.InProgressPos, id, changed)
	p.DonePos, changed = removeID(p.DonePos, id, changed)
	return changed
}

func removeID(ids []int64, id int64, changed bool) ([]int64, bool) {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...), true
		}
	}
	return ids, changed
}
