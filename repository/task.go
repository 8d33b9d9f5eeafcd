package repository

import (
	"context"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/pagination"
)

// CreatedPage bounds one page of a (createdAt, id) ordered listing.
type CreatedPage struct {
	BoardID  int64
	Status   domain.TaskStatus
	Order    pagination.SortOrder
	PageSize int
	Cursor   *pagination.CreatedCursor
}

// DueDatePage bounds one page of a (dueDate, id) ordered listing. Tasks
// without a due date sort last regardless of direction.
type DueDatePage struct {
	BoardID  int64
	Status   domain.TaskStatus
	Order    pagination.SortOrder
	PageSize int
	Cursor   *pagination.DueDateCursor
}

// TaskRepository exposes bounded, board-scoped reads and writes over
// persisted tasks. Every multi-row read is scoped by board so no public
// operation can leak rows across boards.
type TaskRepository interface {
	FindByID(ctx context.Context, boardID, taskID int64) (*domain.Task, error)
	ListByCreated(ctx context.Context, page CreatedPage) ([]domain.Task, error)
	ListByDueDate(ctx context.Context, page DueDatePage) ([]domain.Task, error)
	ListByIDs(ctx context.Context, boardID int64, status domain.TaskStatus, ids []int64) ([]domain.Task, error)
	ListByBoard(ctx context.Context, boardID int64) ([]domain.Task, error)
	CountByBoard(ctx context.Context, boardID int64, status *domain.TaskStatus) (int64, error)
	SearchByTitlePrefix(ctx context.Context, boardID int64, prefix string) ([]domain.Task, error)
	Insert(ctx context.Context, task *domain.Task) (*domain.Task, error)
	UpdateStatus(ctx context.Context, boardID, taskID int64, status domain.TaskStatus) (domain.TaskStatus, error)
	Delete(ctx context.Context, boardID, taskID int64) (*domain.Task, error)
}
