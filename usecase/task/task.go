package task

import (
	"context"
	"errors"
	"slices"

	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/pagination"
	"github.com/junaydb/kanban-board/repository"
	"github.com/junaydb/kanban-board/usecase"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// UseCase assembles task pages and applies task mutations. Ownership of the
// board is verified by the transport layer before any method here runs.
type UseCase struct {
	tasks     repository.TaskRepository
	positions repository.PositionRepository
	buffer    usecase.OperationBuffer
	logger    *zap.Logger
}

func New(tasks repository.TaskRepository, positions repository.PositionRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:     tasks,
		positions: positions,
		buffer:    buffer,
		logger:    logger,
	}
}

// PageQuery carries one page request. Cursor is the raw continuation token
// from the previous page, empty on the first request.
type PageQuery struct {
	BoardID  int64
	Status   domain.TaskStatus
	SortBy   pagination.SortBy
	Order    pagination.SortOrder
	PageSize int
	Cursor   string
}

// Page is one bounded slice of a column. NextCursor is nil on the last page.
type Page struct {
	Tasks      []domain.Task
	NextCursor *string
}

// Grouped holds every task of a board bucketed by column.
type Grouped struct {
	Todo       []domain.Task `json:"TODO"`
	InProgress []domain.Task `json:"IN_PROGRESS"`
	Done       []domain.Task `json:"DONE"`
}

// GetPage returns the next page of a board column for the requested sort
// dimension. A page is the last page exactly when it holds fewer rows than
// requested; only then is the next cursor omitted.
func (uc *UseCase) GetPage(ctx context.Context, q PageQuery) (*Page, error) {
	strat, err := pagination.For(q.SortBy)
	if err != nil {
		return nil, err
	}

	pageSize := clampPageSize(q.PageSize)

	var cursor pagination.Cursor
	if q.Cursor != "" {
		if cursor, err = strat.Decode(q.Cursor); err != nil {
			return nil, err
		}
	}

	if q.SortBy == pagination.SortByPosition {
		return uc.positionPage(ctx, q, cursor, pageSize)
	}

	var tasks []domain.Task
	switch q.SortBy {
	case pagination.SortByCreated:
		page := repository.CreatedPage{BoardID: q.BoardID, Status: q.Status, Order: q.Order, PageSize: pageSize}
		if cursor != nil {
			c := cursor.(pagination.CreatedCursor)
			page.Cursor = &c
		}
		tasks, err = uc.tasks.ListByCreated(ctx, page)
	case pagination.SortByDueDate:
		page := repository.DueDatePage{BoardID: q.BoardID, Status: q.Status, Order: q.Order, PageSize: pageSize}
		if cursor != nil {
			c := cursor.(pagination.DueDateCursor)
			page.Cursor = &c
		}
		tasks, err = uc.tasks.ListByDueDate(ctx, page)
	}
	if err != nil {
		return nil, err
	}

	result := &Page{Tasks: tasks}
	if len(tasks) == pageSize {
		token := pagination.Encode(strat.Next(tasks[len(tasks)-1]))
		result.NextCursor = &token
	}
	return result, nil
}

func (uc *UseCase) positionPage(ctx context.Context, q PageQuery, cursor pagination.Cursor, pageSize int) (*Page, error) {
	positions, err := uc.positions.Get(ctx, q.BoardID)
	if err != nil {
		if errors.Is(err, domain.ErrPositionsNotFound) {
			// No drag order recorded yet: nothing to page through.
			return &Page{}, nil
		}
		return nil, err
	}

	start := 0
	if cursor != nil {
		start = cursor.(pagination.PositionCursor).Start
	}

	ids := pagination.SlicePage(positions.Column(q.Status), start, pageSize)
	fetched, err := uc.tasks.ListByIDs(ctx, q.BoardID, q.Status, ids)
	if err != nil {
		return nil, err
	}

	page := &Page{Tasks: pagination.OrderByPositions(ids, fetched)}
	if len(page.Tasks) == pageSize {
		token := pagination.Encode(pagination.PositionCursor{Start: start + pageSize})
		page.NextCursor = &token
	}
	return page, nil
}

// GetAllGrouped returns every task of the board bucketed by column, each
// column ordered by the requested dimension.
func (uc *UseCase) GetAllGrouped(ctx context.Context, boardID int64, sortBy pagination.SortBy, order pagination.SortOrder) (*Grouped, error) {
	strat, err := pagination.For(sortBy)
	if err != nil {
		return nil, err
	}

	tasks, err := uc.tasks.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}

	grouped := &Grouped{}
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusTodo:
			grouped.Todo = append(grouped.Todo, t)
		case domain.StatusInProgress:
			grouped.InProgress = append(grouped.InProgress, t)
		case domain.StatusDone:
			grouped.Done = append(grouped.Done, t)
		}
	}

	if sortBy == pagination.SortByPosition {
		positions, err := uc.positions.Get(ctx, boardID)
		if err != nil {
			if errors.Is(err, domain.ErrPositionsNotFound) {
				// Keep the store's createdAt-desc order until a
				// first drag records one.
				return grouped, nil
			}
			return nil, err
		}
		grouped.Todo = orderColumn(positions.TodoPos, grouped.Todo)
		grouped.InProgress = orderColumn(positions.InProgressPos, grouped.InProgress)
		grouped.Done = orderColumn(positions.DonePos, grouped.Done)
		return grouped, nil
	}

	compare := strat.Compare(order)
	slices.SortFunc(grouped.Todo, compare)
	slices.SortFunc(grouped.InProgress, compare)
	slices.SortFunc(grouped.Done, compare)
	return grouped, nil
}

// orderColumn applies the drag order, then appends tasks the array does not
// know about yet, preserving their createdAt-desc store order.
func orderColumn(ids []int64, tasks []domain.Task) []domain.Task {
	ordered := pagination.OrderByPositions(ids, tasks)
	seen := make(map[int64]struct{}, len(ordered))
	for _, t := range ordered {
		seen[t.ID] = struct{}{}
	}
	for _, t := range tasks {
		if _, ok := seen[t.ID]; !ok {
			ordered = append(ordered, t)
		}
	}
	return ordered
}

func (uc *UseCase) GetTask(ctx context.Context, boardID, taskID int64) (*domain.Task, error) {
	return uc.tasks.FindByID(ctx, boardID, taskID)
}

func (uc *UseCase) Count(ctx context.Context, boardID int64, status *domain.TaskStatus) (int64, error) {
	return uc.tasks.CountByBoard(ctx, boardID, status)
}

func (uc *UseCase) Search(ctx context.Context, boardID int64, query string) ([]domain.Task, error) {
	if query == "" {
		return nil, nil
	}
	return uc.tasks.SearchByTitlePrefix(ctx, boardID, query)
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task != nil && task.Status == "" {
		task.Status = domain.StatusTodo
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.tasks.Insert(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, usecase.OperationCreate, task, err) {
			return task, nil
		}
		return nil, err
	}
	return created, nil
}

func (uc *UseCase) UpdateStatus(ctx context.Context, boardID, taskID int64, status domain.TaskStatus) (domain.TaskStatus, error) {
	updated, err := uc.tasks.UpdateStatus(ctx, boardID, taskID, status)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return "", err
		}
		task := &domain.Task{ID: taskID, BoardID: boardID, Status: status}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task, err) {
			return status, nil
		}
		return "", err
	}
	return updated, nil
}

// DeleteTask removes the task and prunes its id from the board's position
// arrays. The prune is a separate write; if it fails the stale id is
// tolerated by the position read path.
func (uc *UseCase) DeleteTask(ctx context.Context, boardID, taskID int64) (*domain.Task, error) {
	deleted, err := uc.tasks.Delete(ctx, boardID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		task := &domain.Task{ID: taskID, BoardID: boardID}
		if uc.shouldBuffer(ctx, usecase.OperationDelete, task, err) {
			return task, nil
		}
		return nil, err
	}

	if err := uc.positions.RemoveID(ctx, boardID, taskID); err != nil {
		uc.logger.Warn("failed to prune deleted task from position arrays",
			zap.Int64("board_id", boardID),
			zap.Int64("task_id", taskID),
			zap.Error(err))
	}
	return deleted, nil
}

// UpdatePositions replaces the board's drag order wholesale. Concurrent
// updates to the same board are last-write-wins.
func (uc *UseCase) UpdatePositions(ctx context.Context, positions *domain.TaskPositions) error {
	if positions == nil || positions.BoardID == 0 {
		return domain.ErrInvalidPayload
	}

	if err := uc.positions.Replace(ctx, positions); err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferPositions(ctx, positions); bufErr != nil {
				uc.logger.Error("failed to buffer position update", zap.Error(bufErr))
				return err
			}
			uc.logger.Warn("position update buffered", zap.Int64("board_id", positions.BoardID), zap.Error(err))
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task, cause error) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation), zap.Error(cause))
	return true
}

func clampPageSize(size int) int {
	if size <= 0 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}
