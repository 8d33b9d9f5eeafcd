package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/pagination"
	"github.com/junaydb/kanban-board/repository"
)

const taskColumns = `id, board_id, title, COALESCE(description, ''), status, due_date, due_time, created_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) FindByID(ctx context.Context, boardID, taskID int64) (*domain.Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE board_id = $1 AND id = $2`, taskColumns)
	row := r.pool.QueryRow(ctx, query, boardID, taskID)
	return scanTask(row)
}

func (r *taskRepository) ListByCreated(ctx context.Context, page repository.CreatedPage) ([]domain.Task, error) {
	op, dir := "> ", "ASC"
	if page.Order == pagination.OrderDesc {
		op, dir = "< ", "DESC"
	}

	var (
		query string
		args  []any
	)
	if page.Cursor == nil {
		query = fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE board_id = $1 AND status = $2
		ORDER BY created_at %s, id %s
		LIMIT $3
		`, taskColumns, dir, dir)
		args = []any{page.BoardID, string(page.Status), clampLimit(page.PageSize)}
	} else {
		query = fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE board_id = $1 AND status = $2
		  AND (created_at %s $3 OR (created_at = $3 AND id %s $4))
		ORDER BY created_at %s, id %s
		LIMIT $5
		`, taskColumns, op, op, dir, dir)
		args = []any{page.BoardID, string(page.Status), page.Cursor.PrevCreatedAt, page.Cursor.PrevID, clampLimit(page.PageSize)}
	}

	return r.listTasks(ctx, query, args...)
}

func (r *taskRepository) ListByDueDate(ctx context.Context, page repository.DueDatePage) ([]domain.Task, error) {
	// Tasks without a due date always sort after every dated task, with
	// ties among them broken by ascending id, in both directions.
	orderClause := `ORDER BY (due_date IS NULL), due_date ASC, id ASC`
	op := "> "
	if page.Order == pagination.OrderDesc {
		orderClause = `ORDER BY (due_date IS NULL), due_date DESC, CASE WHEN due_date IS NULL THEN id END ASC, id DESC`
		op = "< "
	}

	var (
		query string
		args  []any
	)
	switch {
	case page.Cursor == nil:
		query = fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE board_id = $1 AND status = $2
		%s
		LIMIT $3
		`, taskColumns, orderClause)
		args = []any{page.BoardID, string(page.Status), clampLimit(page.PageSize)}
	case page.Cursor.PrevDueDate == nil:
		// Already inside the trailing null-due-date block: only larger
		// ids of that block remain.
		query = fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE board_id = $1 AND status = $2
		  AND due_date IS NULL AND id > $3
		%s
		LIMIT $4
		`, taskColumns, orderClause)
		args = []any{page.BoardID, string(page.Status), page.Cursor.PrevID, clampLimit(page.PageSize)}
	default:
		// Null-due-date rows stay reachable from any dated cursor since
		// they sort after every dated row.
		query = fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE board_id = $1 AND status = $2
		  AND (due_date %s $3 OR (due_date = $3 AND id %s $4) OR due_date IS NULL)
		%s
		LIMIT $5
		`, taskColumns, op, op, orderClause)
		args = []any{page.BoardID, string(page.Status), *page.Cursor.PrevDueDate, page.Cursor.PrevID, clampLimit(page.PageSize)}
	}

	return r.listTasks(ctx, query, args...)
}

func (r *taskRepository) ListByIDs(ctx context.Context, boardID int64, status domain.TaskStatus, ids []int64) ([]domain.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	// The status filter is deliberate: a position array can briefly hold
	// ids whose task moved to another column.
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	WHERE board_id = $1 AND status = $2 AND id = ANY($3)
	`, taskColumns)
	return r.listTasks(ctx, query, boardID, string(status), ids)
}

func (r *taskRepository) ListByBoard(ctx context.Context, boardID int64) ([]domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	WHERE board_id = $1
	ORDER BY created_at DESC, id DESC
	`, taskColumns)
	return r.listTasks(ctx, query, boardID)
}

func (r *taskRepository) CountByBoard(ctx context.Context, boardID int64, status *domain.TaskStatus) (int64, error) {
	const query = `
	SELECT COUNT(*)
	FROM tasks
	WHERE board_id = $1
	  AND ($2 = '' OR status::text = $2)
	`
	filter := ""
	if status != nil {
		filter = string(*status)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, boardID, filter).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepository) SearchByTitlePrefix(ctx context.Context, boardID int64, prefix string) ([]domain.Task, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM tasks
	WHERE board_id = $1 AND title ILIKE $2
	ORDER BY created_at DESC, id DESC
	`, taskColumns)
	return r.listTasks(ctx, query, boardID, escapeLike(prefix)+"%")
}

func (r *taskRepository) Insert(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO tasks (board_id, title, description, status, due_date, due_time)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.BoardID,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		task.DueDate,
		task.DueTime,
	).Scan(&task.ID, &task.CreatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) UpdateStatus(ctx context.Context, boardID, taskID int64, status domain.TaskStatus) (domain.TaskStatus, error) {
	const query = `
	UPDATE tasks
	SET status = $3
	WHERE board_id = $1 AND id = $2
	RETURNING status
	`

	var updated string
	if err := r.pool.QueryRow(ctx, query, boardID, taskID, string(status)).Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrTaskNotFound
		}
		return "", err
	}
	return domain.TaskStatus(updated), nil
}

func (r *taskRepository) Delete(ctx context.Context, boardID, taskID int64) (*domain.Task, error) {
	query := fmt.Sprintf(`
	DELETE FROM tasks
	WHERE board_id = $1 AND id = $2
	RETURNING %s
	`, taskColumns)
	row := r.pool.QueryRow(ctx, query, boardID, taskID)
	return scanTask(row)
}

func (r *taskRepository) listTasks(ctx context.Context, query string, args ...any) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		status  string
		due     *time.Time
		dueTime *time.Time
	)

	if err := row.Scan(
		&task.ID,
		&task.BoardID,
		&task.Title,
		&task.Description,
		&status,
		&due,
		&dueTime,
		&task.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.DueDate = due
	task.DueTime = dueTime

	return &task, nil
}
