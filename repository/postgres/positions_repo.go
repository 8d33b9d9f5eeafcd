package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/repository"
)

type positionRepository struct {
	pool *pgxpool.Pool
}

// NewPositionRepository returns a Postgres-backed implementation of PositionRepository.
func NewPositionRepository(pool *pgxpool.Pool) repository.PositionRepository {
	return &positionRepository{pool: pool}
}

func (r *positionRepository) Get(ctx context.Context, boardID int64) (*domain.TaskPositions, error) {
	const query = `
	SELECT board_id, todo_pos, in_progress_pos, done_pos
	FROM task_positions
	WHERE board_id = $1
	`
	var positions domain.TaskPositions
	if err := r.pool.QueryRow(ctx, query, boardID).Scan(
		&positions.BoardID,
		&positions.TodoPos,
		&positions.InProgressPos,
		&positions.DonePos,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPositionsNotFound
		}
		return nil, err
	}
	return &positions, nil
}

func (r *positionRepository) Replace(ctx context.Context, positions *domain.TaskPositions) error {
	if positions == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO task_positions (board_id, todo_pos, in_progress_pos, done_pos)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (board_id) DO UPDATE
	SET todo_pos = EXCLUDED.todo_pos,
		in_progress_pos = EXCLUDED.in_progress_pos,
		done_pos = EXCLUDED.done_pos
	`
	_, err := r.pool.Exec(ctx, query,
		positions.BoardID,
		emptyIfNil(positions.TodoPos),
		emptyIfNil(positions.InProgressPos),
		emptyIfNil(positions.DonePos),
	)
	return err
}

func (r *positionRepository) RemoveID(ctx context.Context, boardID, taskID int64) error {
	const query = `
	UPDATE task_positions
	SET todo_pos = array_remove(todo_pos, $2),
		in_progress_pos = array_remove(in_progress_pos, $2),
		done_pos = array_remove(done_pos, $2)
	WHERE board_id = $1
	`
	_, err := r.pool.Exec(ctx, query, boardID, taskID)
	return err
}

func emptyIfNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
