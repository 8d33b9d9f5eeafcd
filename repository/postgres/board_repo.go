package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/repository"
)

const boardColumns = `id, user_id, title, created_at`

// uniqueViolation is the Postgres error code raised by the per-user unique
// title index on boards.
const uniqueViolation = "23505"

type boardRepository struct {
	pool *pgxpool.Pool
}

// NewBoardRepository returns a Postgres-backed implementation of BoardRepository.
func NewBoardRepository(pool *pgxpool.Pool) repository.BoardRepository {
	return &boardRepository{pool: pool}
}

func (r *boardRepository) FindByID(ctx context.Context, boardID int64) (*domain.Board, error) {
	const query = `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`
	return scanBoard(r.pool.QueryRow(ctx, query, boardID))
}

func (r *boardRepository) ListByUser(ctx context.Context, userID string) ([]domain.Board, error) {
	const query = `
	SELECT ` + boardColumns + `
	FROM boards
	WHERE user_id = $1
	ORDER BY created_at ASC, id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var boards []domain.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, *board)
	}
	return boards, rows.Err()
}

func (r *boardRepository) FindByTitle(ctx context.Context, userID, title string) (*domain.Board, error) {
	const query = `SELECT ` + boardColumns + ` FROM boards WHERE user_id = $1 AND title = $2`
	return scanBoard(r.pool.QueryRow(ctx, query, userID, title))
}

func (r *boardRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM boards WHERE user_id = $1`
	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *boardRepository) Insert(ctx context.Context, board *domain.Board) (*domain.Board, error) {
	if board == nil {
		return nil, domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO boards (user_id, title)
	VALUES ($1, $2)
	RETURNING id, created_at
	`
	if err := r.pool.QueryRow(ctx, query, board.UserID, board.Title).Scan(&board.ID, &board.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateTitle
		}
		return nil, err
	}
	return board, nil
}

func (r *boardRepository) Rename(ctx context.Context, boardID int64, title string) error {
	const query = `UPDATE boards SET title = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, boardID, title)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTitle
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

func (r *boardRepository) Delete(ctx context.Context, boardID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM tasks WHERE board_id = $1`, boardID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM task_positions WHERE board_id = $1`, boardID); err != nil {
		return err
	}
	tag, err := tx.Exec(ctx, `DELETE FROM boards WHERE id = $1`, boardID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBoardNotFound
	}

	return tx.Commit(ctx)
}

func (r *boardRepository) IsOwnedBy(ctx context.Context, boardID int64, userID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM boards WHERE id = $1 AND user_id = $2)`
	var owned bool
	if err := r.pool.QueryRow(ctx, query, boardID, userID).Scan(&owned); err != nil {
		return false, err
	}
	return owned, nil
}

func scanBoard(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Board, error) {
	var board domain.Board
	if err := row.Scan(&board.ID, &board.UserID, &board.Title, &board.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, err
	}
	return &board, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
