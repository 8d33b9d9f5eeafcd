package repository

import (
	"context"

	"github.com/junaydb/kanban-board/domain"
)

type BoardRepository interface {
	FindByID(ctx context.Context, boardID int64) (*domain.Board, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Board, error)
	FindByTitle(ctx context.Context, userID, title string) (*domain.Board, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	Insert(ctx context.Context, board *domain.Board) (*domain.Board, error)
	Rename(ctx context.Context, boardID int64, title string) error

	// Delete removes the board, its tasks, and its positions row in a
	// single transaction.
	Delete(ctx context.Context, boardID int64) error

	// IsOwnedBy reports whether the board exists and belongs to the user.
	IsOwnedBy(ctx context.Context, boardID int64, userID string) (bool, error)
}
