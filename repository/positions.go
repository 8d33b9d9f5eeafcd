package repository

import (
	"context"

	"github.com/junaydb/kanban-board/domain"
)

// PositionRepository persists the per-board drag-order arrays. A board has at
// most one row, created lazily on the first Replace.
type PositionRepository interface {
	Get(ctx context.Context, boardID int64) (*domain.TaskPositions, error)

	// Replace upserts all three arrays wholesale. Last write wins; there
	// is no reconciliation of partial updates.
	Replace(ctx context.Context, positions *domain.TaskPositions) error

	// RemoveID prunes a task id from every column of the board's row.
	RemoveID(ctx context.Context, boardID, taskID int64) error
}
