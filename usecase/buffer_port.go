package usecase

import (
	"context"

	"github.com/junaydb/kanban-board/domain"
)

// Operation names shared with the offline buffer.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the offline write buffer so use cases stay
// storage-agnostic. Writes land here when primary storage is unreachable and
// are replayed later.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferPositions(ctx context.Context, positions *domain.TaskPositions) error
}
