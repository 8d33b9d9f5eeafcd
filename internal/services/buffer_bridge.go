package services

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/internal/infrastructure/buffer"
	"github.com/junaydb/kanban-board/usecase"
)

// BufferBridge adapts the buffer processor to the usecase.OperationBuffer
// port. Positions writes are keyed by board so a newer replace supersedes an
// older buffered one after replay (last write wins either way).
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:        strconv.FormatInt(task.ID, 10),
		BoardID:   task.BoardID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  4,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferPositions(ctx context.Context, positions *domain.TaskPositions) error {
	if b.processor == nil || positions == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(positions)
	if err != nil {
		return err
	}
	item := buffer.Item{
		BoardID:   positions.BoardID,
		Entity:    buffer.EntityPositions,
		Operation: buffer.OperationReplace,
		Data:      payload,
		Priority:  3,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
