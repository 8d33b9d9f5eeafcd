package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/internal/infrastructure/buffer"
	"github.com/junaydb/kanban-board/repository"
)

type health bool

func (h health) IsOnline() bool { return bool(h) }

type replayTaskRepo struct {
	repository.TaskRepository
	inserted []int64
	deleted  []int64
	fail     bool
}

func (r *replayTaskRepo) Insert(_ context.Context, task *domain.Task) (*domain.Task, error) {
	if r.fail {
		return nil, errors.New("connection refused")
	}
	r.inserted = append(r.inserted, task.BoardID)
	return task, nil
}

func (r *replayTaskRepo) Delete(_ context.Context, _, taskID int64) (*domain.Task, error) {
	if r.fail {
		return nil, errors.New("connection refused")
	}
	r.deleted = append(r.deleted, taskID)
	return &domain.Task{ID: taskID}, nil
}

type replayPositionRepo struct {
	repository.PositionRepository
	replaced []*domain.TaskPositions
}

func (r *replayPositionRepo) Replace(_ context.Context, positions *domain.TaskPositions) error {
	r.replaced = append(r.replaced, positions)
	return nil
}

func newTestProcessor(t *testing.T, online health, tasks *replayTaskRepo, positions *replayPositionRepo) (*BufferProcessor, *buffer.Store) {
	t.Helper()
	store, err := buffer.Open(filepath.Join(t.TempDir(), "buffer.db"), "buffer")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bp := NewBufferProcessor(store, online, tasks, positions, nil, ProcessorConfig{
		Interval:   time.Minute,
		BatchSize:  10,
		MaxRetries: 2,
	})
	return bp, store
}

func TestBufferOperationProcessesImmediatelyWhenOnline(t *testing.T) {
	tasks := &replayTaskRepo{}
	bp, store := newTestProcessor(t, true, tasks, &replayPositionRepo{})
	bridge := NewBufferBridge(bp)

	err := bridge.BufferTask(context.Background(), buffer.OperationCreate, &domain.Task{BoardID: 1, Title: "t", Status: domain.StatusTodo})
	if err != nil {
		t.Fatalf("buffer failed: %v", err)
	}
	if len(tasks.inserted) != 1 {
		t.Fatalf("expected immediate insert, got %v", tasks.inserted)
	}
	size, _ := store.Size()
	if size != 0 {
		t.Fatalf("item should not persist when processed immediately, got %d", size)
	}
}

func TestBufferOperationPersistsWhenOffline(t *testing.T) {
	tasks := &replayTaskRepo{}
	bp, store := newTestProcessor(t, false, tasks, &replayPositionRepo{})
	bridge := NewBufferBridge(bp)

	err := bridge.BufferTask(context.Background(), buffer.OperationCreate, &domain.Task{BoardID: 1, Title: "t", Status: domain.StatusTodo})
	if err != nil {
		t.Fatalf("buffer failed: %v", err)
	}
	if len(tasks.inserted) != 0 {
		t.Fatal("offline write must not hit the store")
	}
	size, _ := store.Size()
	if size != 1 {
		t.Fatalf("expected 1 persisted item, got %d", size)
	}
}

func TestDrainReplaysBufferedWrites(t *testing.T) {
	tasks := &replayTaskRepo{}
	positions := &replayPositionRepo{}
	bp, store := newTestProcessor(t, false, tasks, positions)
	bridge := NewBufferBridge(bp)

	ctx := context.Background()
	if err := bridge.BufferTask(ctx, buffer.OperationCreate, &domain.Task{BoardID: 1, Title: "t", Status: domain.StatusTodo}); err != nil {
		t.Fatalf("buffer task failed: %v", err)
	}
	if err := bridge.BufferPositions(ctx, &domain.TaskPositions{BoardID: 1, TodoPos: []int64{5, 3}}); err != nil {
		t.Fatalf("buffer positions failed: %v", err)
	}

	// Back online: swap the health check and drain.
	bp.monitor = health(true)
	if err := bp.Drain(ctx); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if len(tasks.inserted) != 1 {
		t.Fatalf("task not replayed: %v", tasks.inserted)
	}
	if len(positions.replaced) != 1 || len(positions.replaced[0].TodoPos) != 2 {
		t.Fatalf("positions not replayed: %+v", positions.replaced)
	}
	size, _ := store.Size()
	if size != 0 {
		t.Fatalf("expected drained store, got %d items", size)
	}
}

func TestDrainSkipsWhileOffline(t *testing.T) {
	tasks := &replayTaskRepo{}
	bp, store := newTestProcessor(t, false, tasks, &replayPositionRepo{})
	bridge := NewBufferBridge(bp)

	if err := bridge.BufferTask(context.Background(), buffer.OperationDelete, &domain.Task{ID: 4, BoardID: 1}); err != nil {
		t.Fatalf("buffer failed: %v", err)
	}
	if err := bp.Drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	size, _ := store.Size()
	if size != 1 {
		t.Fatalf("offline drain must keep items, got %d", size)
	}
	if len(tasks.deleted) != 0 {
		t.Fatalf("offline drain must not replay, got %v", tasks.deleted)
	}
}

func TestDrainDropsItemAfterMaxRetries(t *testing.T) {
	tasks := &replayTaskRepo{fail: true}
	bp, store := newTestProcessor(t, true, tasks, &replayPositionRepo{})

	item := buffer.Item{
		BoardID:   1,
		Entity:    buffer.EntityTask,
		Operation: buffer.OperationCreate,
		Data:      []byte(`{"board_id":1,"title":"t","status":"TODO"}`),
	}
	if err := store.Enqueue(item); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := bp.Drain(ctx); err != nil {
			t.Fatalf("drain %d failed: %v", i, err)
		}
	}

	size, _ := store.Size()
	if size != 0 {
		t.Fatalf("item should be dropped after retries, got %d", size)
	}
}
