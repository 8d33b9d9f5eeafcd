package buffer

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "buffer.db"), "buffer")
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestEnqueueAndGetBatch(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		item := Item{
			BoardID:   1,
			Entity:    EntityTask,
			Operation: OperationCreate,
			Data:      json.RawMessage(`{}`),
		}
		if err := store.Enqueue(item); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	items, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for _, item := range items {
		if item.ID == "" {
			t.Fatal("enqueue must assign an id")
		}
		if item.Timestamp.IsZero() {
			t.Fatal("enqueue must stamp the item")
		}
	}
}

func TestGetBatchHonorsLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		if err := store.Enqueue(Item{Entity: EntityTask, Operation: OperationUpdate, Data: json.RawMessage(`{}`)}); err != nil {
			t.Fatalf("enqueue failed: %v", err)
		}
	}

	items, err := store.GetBatch(2)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestPriorityOrdersDrain(t *testing.T) {
	store := newTestStore(t)

	if err := store.Enqueue(Item{Entity: EntityPositions, Operation: OperationReplace, Priority: 3, Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := store.Enqueue(Item{Entity: EntityTask, Operation: OperationDelete, Priority: 1, Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	items, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("batch failed: %v", err)
	}
	if len(items) != 2 || items[0].Priority != 1 {
		t.Fatalf("expected priority 1 first, got %+v", items)
	}
}

func TestRemoveDeletesItem(t *testing.T) {
	store := newTestStore(t)

	if err := store.Enqueue(Item{Entity: EntityTask, Operation: OperationCreate, Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	items, err := store.GetBatch(1)
	if err != nil || len(items) != 1 {
		t.Fatalf("batch failed: %v (%d items)", err, len(items))
	}
	if err := store.Remove(items[0]); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}
	if size != 0 {
		t.Fatalf("expected empty store, got %d", size)
	}
}

func TestRequeueBumpsTimestamp(t *testing.T) {
	store := newTestStore(t)

	old := Item{
		Entity:    EntityTask,
		Operation: OperationUpdate,
		Data:      json.RawMessage(`{}`),
		Timestamp: time.Now().Add(-time.Hour),
		Retries:   1,
	}
	if err := store.Requeue(old); err != nil {
		t.Fatalf("requeue failed: %v", err)
	}

	items, err := store.GetBatch(1)
	if err != nil || len(items) != 1 {
		t.Fatalf("batch failed: %v (%d items)", err, len(items))
	}
	if items[0].Timestamp.Before(time.Now().Add(-time.Minute)) {
		t.Fatalf("requeue did not refresh the timestamp: %v", items[0].Timestamp)
	}
	if items[0].Retries != 1 {
		t.Fatalf("requeue must keep the retry count, got %d", items[0].Retries)
	}
}

func TestCleanupDropsStaleItems(t *testing.T) {
	store := newTestStore(t)

	if err := store.Enqueue(Item{Entity: EntityTask, Operation: OperationCreate, Data: json.RawMessage(`{}`), Timestamp: time.Now().Add(-48 * time.Hour)}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := store.Enqueue(Item{Entity: EntityTask, Operation: OperationCreate, Data: json.RawMessage(`{}`)}); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("cleanup failed: %v", err)
	}

	size, err := store.Size()
	if err != nil {
		t.Fatalf("size failed: %v", err)
	}
	if size != 1 {
		t.Fatalf("expected 1 surviving item, got %d", size)
	}
}
