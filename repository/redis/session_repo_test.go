package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/junaydb/kanban-board/domain"
)

func newTestRepo(t *testing.T) (*miniredis.Miniredis, *sessionRepository) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewSessionRepository(client, time.Hour).(*sessionRepository)
}

func TestSessionSaveAndGet(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{
		ID:        "abc",
		UserID:    "user-1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := repo.Get(ctx, "abc")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.UserID != "user-1" {
		t.Fatalf("unexpected user id %q", got.UserID)
	}
}

func TestSessionGetMissing(t *testing.T) {
	_, repo := newTestRepo(t)

	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionSaveRejectsEmptyID(t *testing.T) {
	_, repo := newTestRepo(t)

	if err := repo.Save(context.Background(), &domain.Session{}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestSessionDelete(t *testing.T) {
	_, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "gone", UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Delete(ctx, "gone"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := repo.Get(ctx, "gone"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after delete, got %v", err)
	}
}

func TestSessionExpiresWithTTL(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "ttl", UserID: "user-1", ExpiresAt: time.Now().Add(time.Minute)}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := repo.Get(ctx, "ttl"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestSessionExtend(t *testing.T) {
	mr, repo := newTestRepo(t)
	ctx := context.Background()

	session := &domain.Session{ID: "ext", UserID: "user-1", ExpiresAt: time.Now().Add(time.Minute)}
	if err := repo.Save(ctx, session); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Extend(ctx, "ext", 3600); err != nil {
		t.Fatalf("extend failed: %v", err)
	}

	mr.FastForward(30 * time.Minute)

	if _, err := repo.Get(ctx, "ext"); err != nil {
		t.Fatalf("extended session should still resolve: %v", err)
	}
}
