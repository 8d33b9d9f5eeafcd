package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/junaydb/kanban-board/domain"
)

type stubUserRepo struct {
	upserted []string
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (s *stubUserRepo) Upsert(_ context.Context, user *domain.User) error {
	s.upserted = append(s.upserted, user.ID)
	return nil
}

type stubSessionRepo struct {
	sessions map[string]*domain.Session
	deleted  []string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]*domain.Session{}}
}

func (s *stubSessionRepo) Get(_ context.Context, id string) (*domain.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *stubSessionRepo) Save(_ context.Context, session *domain.Session) error {
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *stubSessionRepo) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubSessionRepo) Extend(_ context.Context, id string, ttlSeconds int) error {
	session, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.ExpiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func TestLoginUpsertsUserAndIssuesToken(t *testing.T) {
	users := &stubUserRepo{}
	sessions := newStubSessionRepo()
	uc := New(users, sessions, "secret", "kanban-board", nil)

	session, token, err := uc.Login(context.Background(), &domain.User{ID: "u1", Username: "alice"}, time.Hour)
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if len(users.upserted) != 1 || users.upserted[0] != "u1" {
		t.Fatalf("user not upserted: %v", users.upserted)
	}
	if session.UserID != "u1" || session.ID == "" {
		t.Fatalf("bad session: %+v", session)
	}

	parsed, err := jwt.Parse(token, func(*jwt.Token) (any, error) { return []byte("secret"), nil })
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["user_id"] != "u1" || claims["session_id"] != session.ID {
		t.Fatalf("unexpected claims: %v", claims)
	}
	if claims["iss"] != "kanban-board" {
		t.Fatalf("unexpected issuer: %v", claims["iss"])
	}
}

func TestLoginRejectsAnonymousUser(t *testing.T) {
	uc := New(&stubUserRepo{}, newStubSessionRepo(), "secret", "kanban-board", nil)

	if _, _, err := uc.Login(context.Background(), &domain.User{}, time.Hour); err == nil {
		t.Fatal("expected error for user without id")
	}
}

func TestGetSessionExpiresEagerly(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["stale"] = &domain.Session{
		ID:        "stale",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	uc := New(&stubUserRepo{}, sessions, "secret", "kanban-board", nil)

	if _, err := uc.GetSession(context.Background(), "stale"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if len(sessions.deleted) != 1 {
		t.Fatalf("stale session not deleted: %v", sessions.deleted)
	}
}

func TestRefreshExtendsSession(t *testing.T) {
	sessions := newStubSessionRepo()
	sessions.sessions["live"] = &domain.Session{
		ID:        "live",
		UserID:    "u1",
		ExpiresAt: time.Now().Add(time.Minute),
	}
	uc := New(&stubUserRepo{}, sessions, "secret", "kanban-board", nil)

	session, token, err := uc.Refresh(context.Background(), "live", time.Hour)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a re-issued token")
	}
	if session.ExpiresAt.Before(time.Now().Add(30 * time.Minute)) {
		t.Fatalf("expiry not extended: %v", session.ExpiresAt)
	}
	if sessions.sessions["live"].ExpiresAt.Before(time.Now().Add(30 * time.Minute)) {
		t.Fatal("store TTL not extended")
	}
}
