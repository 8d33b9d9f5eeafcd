package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/repository"
)

// UseCase exchanges an OAuth-verified identity for a server session. The
// provider handshake itself happens upstream; this layer only records the
// user and issues the bearer token the API checks on every request.
type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	secret   []byte
	issuer   string
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, secret, issuer string, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		issuer:   issuer,
		logger:   logger,
	}
}

// Login upserts the user profile and opens a fresh session.
func (uc *UseCase) Login(ctx context.Context, user *domain.User, ttl time.Duration) (*domain.Session, string, error) {
	if user == nil || user.ID == "" {
		return nil, "", domain.ErrInvalidPayload
	}
	if err := uc.users.Upsert(ctx, user); err != nil {
		return nil, "", err
	}

	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, "", err
	}

	token, err := uc.signToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

// GetSession resolves a session id, expiring stale entries eagerly.
func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Refresh extends a live session and re-issues its token.
func (uc *UseCase) Refresh(ctx context.Context, sessionID string, ttl time.Duration) (*domain.Session, string, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, "", err
	}
	if err := uc.sessions.Extend(ctx, sessionID, int(ttl.Seconds())); err != nil {
		return nil, "", err
	}
	session.ExpiresAt = time.Now().Add(ttl)

	token, err := uc.signToken(session)
	if err != nil {
		return nil, "", err
	}
	return session, token, nil
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

func (uc *UseCase) signToken(session *domain.Session) (string, error) {
	claims := jwt.MapClaims{
		"iss":        uc.issuer,
		"user_id":    session.UserID,
		"session_id": session.ID,
		"exp":        session.ExpiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
}
