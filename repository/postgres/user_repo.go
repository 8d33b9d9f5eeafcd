package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/junaydb/kanban-board/domain"
	"github.com/junaydb/kanban-board/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
	SELECT id, username, email, created_at
	FROM users
	WHERE id = $1
	`
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, id).Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	INSERT INTO users (id, username, email)
	VALUES ($1, $2, $3)
	ON CONFLICT (id) DO UPDATE
	SET username = EXCLUDED.username,
		email = EXCLUDED.email
	RETURNING created_at
	`

	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, user.ID, user.Username, user.Email).Scan(&createdAt); err != nil {
		return err
	}
	user.CreatedAt = createdAt
	return nil
}
