package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"comandero/internal/domain"
)

var ErrUserNotFound = errors.New("user not found")

// User is a staff account. The profile (display name, role) lives beside
// the credentials and is joined into the session token at sign-in.
type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Name         string
	Role         domain.Role
	CreatedAt    time.Time
}

type RepositoryInterface interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	Insert(ctx context.Context, u User) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *Repository { return &Repository{db: db} }

func (r *Repository) GetByUsername(ctx context.Context, username string) (User, error) {
	var u User
	var role string
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password_hash, name, role, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("get user: %w", err)
	}
	u.Role = domain.Role(role)
	return u, nil
}

func (r *Repository) Insert(ctx context.Context, u User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, password_hash, name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, u.ID, u.Username, u.PasswordHash, u.Name, string(u.Role))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}
