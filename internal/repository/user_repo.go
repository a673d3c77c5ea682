package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
)

// ErrDuplicateUser is returned when a register collides with an existing
// user id or email.
var ErrDuplicateUser = errors.New("user id or email already registered")

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create inserts a new user with pre-hashed password material.
func (r *UserRepo) Create(ctx context.Context, id, email, passwordHash, passwordSalt string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, password_salt)
		VALUES ($1, $2, $3, $4)`,
		id, email, passwordHash, passwordSalt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateUser
		}
		return err
	}
	return nil
}

// FindByEmail returns the user record for login verification.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, password_salt, created_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.PasswordSalt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID returns the user's public profile fields.
func (r *UserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, created_at FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateToken persists a fresh auth token for a user.
func (r *UserRepo) CreateToken(ctx context.Context, token, userID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tokens (token, user_id) VALUES ($1, $2)`, token, userID)
	return err
}

// LookupToken returns the owning user and issue time for a token. The caller
// decides expiry.
func (r *UserRepo) LookupToken(ctx context.Context, token string) (string, time.Time, error) {
	var userID string
	var createdAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, created_at FROM tokens WHERE token = $1`, token).
		Scan(&userID, &createdAt)
	return userID, createdAt, err
}

// CountPostsByUser returns how many posts a user has submitted.
func (r *UserRepo) CountPostsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM posts WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}
