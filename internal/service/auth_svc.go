package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ugackMiner53/CrowdTruth/internal/model"
	"github.com/ugackMiner53/CrowdTruth/internal/repository"
)

// TokenExpiry is how long an issued auth token stays valid.
const TokenExpiry = 7 * 24 * time.Hour

var (
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers missing, unknown and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

type AuthService struct {
	users *repository.UserRepo
}

func NewAuthService(users *repository.UserRepo) *AuthService {
	return &AuthService{users: users}
}

// Register creates an account. The caller must have validated the fields.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	hash, salt, err := HashPassword(req.Password)
	if err != nil {
		return err
	}
	return s.users.Create(ctx, req.ID, req.Email, hash, salt)
}

// Login verifies credentials and issues a fresh opaque token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(req.Password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.users.CreateToken(ctx, token, user.ID); err != nil {
		return nil, err
	}

	return &model.AuthResponse{OK: true, Token: token, UserID: user.ID}, nil
}

// Authenticate resolves a bearer token to its user id, rejecting expired
// tokens.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	userID, createdAt, err := s.users.LookupToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrInvalidToken
		}
		return "", err
	}
	if time.Since(createdAt) > TokenExpiry {
		return "", ErrInvalidToken
	}
	return userID, nil
}
