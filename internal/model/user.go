package model

import "time"

// User represents a registered account. Password material never leaves
// the repository layer.
type User struct {
	ID           string    `json:"userId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	PasswordSalt string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// RegisterRequest is the API request body for account creation.
type RegisterRequest struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the API request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the API response for register/login.
type AuthResponse struct {
	OK     bool   `json:"ok"`
	Token  string `json:"token,omitempty"`
	UserID string `json:"userId,omitempty"`
}

// UserStatsResponse is the API response for a user's activity counters.
type UserStatsResponse struct {
	OK        bool   `json:"ok"`
	UserID    string `json:"userId"`
	PostCount int    `json:"postCount"`
	VoteCount int    `json:"voteCount"`
}
