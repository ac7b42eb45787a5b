package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the profile record stored alongside the bearer credential.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// AuthResult is the payload returned by the login and register endpoints.
type AuthResult struct {
	Token     string    `json:"token"`
	Type      string    `json:"type"`
	UserID    uuid.UUID `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// User extracts the profile record from an authentication result.
func (r AuthResult) User() User {
	return User{
		ID:       r.UserID,
		Username: r.Username,
		Email:    r.Email,
	}
}
