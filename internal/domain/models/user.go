package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PassHash     []byte    `json:"-" db:"pass_hash"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// DisplayName is what the default gallery title is derived from.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return "My"
}

type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}
