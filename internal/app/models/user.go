package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID              int64     `json:"id" db:"id"`
	Username        string    `json:"username" db:"username"`
	Email           string    `json:"email" db:"email"`
	Password        string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role            Role      `json:"role" db:"role"`
	Points          int       `json:"points" db:"points"`
	Badges          string    `json:"badges" db:"badges"`
	ReputationLevel int       `json:"reputation_level" db:"reputation_level"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
