package models

import "time"

// UserDB represents a user record in the database
type UserDB struct {
	UserID        int64     `json:"id" db:"user_id"`                    // Primary key
	Username      string    `json:"username" db:"username"`             // Unique username
	Email         string    `json:"email" db:"email"`                   // Unique email
	PasswordHash  string    `json:"-" db:"password_hash"`               // Hashed password, never serialized
	IsActive      bool      `json:"is_active" db:"is_active"`           // Activation flag
	ProfilingForm int       `json:"profiling_form" db:"profiling_form"` // Set to 1 once the profiling form is filled
	CreatedAt     time.Time `json:"created_at" db:"created_at"`         // Creation timestamp
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`         // Last update timestamp
}
