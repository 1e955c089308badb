package models

import "time"

// UserProfileDB represents a user's fitness profile record in the database.
// Exactly zero or one profile exists per user.
type UserProfileDB struct {
	ProfileID    int64     `json:"id" db:"profile_id"`             // Primary key
	UserID       int64     `json:"user_id" db:"user_id"`           // Owning user, unique
	Age          int       `json:"age" db:"age"`                   // Age in years
	Weight       float64   `json:"weight" db:"weight"`             // Weight in kg
	Height       float64   `json:"height" db:"height"`             // Height in cm
	Objective    string    `json:"objective" db:"objective"`       // Free-text training goal
	TrainingDays int       `json:"training_days" db:"training_days"` // Training days per week
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
