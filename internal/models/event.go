package models

// RoutineGeneratedEvent is published to Kafka after a routine has been
// generated and persisted for a user.
type RoutineGeneratedEvent struct {
	EventID      string `json:"event_id"`      // Unique event identifier
	UserID       int64  `json:"user_id"`       // Owner of the routine
	Objective    string `json:"objective"`     // Training goal the routine was generated for
	TrainingDays int    `json:"training_days"` // Requested number of training days
	Timestamp    int64  `json:"timestamp"`     // Unix timestamp of generation
}
