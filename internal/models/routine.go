package models

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Exercise is a single exercise entry inside a daily routine.
// All fields are required by the generation schema.
type Exercise struct {
	Exercise string  `json:"exercise"` // Exercise name
	Duration string  `json:"duration"` // Human-readable duration, e.g. "15 minutes"
	Calories float64 `json:"calories"` // Estimated calories burned
	Sets     int     `json:"sets"`     // Number of sets
	Reps     int     `json:"reps"`     // Repetitions per set
	ImgURL   string  `json:"imgUrl"`   // Illustration image URI
	VideoURL string  `json:"videoUrl"` // Demonstration video URI
}

// DayRoutine is an ordered list of exercises for one training day.
type DayRoutine struct {
	Exercise []Exercise `json:"exercise"`
}

// RoutineDocument is the structured multi-day exercise plan produced by
// the generation service. It must validate against the fixed schema
// before being trusted for storage.
type RoutineDocument struct {
	Routines []DayRoutine `json:"routines"`
}

// Validate checks the document against the generation schema: a
// non-empty ordered list of day entries, each with a non-empty ordered
// list of exercises carrying all seven required fields.
func (d *RoutineDocument) Validate() error {
	if len(d.Routines) == 0 {
		return errors.New("routines is empty")
	}
	for i, day := range d.Routines {
		if len(day.Exercise) == 0 {
			return fmt.Errorf("day %d has no exercises", i)
		}
		for j, ex := range day.Exercise {
			if ex.Exercise == "" {
				return fmt.Errorf("day %d exercise %d: name is empty", i, j)
			}
			if ex.Duration == "" {
				return fmt.Errorf("day %d exercise %d: duration is empty", i, j)
			}
			if ex.Calories < 0 {
				return fmt.Errorf("day %d exercise %d: negative calories", i, j)
			}
			if ex.Sets <= 0 {
				return fmt.Errorf("day %d exercise %d: sets must be positive", i, j)
			}
			if ex.Reps <= 0 {
				return fmt.Errorf("day %d exercise %d: reps must be positive", i, j)
			}
			if _, err := url.ParseRequestURI(ex.ImgURL); err != nil {
				return fmt.Errorf("day %d exercise %d: invalid imgUrl: %w", i, j, err)
			}
			if _, err := url.ParseRequestURI(ex.VideoURL); err != nil {
				return fmt.Errorf("day %d exercise %d: invalid videoUrl: %w", i, j, err)
			}
		}
	}
	return nil
}

// RoutineDB represents a stored routine row.
type RoutineDB struct {
	RoutineID int64     `json:"id" db:"routine_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Document  []byte    `json:"document" db:"document"` // Serialized RoutineDocument (JSONB)
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
