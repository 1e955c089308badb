package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
	"github.com/segmentio/kafka-go"
)

// Error variables
var (
	// ErrUserNotFound is returned when a profile update targets a user that does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrProfileNotFound is returned when no profile exists for the user.
	ErrProfileNotFound = errors.New("user profile not found")
	// ErrRoutineNotFound is returned when no routine exists for the user.
	ErrRoutineNotFound = errors.New("user routine not found")
	// ErrRoutineNotSaved is returned when the routine write cannot be acknowledged.
	ErrRoutineNotSaved = errors.New("routine could not be saved")
)

// ProfileWriter defines the profile upsert operation.
type ProfileWriter interface {
	Upsert(ctx context.Context, userID int64, username string, age int, weight, height float64, objective string, trainingDays, profilingForm int) (*models.UserProfileDB, error)
}

// ProfileReader defines profile read operations.
type ProfileReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.UserProfileDB, error)
}

// RoutineGenerator derives a structured routine from profile attributes.
type RoutineGenerator interface {
	Generate(ctx context.Context, age int, weight, height float64, objective string, trainingDays int) (*models.RoutineDocument, error)
}

// RoutineWriter defines the routine upsert operation.
type RoutineWriter interface {
	Save(ctx context.Context, userID int64, doc *models.RoutineDocument) error
}

// RoutineReader defines routine read operations.
type RoutineReader interface {
	GetByUserID(ctx context.Context, userID int64) (*models.RoutineDocument, error)
}

// RoutineCache caches routine documents.
type RoutineCache interface {
	Get(ctx context.Context, userID int64) (*models.RoutineDocument, error)
	Set(ctx context.Context, userID int64, doc *models.RoutineDocument) error
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// UpdateProfileParams carries the validated inbound profile payload.
type UpdateProfileParams struct {
	Username      string
	Age           int
	Weight        float64
	Height        float64
	Objective     string
	TrainingDays  int
	ProfilingForm int
}

// ProfileService sequences the profile-update pipeline:
// profile upsert -> routine generation -> routine persistence.
type ProfileService struct {
	profileWriter ProfileWriter
	profileReader ProfileReader
	generator     RoutineGenerator
	routineWriter RoutineWriter
	routineReader RoutineReader
	cache         RoutineCache
	kafkaWriter   KafkaWriter
}

// NewProfileService creates a new ProfileService.
func NewProfileService(
	profileWriter ProfileWriter,
	profileReader ProfileReader,
	generator RoutineGenerator,
	routineWriter RoutineWriter,
	routineReader RoutineReader,
	cache RoutineCache,
	kafkaWriter KafkaWriter,
) *ProfileService {
	return &ProfileService{
		profileWriter: profileWriter,
		profileReader: profileReader,
		generator:     generator,
		routineWriter: routineWriter,
		routineReader: routineReader,
		cache:         cache,
		kafkaWriter:   kafkaWriter,
	}
}

// publishRoutineGenerated publishes a routine-generated event to Kafka.
func (s *ProfileService) publishRoutineGenerated(ctx context.Context, event models.RoutineGeneratedEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish event to Kafka", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Event published to Kafka", "event_id", event.EventID, "user_id", event.UserID)
	}
}

// UpdateProfile persists the profile, derives a routine from the
// just-persisted attributes and persists it. Each stage runs at most
// once; no stage is retried. A generation failure after the profile
// write leaves the profile persisted and surfaces only the routine
// failure (accepted partial success): the caller resubmits, the upsert
// is idempotent and generation runs again.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID int64, params UpdateProfileParams) (*models.UserProfileDB, *models.RoutineDocument, error) {
	profile, err := s.profileWriter.Upsert(
		ctx, userID,
		params.Username, params.Age, params.Weight, params.Height,
		params.Objective, params.TrainingDays, params.ProfilingForm,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.Errorw("profile update for unknown user", "userID", userID)
			return nil, nil, ErrUserNotFound
		}
		logger.Log.Errorw("failed to upsert profile", "userID", userID, "error", err)
		return nil, nil, err
	}

	doc, err := s.generator.Generate(ctx, profile.Age, profile.Weight, profile.Height, profile.Objective, profile.TrainingDays)
	if err != nil {
		logger.Log.Errorw("routine generation failed", "userID", userID, "error", err)
		return profile, nil, err
	}

	if err := s.routineWriter.Save(ctx, userID, doc); err != nil {
		logger.Log.Errorw("failed to save routine", "userID", userID, "error", err)
		return profile, nil, ErrRoutineNotSaved
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, doc); err != nil {
			logger.Log.Errorw("failed to cache routine", "userID", userID, "error", err)
		}
	}

	event := models.RoutineGeneratedEvent{
		EventID:      uuid.NewString(),
		UserID:       userID,
		Objective:    profile.Objective,
		TrainingDays: profile.TrainingDays,
		Timestamp:    time.Now().Unix(),
	}
	s.publishRoutineGenerated(ctx, event)

	return profile, doc, nil
}

// GetProfile returns the user's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID int64) (*models.UserProfileDB, error) {
	profile, err := s.profileReader.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		logger.Log.Errorw("failed to get profile", "userID", userID, "error", err)
		return nil, err
	}
	return profile, nil
}

// GetRoutine returns the user's routine, serving from cache when possible.
func (s *ProfileService) GetRoutine(ctx context.Context, userID int64) (*models.RoutineDocument, error) {
	if s.cache != nil {
		if doc, err := s.cache.Get(ctx, userID); err == nil {
			return doc, nil
		}
	}

	doc, err := s.routineReader.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoutineNotFound
		}
		logger.Log.Errorw("failed to get routine", "userID", userID, "error", err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, doc); err != nil {
			logger.Log.Errorw("failed to cache routine", "userID", userID, "error", err)
		}
	}

	return doc, nil
}
