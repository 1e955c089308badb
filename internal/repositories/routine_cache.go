package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
	"github.com/redis/go-redis/v9"
)

// RoutineCacheRepository provides cached routine documents using Redis
type RoutineCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached routines
}

// NewRoutineCacheRepository creates a new repository instance with optional TTL
func NewRoutineCacheRepository(client *redis.Client, expiration time.Duration) *RoutineCacheRepository {
	return &RoutineCacheRepository{
		client: client,
		exp:    expiration,
	}
}

// Get fetches a cached routine document for the given user
func (r *RoutineCacheRepository) Get(ctx context.Context, userID int64) (*models.RoutineDocument, error) {
	key := fmt.Sprintf("routine:%d", userID)

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("routine not found in cache for user %d", userID)
		}
		return nil, err
	}

	var doc models.RoutineDocument
	if err := json.Unmarshal(val, &doc); err != nil {
		logger.Log.Infow(
			"key", key,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow(
		"key", key,
		"result", "hit",
		"error", nil,
	)

	return &doc, nil
}

// Set caches a routine document in Redis with expiration
func (r *RoutineCacheRepository) Set(ctx context.Context, userID int64, doc *models.RoutineDocument) error {
	key := fmt.Sprintf("routine:%d", userID)

	val, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, val, r.exp).Err()

	logger.Log.Infow(
		"key", key,
		"result", "ok",
		"error", err,
	)

	return err
}
