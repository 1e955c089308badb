package repositories

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
)

// ProfileWriteRepository handles profile write operations.
type ProfileWriteRepository struct {
	db *sqlx.DB
}

func NewProfileWriteRepository(db *sqlx.DB) *ProfileWriteRepository {
	return &ProfileWriteRepository{db: db}
}

// Upsert updates the user's username and profiling-form flag, then
// performs an atomic insert-or-update of the profile row keyed by
// user_id, then re-reads and returns the resulting row.
// Returns sql.ErrNoRows when the user does not exist.
// Both writes run on a single short-lived transaction owned by this
// method; it commits before Upsert returns, so the rows are visible
// and no lock is held while the caller proceeds to routine generation.
func (r *ProfileWriteRepository) Upsert(
	ctx context.Context,
	userID int64,
	username string,
	age int,
	weight, height float64,
	objective string,
	trainingDays, profilingForm int,
) (*models.UserProfileDB, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		logger.Log.Errorw("failed to begin transaction", "error", err)
		return nil, err
	}
	defer tx.Rollback()

	userQuery := `
		UPDATE users
		SET username = $2, profiling_form = $3, updated_at = NOW()
		WHERE user_id = $1
	`
	res, err := tx.ExecContext(ctx, userQuery, userID, username, profilingForm)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(userQuery), " "),
		"args", []any{userID, username, profilingForm},
		"result", rowsAffected,
		"error", err,
	)

	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, sql.ErrNoRows
	}

	profileQuery := `
		INSERT INTO user_profiles (user_id, age, weight, height, objective, training_days, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET age = EXCLUDED.age,
		              weight = EXCLUDED.weight,
		              height = EXCLUDED.height,
		              objective = EXCLUDED.objective,
		              training_days = EXCLUDED.training_days,
		              updated_at = NOW()
	`
	args := []any{userID, age, weight, height, objective, trainingDays}

	_, err = tx.ExecContext(ctx, profileQuery, args...)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(profileQuery), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	selectQuery := `
		SELECT profile_id, user_id, age, weight, height, objective, training_days, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile models.UserProfileDB
	err = tx.GetContext(ctx, &profile, selectQuery, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(selectQuery), " "),
		"args", []any{userID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit transaction", "error", err)
		return nil, err
	}

	return &profile, nil
}

// ProfileReadRepository handles profile read operations.
type ProfileReadRepository struct {
	db *sqlx.DB
}

func NewProfileReadRepository(db *sqlx.DB) *ProfileReadRepository {
	return &ProfileReadRepository{db: db}
}

// GetByUserID returns the profile for the given user.
// Returns sql.ErrNoRows when no profile exists.
func (r *ProfileReadRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserProfileDB, error) {
	const query = `
		SELECT profile_id, user_id, age, weight, height, objective, training_days, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile models.UserProfileDB
	err := r.db.GetContext(ctx, &profile, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return &profile, nil
}
