package repositories

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/mgarciadev/gw-fitness-routine/internal/logger"
	"github.com/mgarciadev/gw-fitness-routine/internal/models"
)

// RoutineWriteRepository handles routine write operations.
type RoutineWriteRepository struct {
	db *sqlx.DB
}

func NewRoutineWriteRepository(db *sqlx.DB) *RoutineWriteRepository {
	return &RoutineWriteRepository{db: db}
}

// Save performs an UPSERT keyed by user_id: re-generation overwrites
// the prior routine atomically, never creating a duplicate row.
func (r *RoutineWriteRepository) Save(ctx context.Context, userID int64, doc *models.RoutineDocument) error {
	document, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO routines (user_id, document, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = NOW()
	`

	_, err = r.db.ExecContext(ctx, query, userID, document)

	// Log with query in single line
	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, string(document)},
		"error", err,
	)

	return err
}

// RoutineReadRepository handles routine read operations.
type RoutineReadRepository struct {
	db *sqlx.DB
}

func NewRoutineReadRepository(db *sqlx.DB) *RoutineReadRepository {
	return &RoutineReadRepository{db: db}
}

// GetByUserID returns the stored routine document for the given user.
// Returns sql.ErrNoRows when no routine exists.
func (r *RoutineReadRepository) GetByUserID(ctx context.Context, userID int64) (*models.RoutineDocument, error) {
	const query = `
		SELECT document
		FROM routines
		WHERE user_id = $1
	`

	var document []byte
	err := r.db.GetContext(ctx, &document, query, userID)

	logger.Log.Infow(
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID},
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	var doc models.RoutineDocument
	if err := json.Unmarshal(document, &doc); err != nil {
		return nil, err
	}

	return &doc, nil
}
