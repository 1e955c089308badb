package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func profileColumns() []string {
	return []string{"profile_id", "user_id", "age", "weight", "height", "objective", "training_days", "created_at", "updated_at"}
}

func TestProfileWriteRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, teardown := newMockDB(t)
		defer teardown()

		repo := NewProfileWriteRepository(db)

		// Both writes and the re-read run on one transaction that
		// commits before Upsert returns.
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(int64(1), "alice", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).
			WithArgs(int64(1), 30, 70.0, 175.0, "lose fat", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT profile_id, user_id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(profileColumns()).
				AddRow(int64(10), int64(1), 30, 70.0, 175.0, "lose fat", 4, nowStub(), nowStub()))
		mock.ExpectCommit()

		profile, err := repo.Upsert(ctx, 1, "alice", 30, 70, 175, "lose fat", 4, 1)
		assert.NoError(t, err)
		assert.NotNil(t, profile)
		assert.Equal(t, int64(1), profile.UserID)
		assert.Equal(t, 30, profile.Age)
		assert.Equal(t, "lose fat", profile.Objective)
		assert.Equal(t, 4, profile.TrainingDays)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UserNotFound", func(t *testing.T) {
		db, mock, teardown := newMockDB(t)
		defer teardown()

		repo := NewProfileWriteRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(int64(99), "ghost", 1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		profile, err := repo.Upsert(ctx, 99, "ghost", 30, 70, 175, "lose fat", 4, 1)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, profile)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProfileUpsertError", func(t *testing.T) {
		db, mock, teardown := newMockDB(t)
		defer teardown()

		repo := NewProfileWriteRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(int64(1), "alice", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).
			WithArgs(int64(1), 30, 70.0, 175.0, "lose fat", 4).
			WillReturnError(errors.New("deadlock detected"))
		mock.ExpectRollback()

		profile, err := repo.Upsert(ctx, 1, "alice", 30, 70, 175, "lose fat", 4, 1)
		assert.Error(t, err)
		assert.Nil(t, profile)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BeginError", func(t *testing.T) {
		db, mock, teardown := newMockDB(t)
		defer teardown()

		repo := NewProfileWriteRepository(db)

		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		profile, err := repo.Upsert(ctx, 1, "alice", 30, 70, 175, "lose fat", 4, 1)
		assert.Error(t, err)
		assert.Nil(t, profile)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CommitError", func(t *testing.T) {
		db, mock, teardown := newMockDB(t)
		defer teardown()

		repo := NewProfileWriteRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
			WithArgs(int64(1), "alice", 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_profiles")).
			WithArgs(int64(1), 30, 70.0, 175.0, "lose fat", 4).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT profile_id, user_id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(profileColumns()).
				AddRow(int64(10), int64(1), 30, 70.0, 175.0, "lose fat", 4, nowStub(), nowStub()))
		mock.ExpectCommit().WillReturnError(errors.New("connection reset"))

		profile, err := repo.Upsert(ctx, 1, "alice", 30, 70, 175, "lose fat", 4, 1)
		assert.Error(t, err)
		assert.Nil(t, profile)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileReadRepository_GetByUserID(t *testing.T) {
	db, mock, teardown := newMockDB(t)
	defer teardown()

	repo := NewProfileReadRepository(db)
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT profile_id, user_id")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows(profileColumns()).
				AddRow(int64(10), int64(1), 25, 60.0, 165.0, "gain muscle", 5, nowStub(), nowStub()))

		profile, err := repo.GetByUserID(ctx, 1)
		assert.NoError(t, err)
		assert.NotNil(t, profile)
		assert.Equal(t, "gain muscle", profile.Objective)
		assert.Equal(t, 5, profile.TrainingDays)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta("SELECT profile_id, user_id")).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		profile, err := repo.GetByUserID(ctx, 99)
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, profile)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
