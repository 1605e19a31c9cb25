package recordrecommendationresult

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-recommendation-workers/internal/catalog"
	apperrors "course-recommendation-workers/internal/common/errors"
	"course-recommendation-workers/internal/common/logger"
	"course-recommendation-workers/internal/recommendation"
)

// ==========================
// Test Helper Functions
// ==========================

func createInput() *Input {
	return &Input{
		UserID:               "u1",
		AssessmentID:         "a1",
		RecommendedCourseIDs: []string{"DS201", "ARCH301"},
		CareerPathways:       []string{"Data Science"},
		Scores:               []recommendation.AssessmentScore{{Category: " Career ", Score: 82}},
	}
}

func expectUpsert(mock sqlmock.Sqlmock, inserted bool) {
	action := "updated"
	if inserted {
		action = "created"
	}
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO assessment_results`).
		WithArgs(sqlmock.AnyArg(), "u1", "a1", sqlmock.AnyArg(), sqlmock.AnyArg(), `{"career":82}`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "inserted"}).AddRow("res-1", inserted))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs(sqlmock.AnyArg(), "assessment_result", "res-1", action, "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_UpsertAndInvalidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	require.NoError(t, mr.Set(catalog.LearnerResultsKey("u1"), "[]"))
	require.NoError(t, mr.Set(catalog.LearnerResultsKey("u2"), "[]"))

	expectUpsert(mock, true)
	expectUpsert(mock, false)

	h := NewHandler(LoadConfig(), catalog.NewPostgresRepository(db), rdb, logger.NewTestLogger(t))

	first, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)
	assert.Equal(t, "res-1", first.ResultID)
	assert.True(t, first.Created)
	assert.False(t, first.RecordedAt.IsZero())
	assert.False(t, mr.Exists(catalog.LearnerResultsKey("u1")))
	assert.True(t, mr.Exists(catalog.LearnerResultsKey("u2")))

	second, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)
	assert.Equal(t, first.ResultID, second.ResultID)
	assert.False(t, second.Created)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_CacheFailureIsIgnored(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()
	redisMock.ExpectDel(catalog.LearnerResultsKey("u1")).SetErr(errors.New("READONLY"))
	expectUpsert(mock, true)

	h := NewHandler(LoadConfig(), catalog.NewPostgresRepository(db), rdb, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), createInput())
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_UpsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO assessment_results`).WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	h := NewHandler(&Config{Timeout: time.Second}, catalog.NewPostgresRepository(db), nil, logger.NewTestLogger(t))
	_, err = h.Execute(context.Background(), createInput())
	require.Error(t, err)

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeResultUpsertFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Contains(t, stdErr.Details, "deadlock detected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_BlankIdentifiers(t *testing.T) {
	h := NewHandler(LoadConfig(), nil, nil, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{UserID: "  ", AssessmentID: "a1"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidAssessmentInput, apperrors.Normalize(err).Code)

	_, err = h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseInput(t *testing.T) {
	_, err := parseInput(`{"userId":"u1","assessmentId":"a1","recommendedCourseIds":["c1"]}`)
	assert.NoError(t, err)

	_, err = parseInput(`{"userId":"u1","recommendedCourseIds":[]}`)
	assert.Error(t, err)
}
