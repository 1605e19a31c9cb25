package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-recommendation-workers/internal/common/config"
)

// ==========================
// Postgres
// ==========================

func TestWithTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE courses").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = WithTx(context.Background(), db, func(tx *sql.Tx) error {
			_, err := tx.Exec("UPDATE courses SET is_active = false WHERE id = $1", "c1")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		boom := errors.New("boom")
		mock.ExpectBegin()
		mock.ExpectRollback()

		err = WithTx(context.Background(), db, func(tx *sql.Tx) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))
		err = WithTx(context.Background(), db, func(tx *sql.Tx) error { return nil })
		assert.ErrorContains(t, err, "begin transaction")
	})
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	for range schemaStatements {
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectCommit()

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Redis
// ==========================

type cachedCourse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

func TestJSONHelpers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	var got []cachedCourse
	found, err := GetJSON(ctx, rdb, "catalog:active", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := []cachedCourse{{ID: "c1", Title: "Data Science 101"}}
	require.NoError(t, SetJSON(ctx, rdb, "catalog:active", want, time.Minute))

	found, err = GetJSON(ctx, rdb, "catalog:active", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	mr.FastForward(2 * time.Minute)
	found, err = GetJSON(ctx, rdb, "catalog:active", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, mr.Set("broken", "{not json"))
	_, err = GetJSON(ctx, rdb, "broken", &got)
	assert.Error(t, err)
}

func TestNewRedis(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()))
}

// ==========================
// Elasticsearch
// ==========================

func fakeElasticsearch(t *testing.T, exists bool, created *bool) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodHead:
			if exists {
				w.WriteHeader(http.StatusOK)
			} else {
				w.WriteHeader(http.StatusNotFound)
			}
		case http.MethodPut:
			*created = true
			_, _ = w.Write([]byte(`{"acknowledged":true,"index":"courses"}`))
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureIndex(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{"creates missing index", false},
		{"keeps existing index", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created bool
			srv := fakeElasticsearch(t, tt.exists, &created)

			client, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
			require.NoError(t, err)

			got, err := client.EnsureIndex(context.Background(), "courses", CourseIndexMapping)
			require.NoError(t, err)
			assert.Equal(t, !tt.exists, got)
			assert.Equal(t, !tt.exists, created)
		})
	}
}

func TestCourseIndexMapping_NormalizesKeywords(t *testing.T) {
	var mapping struct {
		Settings struct {
			Analysis struct {
				Normalizer map[string]struct {
					Filter []string `json:"filter"`
				} `json:"normalizer"`
			} `json:"analysis"`
		} `json:"settings"`
		Mappings struct {
			Properties map[string]struct {
				Type       string `json:"type"`
				Normalizer string `json:"normalizer"`
			} `json:"properties"`
		} `json:"mappings"`
	}
	require.NoError(t, json.Unmarshal([]byte(CourseIndexMapping), &mapping))

	assert.Equal(t, []string{"lowercase"}, mapping.Settings.Analysis.Normalizer["lowercase"].Filter)
	for _, field := range []string{"career_pathways", "level"} {
		prop := mapping.Mappings.Properties[field]
		assert.Equal(t, "keyword", prop.Type, field)
		assert.Equal(t, "lowercase", prop.Normalizer, field)
	}
}
