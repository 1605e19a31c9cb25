// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"course-recommendation-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a pooled connection. It does not dial; call Ping.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

// Ping tests the database connection
func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// Close closes the database connection
func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// EnsureSchema creates the recommendation tables when they do not exist.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	return WithTx(ctx, c.DB, func(tx *sql.Tx) error {
		for _, stmt := range schemaStatements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("apply schema: %w", err)
			}
		}
		return nil
	})
}

// WithTx runs fn inside a transaction, committing when fn returns nil and
// rolling back otherwise.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id               TEXT PRIMARY KEY,
		title            TEXT NOT NULL,
		code             TEXT NOT NULL DEFAULT '',
		description      TEXT NOT NULL DEFAULT '',
		level            TEXT NOT NULL DEFAULT 'beginner',
		duration         TEXT NOT NULL DEFAULT '',
		career_pathways  TEXT[] NOT NULL DEFAULT '{}',
		requirements     TEXT[] NOT NULL DEFAULT '{}',
		skills_developed TEXT[] NOT NULL DEFAULT '{}',
		is_active        BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS learner_profiles (
		user_id          TEXT PRIMARY KEY,
		skills           TEXT[] NOT NULL DEFAULT '{}',
		experience_level TEXT NOT NULL DEFAULT 'beginner'
	)`,
	`CREATE TABLE IF NOT EXISTS enrollments (
		user_id   TEXT NOT NULL,
		course_id TEXT NOT NULL REFERENCES courses(id),
		PRIMARY KEY (user_id, course_id)
	)`,
	`CREATE TABLE IF NOT EXISTS assessment_results (
		id                     UUID PRIMARY KEY,
		user_id                TEXT NOT NULL,
		assessment_id          TEXT NOT NULL,
		career_pathways        TEXT[] NOT NULL DEFAULT '{}',
		recommended_course_ids TEXT[] NOT NULL DEFAULT '{}',
		scores                 JSONB,
		created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at             TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, assessment_id)
	)`,
	`CREATE TABLE IF NOT EXISTS audit_log (
		id          UUID PRIMARY KEY,
		entity_type TEXT NOT NULL,
		entity_id   TEXT NOT NULL,
		action      TEXT NOT NULL,
		actor_id    TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id    TEXT PRIMARY KEY,
		email TEXT,
		phone TEXT
	)`,
}
