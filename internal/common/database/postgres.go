package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"recruit-scoring/internal/common/config"

	_ "github.com/lib/pq"
)

type PostgresClient struct {
	DB *sql.DB
}

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

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// schemaStatements create the tables the direct-database backend reads and
// writes. Candidate tables are normally owned by the recruitment backend;
// IF NOT EXISTS keeps this safe against an existing schema.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS scoring_config (
		id          SMALLINT PRIMARY KEY DEFAULT 1,
		weights     JSONB NOT NULL,
		is_custom   BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT scoring_config_singleton CHECK (id = 1)
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id                   TEXT PRIMARY KEY,
		name                 TEXT NOT NULL DEFAULT '',
		email                TEXT NOT NULL DEFAULT '',
		phone                TEXT NOT NULL DEFAULT '',
		city                 TEXT NOT NULL DEFAULT '',
		education_level      TEXT NOT NULL DEFAULT '',
		skills               TEXT NOT NULL DEFAULT '',
		certifications       TEXT NOT NULL DEFAULT '',
		courses              TEXT NOT NULL DEFAULT '',
		own_transportation   TEXT NOT NULL DEFAULT '',
		travel_availability  TEXT NOT NULL DEFAULT '',
		height_painting      TEXT NOT NULL DEFAULT '',
		availability_start   TEXT NOT NULL DEFAULT '',
		currently_employed   TEXT NOT NULL DEFAULT '',
		profile_completeness DOUBLE PRECISION
	)`,
	`CREATE TABLE IF NOT EXISTS professional_experiences (
		id           TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		company      TEXT NOT NULL DEFAULT '',
		role         TEXT NOT NULL DEFAULT '',
		start_date   TEXT NOT NULL DEFAULT '',
		end_date     TEXT,
		leave_reason TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS interviews (
		id           TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
		status       TEXT NOT NULL DEFAULT '',
		rating       DOUBLE PRECISION,
		feedback     TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS score_recalculation_requests (
		id           TEXT PRIMARY KEY,
		requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status       TEXT NOT NULL DEFAULT 'pending'
	)`,
}

// EnsureSchema creates any missing scoring tables in one transaction.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
