package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS qa_runs (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    run_name TEXT NOT NULL,
    platform TEXT NOT NULL,
    input_method TEXT NOT NULL DEFAULT 'manual',
    raw_input TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    progress_pct INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    total_checks INTEGER NOT NULL DEFAULT 0,
    passed_checks INTEGER NOT NULL DEFAULT 0,
    failed_checks INTEGER NOT NULL DEFAULT 0,
    warning_checks INTEGER NOT NULL DEFAULT 0,
    readiness_score REAL,
    share_token TEXT UNIQUE,
    is_public INTEGER NOT NULL DEFAULT 0,
    industry_vertical TEXT,
    campaign_objective TEXT,
    created_at DATETIME NOT NULL,
    started_at DATETIME,
    completed_at DATETIME,
    updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS campaign_urls (
    run_id TEXT NOT NULL REFERENCES qa_runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    raw_url TEXT NOT NULL,
    parsed_url TEXT,
    parse_error TEXT,
    ad_name TEXT,
    ad_set_name TEXT,
    campaign_name TEXT,
    PRIMARY KEY (run_id, position)
);

CREATE TABLE IF NOT EXISTS check_results (
    run_id TEXT NOT NULL REFERENCES qa_runs(id) ON DELETE CASCADE,
    check_id TEXT NOT NULL,
    check_name TEXT NOT NULL,
    check_category TEXT NOT NULL,
    platform TEXT NOT NULL,
    status TEXT NOT NULL,
    severity TEXT NOT NULL,
    message TEXT NOT NULL,
    recommendation TEXT,
    affected_items TEXT NOT NULL DEFAULT '[]',
    metadata TEXT NOT NULL DEFAULT '{}',
    execution_ms INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL,
    PRIMARY KEY (run_id, check_id)
);

CREATE INDEX IF NOT EXISTS idx_qa_runs_user_created ON qa_runs(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_qa_runs_status_started ON qa_runs(status, started_at);
`

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply SQLite schema: %w", err)
	}
	return nil
}
