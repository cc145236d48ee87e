package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"campaignqa-srv/config"

	_ "modernc.org/sqlite" // SQLite driver
)

// Connect opens the local SQLite store. SQLite allows one writer, so the pool holds a single
// connection and every statement serializes through it.
func Connect(ctx context.Context, cfg config.SQLiteConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return db, nil
}
