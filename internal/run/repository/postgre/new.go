package postgre

import (
	"context"
	"database/sql"

	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/pkg/log"
)

type implRepository struct {
	db *sql.DB
	l  log.Logger
}

// New - Factory function
func New(db *sql.DB, l log.Logger) repository.Repository {
	return &implRepository{
		db: db,
		l:  l,
	}
}

func (r *implRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
