package redis

import (
	"time"

	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/pkg/log"
	pkgRedis "campaignqa-srv/pkg/redis"
)

const (
	keyPrefix  = "campaignqa:run:status:"
	defaultTTL = 15 * time.Minute
)

type implStatusCache struct {
	client pkgRedis.IRedis
	ttl    time.Duration
	l      log.Logger
}

// New - Factory function. A zero ttl falls back to 15 minutes.
func New(client pkgRedis.IRedis, ttl time.Duration, l log.Logger) repository.StatusCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &implStatusCache{
		client: client,
		ttl:    ttl,
		l:      l,
	}
}

func statusKey(runID string) string {
	return keyPrefix + runID
}
