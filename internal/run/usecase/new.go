package usecase

import (
	"sync"
	"time"

	"campaignqa-srv/internal/check"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
	"campaignqa-srv/pkg/discord"
	"campaignqa-srv/pkg/log"
	"campaignqa-srv/pkg/minio"

	"golang.org/x/sync/semaphore"
)

const (
	tracerName = "campaignqa-srv/internal/run/usecase"

	defaultTier1Timeout        = 3 * time.Second
	defaultCheckTimeout        = 20 * time.Second
	defaultRunConcurrency      = 6
	defaultMaxConcurrentChecks = 64
	defaultStaleAfter          = 10 * time.Minute
	defaultArchiveBucket       = "campaignqa-reports"
	defaultDownloadExpiry      = 30 * time.Minute
)

// Config holds the executor limits and report settings.
type Config struct {
	Tier1Timeout time.Duration
	// CheckTimeout is the deadline of each Tier 2 check.
	CheckTimeout time.Duration
	// RunConcurrency bounds Tier 2 checks in flight for one run.
	RunConcurrency int
	// MaxConcurrentChecks bounds Tier 2 checks in flight across all runs of the process.
	MaxConcurrentChecks int64
	StaleAfter          time.Duration

	PublicBaseURL  string
	ArchiveBucket  string
	DownloadExpiry time.Duration
}

type implUseCase struct {
	l        log.Logger
	repo     repository.Repository
	cache    repository.StatusCache
	registry *check.Registry
	producer run.Producer
	storage  minio.MinIO
	discord  discord.IDiscord
	hub      *hub
	cfg      Config

	sem *semaphore.Weighted
	wg  sync.WaitGroup
	now func() time.Time
}

// New creates the run UseCase. cache, producer, storage and discord are optional and may be nil.
func New(
	l log.Logger,
	repo repository.Repository,
	cache repository.StatusCache,
	registry *check.Registry,
	producer run.Producer,
	storage minio.MinIO,
	discord discord.IDiscord,
	cfg Config,
) run.UseCase {
	if cfg.Tier1Timeout <= 0 {
		cfg.Tier1Timeout = defaultTier1Timeout
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = defaultCheckTimeout
	}
	if cfg.RunConcurrency <= 0 {
		cfg.RunConcurrency = defaultRunConcurrency
	}
	if cfg.MaxConcurrentChecks <= 0 {
		cfg.MaxConcurrentChecks = defaultMaxConcurrentChecks
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = defaultStaleAfter
	}
	if cfg.ArchiveBucket == "" {
		cfg.ArchiveBucket = defaultArchiveBucket
	}
	if cfg.DownloadExpiry <= 0 {
		cfg.DownloadExpiry = defaultDownloadExpiry
	}

	return &implUseCase{
		l:        l,
		repo:     repo,
		cache:    cache,
		registry: registry,
		producer: producer,
		storage:  storage,
		discord:  discord,
		hub:      newHub(),
		cfg:      cfg,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrentChecks),
		now:      func() time.Time { return time.Now().UTC() },
	}
}
