package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run/repository"
	pkgRedis "campaignqa-srv/pkg/redis"
)

// statusEntry is the cached projection of a run. It carries only what a status poll returns
// plus the owner for scoping.
type statusEntry struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Status         model.RunStatus `json:"status"`
	ProgressPct    int             `json:"progress_pct"`
	TotalChecks    int             `json:"total_checks"`
	PassedChecks   int             `json:"passed_checks"`
	FailedChecks   int             `json:"failed_checks"`
	WarningChecks  int             `json:"warning_checks"`
	ReadinessScore *float64        `json:"readiness_score,omitempty"`
	ErrorMessage   string          `json:"error_message,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// GetStatus - Read a cached status snapshot
func (c *implStatusCache) GetStatus(ctx context.Context, runID string) (model.Run, error) {
	raw, err := c.client.Get(ctx, statusKey(runID))
	if errors.Is(err, pkgRedis.ErrKeyNotFound) {
		return model.Run{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Run{}, fmt.Errorf("GetStatus: %w", err)
	}

	var e statusEntry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return model.Run{}, fmt.Errorf("GetStatus decode: %w", err)
	}
	return model.Run{
		ID:             e.ID,
		UserID:         e.UserID,
		Status:         e.Status,
		ProgressPct:    e.ProgressPct,
		TotalChecks:    e.TotalChecks,
		PassedChecks:   e.PassedChecks,
		FailedChecks:   e.FailedChecks,
		WarningChecks:  e.WarningChecks,
		ReadinessScore: e.ReadinessScore,
		ErrorMessage:   e.ErrorMessage,
		UpdatedAt:      e.UpdatedAt,
	}, nil
}

// SetStatus - Cache the status snapshot of a run
func (c *implStatusCache) SetStatus(ctx context.Context, r model.Run) error {
	body, err := json.Marshal(statusEntry{
		ID:             r.ID,
		UserID:         r.UserID,
		Status:         r.Status,
		ProgressPct:    r.ProgressPct,
		TotalChecks:    r.TotalChecks,
		PassedChecks:   r.PassedChecks,
		FailedChecks:   r.FailedChecks,
		WarningChecks:  r.WarningChecks,
		ReadinessScore: r.ReadinessScore,
		ErrorMessage:   r.ErrorMessage,
		UpdatedAt:      r.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("SetStatus encode: %w", err)
	}
	if err := c.client.Set(ctx, statusKey(r.ID), body, c.ttl); err != nil {
		return fmt.Errorf("SetStatus: %w", err)
	}
	return nil
}

// DeleteStatus - Drop cached snapshots
func (c *implStatusCache) DeleteStatus(ctx context.Context, runIDs ...string) error {
	if len(runIDs) == 0 {
		return nil
	}
	keys := make([]string, len(runIDs))
	for i, id := range runIDs {
		keys[i] = statusKey(id)
	}
	if err := c.client.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("DeleteStatus: %w", err)
	}
	return nil
}
