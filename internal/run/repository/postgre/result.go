package postgre

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run/repository"

	"github.com/aarondl/null/v8"
	"github.com/lib/pq"
)

// SaveResults - Insert check results, keeping the first result of each (run_id, check_id)
func (r *implRepository) SaveResults(ctx context.Context, results []model.CheckResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveResults: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO check_results (run_id, check_id, check_name, check_category, platform, status, severity,
			message, recommendation, affected_items, metadata, execution_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (run_id, check_id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("SaveResults prepare: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, res := range results {
		metadata, err := json.Marshal(res.Metadata)
		if err != nil {
			return fmt.Errorf("SaveResults marshal metadata %s: %w", res.CheckID, err)
		}
		items := res.AffectedItems
		if items == nil {
			items = []string{}
		}
		if _, err := stmt.ExecContext(ctx,
			res.RunID, res.CheckID, res.CheckName, string(res.Category), res.Platform, string(res.Status),
			string(res.Severity), res.Message, null.NewString(res.Recommendation, res.Recommendation != ""),
			pq.Array(items), string(metadata), res.ExecutionMS, now,
		); err != nil {
			return fmt.Errorf("SaveResults insert %s: %w", res.CheckID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SaveResults commit: %w", err)
	}
	return nil
}

// ListResults - List the results of a run in insertion order
func (r *implRepository) ListResults(ctx context.Context, runID string) ([]model.CheckResult, error) {
	query := `
		SELECT run_id, check_id, check_name, check_category, platform, status, severity, message,
			recommendation, affected_items, metadata, execution_ms, created_at
		FROM check_results
		WHERE run_id = $1
		ORDER BY created_at, check_id
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("ListResults: %w", err)
	}
	defer rows.Close()

	var results []model.CheckResult
	for rows.Next() {
		var res model.CheckResult
		var recommendation null.String
		var metadata []byte
		if err := rows.Scan(
			&res.RunID, &res.CheckID, &res.CheckName, &res.Category, &res.Platform, &res.Status, &res.Severity,
			&res.Message, &recommendation, pq.Array(&res.AffectedItems), &metadata, &res.ExecutionMS, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListResults scan: %w", err)
		}
		res.Recommendation = recommendation.String
		if res.AffectedItems == nil {
			res.AffectedItems = []string{}
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &res.Metadata); err != nil {
				return nil, fmt.Errorf("ListResults decode metadata: %w", err)
			}
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// Benchmark - Pass rates per check over completed runs with enough distinct owners
func (r *implRepository) Benchmark(ctx context.Context, opt repository.BenchmarkOptions) ([]model.BenchmarkStat, error) {
	query, args := buildBenchmarkQuery(opt)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("Benchmark: %w", err)
	}
	defer rows.Close()

	var stats []model.BenchmarkStat
	for rows.Next() {
		var s model.BenchmarkStat
		var passed int
		if err := rows.Scan(&s.CheckID, &s.Category, &passed, &s.CheckCount, &s.OwnerCount); err != nil {
			return nil, fmt.Errorf("Benchmark scan: %w", err)
		}
		s.PassRatePct = passRate(passed, s.CheckCount)
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
