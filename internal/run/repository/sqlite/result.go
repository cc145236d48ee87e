package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run/repository"
)

func (r *implRepository) SaveResults(ctx context.Context, results []model.CheckResult) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("SaveResults: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, res := range results {
		items := res.AffectedItems
		if items == nil {
			items = []string{}
		}
		itemsJSON, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("SaveResults marshal items %s: %w", res.CheckID, err)
		}
		metadata, err := json.Marshal(res.Metadata)
		if err != nil {
			return fmt.Errorf("SaveResults marshal metadata %s: %w", res.CheckID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO check_results (run_id, check_id, check_name, check_category, platform, status, severity,
				message, recommendation, affected_items, metadata, execution_ms, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (run_id, check_id) DO NOTHING`,
			res.RunID, res.CheckID, res.CheckName, string(res.Category), res.Platform, string(res.Status),
			string(res.Severity), res.Message, nullable(res.Recommendation),
			string(itemsJSON), string(metadata), res.ExecutionMS, now,
		); err != nil {
			return fmt.Errorf("SaveResults insert %s: %w", res.CheckID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("SaveResults commit: %w", err)
	}
	return nil
}

func (r *implRepository) ListResults(ctx context.Context, runID string) ([]model.CheckResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, check_id, check_name, check_category, platform, status, severity, message,
			recommendation, affected_items, metadata, execution_ms, created_at
		FROM check_results
		WHERE run_id = ?
		ORDER BY created_at, check_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("ListResults: %w", err)
	}
	defer rows.Close()

	var results []model.CheckResult
	for rows.Next() {
		var res model.CheckResult
		var recommendation sql.NullString
		var items, metadata string
		if err := rows.Scan(
			&res.RunID, &res.CheckID, &res.CheckName, &res.Category, &res.Platform, &res.Status, &res.Severity,
			&res.Message, &recommendation, &items, &metadata, &res.ExecutionMS, &res.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ListResults scan: %w", err)
		}
		res.Recommendation = recommendation.String
		if err := json.Unmarshal([]byte(items), &res.AffectedItems); err != nil {
			return nil, fmt.Errorf("ListResults decode affected_items: %w", err)
		}
		if res.AffectedItems == nil {
			res.AffectedItems = []string{}
		}
		if err := json.Unmarshal([]byte(metadata), &res.Metadata); err != nil {
			return nil, fmt.Errorf("ListResults decode metadata: %w", err)
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

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
