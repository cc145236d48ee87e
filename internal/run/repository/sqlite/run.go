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

func (r *implRepository) CreateRun(ctx context.Context, opt repository.CreateRunOptions) (model.Run, error) {
	row := opt.Run.ToRunRow()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Run{}, fmt.Errorf("CreateRun: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rawInput any
	if row.RawInput.Valid {
		rawInput = string(row.RawInput.JSON)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO qa_runs (id, user_id, run_name, platform, input_method, raw_input, status, progress_pct,
			industry_vertical, campaign_objective, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		row.ID, row.UserID, row.Name, row.Platform, row.InputMethod, rawInput, row.Status,
		row.IndustryVertical, row.CampaignObjective, row.CreatedAt.UTC(), row.CreatedAt.UTC(),
	); err != nil {
		return model.Run{}, fmt.Errorf("CreateRun: %w", err)
	}

	for _, u := range opt.URLs {
		parsed, err := json.Marshal(u.Parsed)
		if err != nil {
			return model.Run{}, fmt.Errorf("CreateRun marshal url %d: %w", u.Position, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO campaign_urls (run_id, position, raw_url, parsed_url, parse_error, ad_name, ad_set_name, campaign_name)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			row.ID, u.Position, u.RawURL, string(parsed), nullable(u.ParseError),
			nullable(u.AdName), nullable(u.AdSetName), nullable(u.CampaignName),
		); err != nil {
			return model.Run{}, fmt.Errorf("CreateRun insert url %d: %w", u.Position, err)
		}
	}

	// RETURNING columns carry no declared type, so DATETIME values are read back with a plain select.
	run, err := scanRun(tx.QueryRowContext(ctx, `SELECT `+runColumns+` FROM qa_runs WHERE id = ?`, row.ID))
	if err != nil {
		return model.Run{}, fmt.Errorf("CreateRun: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Run{}, fmt.Errorf("CreateRun commit: %w", err)
	}
	return run, nil
}

func (r *implRepository) GetRun(ctx context.Context, opt repository.GetRunOptions) (model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM qa_runs WHERE id = ?`
	args := []any{opt.ID}
	if opt.UserID != "" {
		query += ` AND user_id = ?`
		args = append(args, opt.UserID)
	}

	run, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Run{}, fmt.Errorf("GetRun: %w", err)
	}
	return run, nil
}

func (r *implRepository) GetRunByShareToken(ctx context.Context, token string) (model.Run, error) {
	run, err := scanRun(r.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM qa_runs WHERE share_token = ?`, token))
	if err != nil {
		return model.Run{}, fmt.Errorf("GetRunByShareToken: %w", err)
	}
	return run, nil
}

func (r *implRepository) ListRuns(ctx context.Context, opt repository.ListRunsOptions) ([]model.Run, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM qa_runs WHERE user_id = ?`, opt.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListRuns count: %w", err)
	}

	limit := opt.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM qa_runs WHERE user_id = ? ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		opt.UserID, limit, opt.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRuns: %w", err)
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListRuns scan: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

func (r *implRepository) ListURLs(ctx context.Context, runID string) ([]model.CampaignURL, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, position, raw_url, parsed_url, parse_error, ad_name, ad_set_name, campaign_name
		FROM campaign_urls WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("ListURLs: %w", err)
	}
	defer rows.Close()

	var urls []model.CampaignURL
	for rows.Next() {
		var u model.CampaignURL
		var parsed, parseErr, adName, adSetName, campaignName sql.NullString
		if err := rows.Scan(&u.RunID, &u.Position, &u.RawURL, &parsed, &parseErr, &adName, &adSetName, &campaignName); err != nil {
			return nil, fmt.Errorf("ListURLs scan: %w", err)
		}
		if parsed.String != "" {
			if err := json.Unmarshal([]byte(parsed.String), &u.Parsed); err != nil {
				return nil, fmt.Errorf("ListURLs decode parsed_url: %w", err)
			}
		}
		u.ParseError = parseErr.String
		u.AdName = adName.String
		u.AdSetName = adSetName.String
		u.CampaignName = campaignName.String
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

func (r *implRepository) MarkRunning(ctx context.Context, runID string, startedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE qa_runs SET status = 'running', started_at = ?, updated_at = ? WHERE id = ? AND status = 'pending'`,
		startedAt.UTC(), startedAt.UTC(), runID,
	)
	if err != nil {
		return fmt.Errorf("MarkRunning: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkRunning: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *implRepository) UpdateProgress(ctx context.Context, opt repository.UpdateProgressOptions) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE qa_runs
		SET progress_pct = MAX(progress_pct, ?),
			total_checks = ?, passed_checks = ?, failed_checks = ?, warning_checks = ?,
			updated_at = ?
		WHERE id = ? AND status = 'running'`,
		opt.ProgressPct, opt.TotalChecks, opt.PassedChecks, opt.FailedChecks, opt.WarningChecks,
		time.Now().UTC(), opt.RunID,
	)
	if err != nil {
		return fmt.Errorf("UpdateProgress: %w", err)
	}
	return nil
}

func (r *implRepository) FinalizeRun(ctx context.Context, opt repository.FinalizeRunOptions) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE qa_runs
		SET status = 'completed', progress_pct = 100,
			total_checks = ?, passed_checks = ?, failed_checks = ?, warning_checks = ?,
			readiness_score = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND status = 'running'`,
		opt.TotalChecks, opt.PassedChecks, opt.FailedChecks, opt.WarningChecks,
		opt.ReadinessScore, opt.CompletedAt.UTC(), opt.CompletedAt.UTC(), opt.RunID,
	)
	if err != nil {
		return false, fmt.Errorf("FinalizeRun: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("FinalizeRun: %w", err)
	}
	return n == 1, nil
}

func (r *implRepository) FailRun(ctx context.Context, opt repository.FailRunOptions) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE qa_runs
		SET status = 'failed', error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND status IN ('pending', 'running')`,
		opt.ErrorMessage, opt.FailedAt.UTC(), opt.FailedAt.UTC(), opt.RunID,
	)
	if err != nil {
		return false, fmt.Errorf("FailRun: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("FailRun: %w", err)
	}
	return n == 1, nil
}

func (r *implRepository) FailStaleRuns(ctx context.Context, opt repository.FailStaleRunsOptions) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		UPDATE qa_runs
		SET status = 'failed', error_message = ?, completed_at = ?, updated_at = ?
		WHERE (status = 'running' AND started_at < ?) OR (status = 'pending' AND created_at < ?)
		RETURNING id`,
		opt.ErrorMessage, opt.FailedAt.UTC(), opt.FailedAt.UTC(), opt.Before.UTC(), opt.Before.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("FailStaleRuns: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("FailStaleRuns scan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *implRepository) UpdateShare(ctx context.Context, opt repository.UpdateShareOptions) (model.Run, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE qa_runs
		SET is_public = ?, share_token = COALESCE(share_token, ?), updated_at = ?
		WHERE id = ? AND user_id = ?`,
		opt.IsPublic, nullable(opt.ShareToken), time.Now().UTC(), opt.RunID, opt.UserID,
	)
	if err != nil {
		return model.Run{}, fmt.Errorf("UpdateShare: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Run{}, fmt.Errorf("UpdateShare: %w", repository.ErrNotFound)
	}
	return r.GetRun(ctx, repository.GetRunOptions{ID: opt.RunID, UserID: opt.UserID})
}
