package postgre

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run/repository"

	"github.com/aarondl/null/v8"
)

// CreateRun - Insert a run and its URLs in one transaction
func (r *implRepository) CreateRun(ctx context.Context, opt repository.CreateRunOptions) (model.Run, error) {
	row := opt.Run.ToRunRow()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Run{}, fmt.Errorf("CreateRun: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO qa_runs (id, user_id, run_name, platform, input_method, raw_input, status, progress_pct,
			industry_vertical, campaign_objective, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $10)
		RETURNING ` + runColumns

	var rawInput any
	if row.RawInput.Valid {
		rawInput = string(row.RawInput.JSON)
	}

	run, err := scanRun(tx.QueryRowContext(ctx, query,
		row.ID, row.UserID, row.Name, row.Platform, row.InputMethod, rawInput, row.Status,
		row.IndustryVertical, row.CampaignObjective, row.CreatedAt,
	))
	if err != nil {
		return model.Run{}, fmt.Errorf("CreateRun: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO campaign_urls (run_id, position, raw_url, parsed_url, parse_error, ad_name, ad_set_name, campaign_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`)
	if err != nil {
		return model.Run{}, fmt.Errorf("CreateRun prepare urls: %w", err)
	}
	defer stmt.Close()

	for _, u := range opt.URLs {
		parsed, err := marshalParsed(u.Parsed)
		if err != nil {
			return model.Run{}, fmt.Errorf("CreateRun marshal url %d: %w", u.Position, err)
		}
		if _, err := stmt.ExecContext(ctx,
			run.ID, u.Position, u.RawURL, parsed, null.NewString(u.ParseError, u.ParseError != ""),
			null.NewString(u.AdName, u.AdName != ""), null.NewString(u.AdSetName, u.AdSetName != ""),
			null.NewString(u.CampaignName, u.CampaignName != ""),
		); err != nil {
			return model.Run{}, fmt.Errorf("CreateRun insert url %d: %w", u.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Run{}, fmt.Errorf("CreateRun commit: %w", err)
	}
	return run, nil
}

// GetRun - Get a run by id, optionally scoped to its owner
func (r *implRepository) GetRun(ctx context.Context, opt repository.GetRunOptions) (model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM qa_runs WHERE id = $1`
	args := []any{opt.ID}
	if opt.UserID != "" {
		query += ` AND user_id = $2`
		args = append(args, opt.UserID)
	}

	run, err := scanRun(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return model.Run{}, fmt.Errorf("GetRun: %w", err)
	}
	return run, nil
}

// GetRunByShareToken - Get a run by its share token
func (r *implRepository) GetRunByShareToken(ctx context.Context, token string) (model.Run, error) {
	query := `SELECT ` + runColumns + ` FROM qa_runs WHERE share_token = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, token))
	if err != nil {
		return model.Run{}, fmt.Errorf("GetRunByShareToken: %w", err)
	}
	return run, nil
}

// ListRuns - List an owner's runs, newest first, with the total count
func (r *implRepository) ListRuns(ctx context.Context, opt repository.ListRunsOptions) ([]model.Run, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM qa_runs WHERE user_id = $1`, opt.UserID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListRuns count: %w", err)
	}

	query, args := buildListRunsQuery(opt)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListRuns: %w", err)
	}
	defer rows.Close()

	runs := make([]model.Run, 0, opt.Limit)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("ListRuns scan: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, total, rows.Err()
}

// ListURLs - List the URLs of a run in submission order
func (r *implRepository) ListURLs(ctx context.Context, runID string) ([]model.CampaignURL, error) {
	query := `
		SELECT run_id, position, raw_url, parsed_url, parse_error, ad_name, ad_set_name, campaign_name
		FROM campaign_urls
		WHERE run_id = $1
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("ListURLs: %w", err)
	}
	defer rows.Close()

	var urls []model.CampaignURL
	for rows.Next() {
		var u model.CampaignURL
		var parsed []byte
		var parseErr, adName, adSetName, campaignName null.String
		if err := rows.Scan(&u.RunID, &u.Position, &u.RawURL, &parsed, &parseErr, &adName, &adSetName, &campaignName); err != nil {
			return nil, fmt.Errorf("ListURLs scan: %w", err)
		}
		if len(parsed) > 0 {
			if err := json.Unmarshal(parsed, &u.Parsed); err != nil {
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

// MarkRunning - Advance a pending run to running
func (r *implRepository) MarkRunning(ctx context.Context, runID string, startedAt time.Time) error {
	query := `
		UPDATE qa_runs
		SET status = 'running', started_at = $1, updated_at = $1
		WHERE id = $2 AND status = 'pending'
	`

	res, err := r.db.ExecContext(ctx, query, startedAt, runID)
	if err != nil {
		return fmt.Errorf("MarkRunning: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkRunning: %w", repository.ErrNotFound)
	}
	return nil
}

// UpdateProgress - Flush progress and counters of a running run
func (r *implRepository) UpdateProgress(ctx context.Context, opt repository.UpdateProgressOptions) error {
	query := `
		UPDATE qa_runs
		SET progress_pct = GREATEST(progress_pct, $1),
			total_checks = $2, passed_checks = $3, failed_checks = $4, warning_checks = $5,
			updated_at = $6
		WHERE id = $7 AND status = 'running'
	`

	_, err := r.db.ExecContext(ctx, query,
		opt.ProgressPct, opt.TotalChecks, opt.PassedChecks, opt.FailedChecks, opt.WarningChecks,
		time.Now().UTC(), opt.RunID,
	)
	if err != nil {
		return fmt.Errorf("UpdateProgress: %w", err)
	}
	return nil
}

// FinalizeRun - Complete a running run with its summary
func (r *implRepository) FinalizeRun(ctx context.Context, opt repository.FinalizeRunOptions) (bool, error) {
	query := `
		UPDATE qa_runs
		SET status = 'completed', progress_pct = 100,
			total_checks = $1, passed_checks = $2, failed_checks = $3, warning_checks = $4,
			readiness_score = $5, completed_at = $6, updated_at = $6
		WHERE id = $7 AND status = 'running'
	`

	res, err := r.db.ExecContext(ctx, query,
		opt.TotalChecks, opt.PassedChecks, opt.FailedChecks, opt.WarningChecks,
		opt.ReadinessScore, opt.CompletedAt, opt.RunID,
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

// FailRun - Fail a run that has not reached a terminal state
func (r *implRepository) FailRun(ctx context.Context, opt repository.FailRunOptions) (bool, error) {
	query := `
		UPDATE qa_runs
		SET status = 'failed', error_message = $1, completed_at = $2, updated_at = $2
		WHERE id = $3 AND status IN ('pending', 'running')
	`

	res, err := r.db.ExecContext(ctx, query, opt.ErrorMessage, opt.FailedAt, opt.RunID)
	if err != nil {
		return false, fmt.Errorf("FailRun: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("FailRun: %w", err)
	}
	return n == 1, nil
}

// FailStaleRuns - Fail running or pending runs older than the cutoff
func (r *implRepository) FailStaleRuns(ctx context.Context, opt repository.FailStaleRunsOptions) ([]string, error) {
	query := `
		UPDATE qa_runs
		SET status = 'failed', error_message = $1, completed_at = $2, updated_at = $2
		WHERE (status = 'running' AND started_at < $3) OR (status = 'pending' AND created_at < $3)
		RETURNING id
	`

	rows, err := r.db.QueryContext(ctx, query, opt.ErrorMessage, opt.FailedAt, opt.Before)
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

// UpdateShare - Toggle public sharing of an owner's run
func (r *implRepository) UpdateShare(ctx context.Context, opt repository.UpdateShareOptions) (model.Run, error) {
	query := `
		UPDATE qa_runs
		SET is_public = $1, share_token = COALESCE(share_token, $2), updated_at = $3
		WHERE id = $4 AND user_id = $5
		RETURNING ` + runColumns

	run, err := scanRun(r.db.QueryRowContext(ctx, query,
		opt.IsPublic, null.NewString(opt.ShareToken, opt.ShareToken != ""), time.Now().UTC(), opt.RunID, opt.UserID,
	))
	if err != nil {
		return model.Run{}, fmt.Errorf("UpdateShare: %w", err)
	}
	return run, nil
}
