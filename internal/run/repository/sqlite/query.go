package sqlite

import (
	"database/sql"
	"errors"
	"math"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run/repository"
)

const runColumns = `id, user_id, run_name, platform, input_method, raw_input, status, progress_pct, error_message,
	total_checks, passed_checks, failed_checks, warning_checks, readiness_score, share_token, is_public,
	industry_vertical, campaign_objective, created_at, started_at, completed_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (model.Run, error) {
	var row model.RunRow
	err := s.Scan(
		&row.ID, &row.UserID, &row.Name, &row.Platform, &row.InputMethod, &row.RawInput,
		&row.Status, &row.ProgressPct, &row.ErrorMessage,
		&row.TotalChecks, &row.PassedChecks, &row.FailedChecks, &row.WarningChecks,
		&row.ReadinessScore, &row.ShareToken, &row.IsPublic,
		&row.IndustryVertical, &row.CampaignObjective,
		&row.CreatedAt, &row.StartedAt, &row.CompletedAt, &row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Run{}, repository.ErrNotFound
	}
	if err != nil {
		return model.Run{}, err
	}
	return *model.NewRunFromRow(&row), nil
}

func buildBenchmarkQuery(opt repository.BenchmarkOptions) (string, []any) {
	query := `
		SELECT cr.check_id, MIN(cr.check_category),
			SUM(CASE WHEN cr.status = 'passed' THEN 1 ELSE 0 END),
			COUNT(*),
			COUNT(DISTINCT q.user_id)
		FROM check_results cr
		JOIN qa_runs q ON q.id = cr.run_id
		WHERE q.status = 'completed' AND cr.status IN ('passed', 'failed', 'warning')`
	var args []any

	if opt.Platform != "" && opt.Platform != model.PlatformUniversal {
		query += " AND q.platform = ?"
		args = append(args, string(opt.Platform))
	}
	if opt.IndustryVertical != "" {
		query += " AND q.industry_vertical = ?"
		args = append(args, opt.IndustryVertical)
	}

	query += " GROUP BY cr.check_id HAVING COUNT(DISTINCT q.user_id) >= ? ORDER BY cr.check_id"
	args = append(args, opt.MinOwners)
	return query, args
}

func passRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(passed)*1000/float64(total)) / 10
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
