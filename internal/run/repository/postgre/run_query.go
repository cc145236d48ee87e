package postgre

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
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

// scanRun - Scan one qa_runs row selected with runColumns
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

// buildListRunsQuery - Build query and args for ListRuns
func buildListRunsQuery(opt repository.ListRunsOptions) (string, []any) {
	query := `SELECT ` + runColumns + ` FROM qa_runs WHERE user_id = $1 ORDER BY created_at DESC, id`
	args := []any{opt.UserID}
	argIdx := 2

	if opt.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, opt.Limit)
		argIdx++
	}
	if opt.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, opt.Offset)
	}
	return query, args
}

// buildBenchmarkQuery - Build the pass-rate aggregate over completed runs
func buildBenchmarkQuery(opt repository.BenchmarkOptions) (string, []any) {
	query := `
		SELECT cr.check_id, MIN(cr.check_category),
			COUNT(*) FILTER (WHERE cr.status = 'passed'),
			COUNT(*),
			COUNT(DISTINCT q.user_id)
		FROM check_results cr
		JOIN qa_runs q ON q.id = cr.run_id
		WHERE q.status = 'completed' AND cr.status IN ('passed', 'failed', 'warning')`
	var args []any
	argIdx := 1

	if opt.Platform != "" && opt.Platform != model.PlatformUniversal {
		query += fmt.Sprintf(" AND q.platform = $%d", argIdx)
		args = append(args, string(opt.Platform))
		argIdx++
	}
	if opt.IndustryVertical != "" {
		query += fmt.Sprintf(" AND q.industry_vertical = $%d", argIdx)
		args = append(args, opt.IndustryVertical)
		argIdx++
	}

	query += fmt.Sprintf(" GROUP BY cr.check_id HAVING COUNT(DISTINCT q.user_id) >= $%d ORDER BY cr.check_id", argIdx)
	args = append(args, opt.MinOwners)
	return query, args
}

func marshalParsed(p model.ParsedURL) (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// passRate - Percentage rounded to one decimal
func passRate(passed, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(passed)*1000/float64(total)) / 10
}
