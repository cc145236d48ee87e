package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/scorer"
	"campaignqa-srv/pkg/minio"
)

// GetReportDownload returns a presigned link to the archived markdown report of a completed run.
// A report missing from the archive is rendered and uploaded first.
func (uc *implUseCase) GetReportDownload(ctx context.Context, sc model.Scope, input run.GetRunInput) (run.DownloadOutput, error) {
	if uc.storage == nil {
		return run.DownloadOutput{}, run.ErrArchiveDisabled
	}

	r, err := uc.getRun(ctx, sc, input.RunID)
	if err != nil {
		return run.DownloadOutput{}, err
	}
	if r.Status != model.RunStatusCompleted {
		return run.DownloadOutput{}, run.ErrRunNotCompleted
	}

	objectName := archiveObjectName(r)
	exists, err := uc.storage.FileExists(ctx, uc.cfg.ArchiveBucket, objectName)
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.GetReportDownload: storage.FileExists failed: %v", err)
		return run.DownloadOutput{}, err
	}
	if !exists {
		results, err := uc.repo.ListResults(ctx, r.ID)
		if err != nil {
			uc.l.Errorf(ctx, "run.usecase.GetReportDownload: repo.ListResults failed: %v", err)
			return run.DownloadOutput{}, err
		}
		if _, err := uc.archiveReport(ctx, r, results); err != nil {
			uc.l.Errorf(ctx, "run.usecase.GetReportDownload: archiveReport failed: %v", err)
			return run.DownloadOutput{}, err
		}
	}

	presigned, err := uc.storage.GetPresignedDownloadURL(ctx, &minio.PresignedURLRequest{
		BucketName: uc.cfg.ArchiveBucket,
		ObjectName: objectName,
		Expiry:     uc.cfg.DownloadExpiry,
		Filename:   fmt.Sprintf("campaign-qa-%s.md", r.ID),
	})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.GetReportDownload: storage.GetPresignedDownloadURL failed: %v", err)
		return run.DownloadOutput{}, err
	}

	return run.DownloadOutput{URL: presigned.URL, ExpiresAt: presigned.ExpiresAt}, nil
}

// archiveReport renders the report of r as markdown and uploads it.
func (uc *implUseCase) archiveReport(ctx context.Context, r model.Run, results []model.CheckResult) (*minio.FileInfo, error) {
	if err := uc.storage.EnsureBucket(ctx, uc.cfg.ArchiveBucket); err != nil {
		return nil, err
	}

	sorted := make([]model.CheckResult, len(results))
	copy(sorted, results)
	sortForReport(sorted)
	body := []byte(compileMarkdown(r, scorer.Score(sorted), sorted))

	return uc.storage.UploadFile(ctx, &minio.UploadRequest{
		BucketName:  uc.cfg.ArchiveBucket,
		ObjectName:  archiveObjectName(r),
		Reader:      bytes.NewReader(body),
		Size:        int64(len(body)),
		ContentType: "text/markdown; charset=utf-8",
		Metadata: map[string]string{
			"run_id":   r.ID,
			"platform": string(r.Platform),
		},
	})
}

func archiveObjectName(r model.Run) string {
	return fmt.Sprintf("reports/%s/%s.md", r.UserID, r.ID)
}

// compileMarkdown assembles the archived report document.
func compileMarkdown(r model.Run, s scorer.Summary, results []model.CheckResult) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", r.Name)
	fmt.Fprintf(&sb, "**Run ID:** %s\n\n", r.ID)
	fmt.Fprintf(&sb, "**Platform:** %s\n\n", r.Platform)
	if r.CompletedAt != nil {
		fmt.Fprintf(&sb, "**Completed:** %s\n\n", r.CompletedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&sb, "**Readiness score:** %.1f / 100\n\n", s.ReadinessScore)
	fmt.Fprintf(&sb, "%d passed, %d failed, %d warnings, %d errors, %d skipped\n\n",
		s.Passed, s.Failed, s.Warnings, s.Errors, s.Skipped)
	if s.Warning != "" {
		fmt.Fprintf(&sb, "> %s\n\n", s.Warning)
	}
	if len(s.CriticalFailures) > 0 {
		sb.WriteString("## Critical failures\n\n")
		for _, name := range s.CriticalFailures {
			fmt.Fprintf(&sb, "- %s\n", name)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("---\n\n")

	sb.WriteString("## Checks\n\n")
	sb.WriteString("| Status | Severity | Check | Message |\n")
	sb.WriteString("|--------|----------|-------|---------|\n")
	for _, res := range results {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s |\n", res.Status, res.Severity, res.CheckName, escapeCell(res.Message))
	}
	sb.WriteString("\n")

	for _, res := range results {
		if res.Recommendation == "" && len(res.AffectedItems) == 0 {
			continue
		}
		if res.Status == model.CheckStatusPassed || res.Status == model.CheckStatusSkipped {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", res.CheckName)
		if res.Recommendation != "" {
			fmt.Fprintf(&sb, "%s\n\n", res.Recommendation)
		}
		for _, item := range res.AffectedItems {
			fmt.Fprintf(&sb, "- `%s`\n", item)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("*Generated by campaignqa-srv.*\n")
	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
