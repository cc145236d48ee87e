package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/internal/run/repository"
)

// SetShare toggles public access to a run's report. The token is minted on the first enable
// and kept when sharing is turned off, so re-enabling restores the same link.
func (uc *implUseCase) SetShare(ctx context.Context, sc model.Scope, input run.ShareInput) (run.ShareOutput, error) {
	r, err := uc.getRun(ctx, sc, input.RunID)
	if err != nil {
		return run.ShareOutput{}, err
	}

	var token string
	if input.IsPublic && r.ShareToken == "" {
		token, err = newShareToken()
		if err != nil {
			uc.l.Errorf(ctx, "run.usecase.SetShare: newShareToken failed: %v", err)
			return run.ShareOutput{}, run.ErrShareTokenFailed
		}
	}

	r, err = uc.repo.UpdateShare(ctx, repository.UpdateShareOptions{
		RunID:      r.ID,
		UserID:     sc.UserID,
		IsPublic:   input.IsPublic,
		ShareToken: token,
	})
	if err != nil {
		uc.l.Errorf(ctx, "run.usecase.SetShare: repo.UpdateShare failed: %v", err)
		return run.ShareOutput{}, err
	}

	out := run.ShareOutput{
		RunID:      r.ID,
		IsPublic:   r.IsPublic,
		ShareToken: r.ShareToken,
	}
	if r.IsPublic {
		out.ShareURL = uc.shareURL(r.ShareToken)
	}
	return out, nil
}

// GetBadge renders the shields.io payload of a shared run.
func (uc *implUseCase) GetBadge(ctx context.Context, input run.SharedInput) (run.Badge, error) {
	r, err := uc.getSharedRun(ctx, input.Token)
	if err != nil {
		return run.Badge{}, err
	}
	return badgeFor(r), nil
}

func badgeFor(r model.Run) run.Badge {
	b := run.Badge{SchemaVersion: 1, Label: run.BadgeLabel}
	switch {
	case r.Status == model.RunStatusFailed:
		b.Message, b.Color = "failed", "red"
	case !r.Status.IsTerminal() || r.ReadinessScore == nil:
		b.Message, b.Color = "running…", "lightgrey"
	default:
		score := math.Round(*r.ReadinessScore)
		b.Message = fmt.Sprintf("%d/100", int(score))
		switch {
		case score >= 80:
			b.Color = "brightgreen"
		case score >= 60:
			b.Color = "yellow"
		default:
			b.Color = "red"
		}
	}
	return b
}

func newShareToken() (string, error) {
	buf := make([]byte, run.ShareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
