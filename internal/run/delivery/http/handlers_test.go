package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/pkg/log"

	"github.com/gin-gonic/gin"
)

// stubUseCase overrides the operations under test; anything else panics through the nil interface.
type stubUseCase struct {
	run.UseCase

	submitErr error
	submitted run.SubmitInput
	badge     run.Badge
	badgeErr  error
	reportErr error
}

func (s *stubUseCase) Submit(_ context.Context, sc model.Scope, input run.SubmitInput) (run.SubmitOutput, error) {
	s.submitted = input
	if s.submitErr != nil {
		return run.SubmitOutput{}, s.submitErr
	}
	return run.SubmitOutput{
		Run:     model.Run{ID: "run-1", UserID: sc.UserID, Name: input.RunName, Status: model.RunStatusRunning},
		Message: "Tier 1 complete",
	}, nil
}

func (s *stubUseCase) GetBadge(context.Context, run.SharedInput) (run.Badge, error) {
	return s.badge, s.badgeErr
}

func (s *stubUseCase) GetReport(context.Context, model.Scope, run.GetRunInput) (run.ReportOutput, error) {
	return run.ReportOutput{}, s.reportErr
}

func newTestHandler(uc run.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &handler{l: log.NewNop(), uc: uc}

	r := gin.New()
	r.POST("/runs", h.Submit)
	r.GET("/runs/:run_id/report", h.GetReport)
	r.GET("/reports/share/:token/badge", h.GetBadge)
	return r
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid JSON %s: %v", body, err)
	}
	return out
}

func TestSubmitHandler(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		submitErr error
		wantCode  int
	}{
		{
			name:     "accepted",
			body:     `{"run_name":"Spring","platform":"meta","urls":[{"url":"https://shop.example.com/?utm_source=fb"}]}`,
			wantCode: http.StatusOK,
		},
		{name: "malformed body", body: `{"run_name":`, wantCode: http.StatusBadRequest},
		{
			name:      "too many urls",
			body:      `{"run_name":"Spring","platform":"meta","urls":[]}`,
			submitErr: run.ErrTooManyURLs,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "invalid platform",
			body:      `{"run_name":"Spring","platform":"myspace","urls":[{"url":"https://a.example"}]}`,
			submitErr: run.ErrInvalidPlatform,
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "unexpected failure",
			body:      `{"run_name":"Spring","platform":"meta","urls":[{"url":"https://a.example"}]}`,
			submitErr: fmt.Errorf("store down"),
			wantCode:  http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{submitErr: tt.submitErr}
			r := newTestHandler(uc)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/runs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if tt.wantCode == http.StatusOK {
				if uc.submitted.Platform != model.PlatformMeta || len(uc.submitted.URLs) != 1 {
					t.Errorf("submitted input = %+v", uc.submitted)
				}
				env := decodeEnvelope(t, w.Body.Bytes())
				if env["error_code"] != float64(0) || env["data"] == nil {
					t.Errorf("envelope = %v", env)
				}
			}
		})
	}
}

func TestGetReportHandlerMapsErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "not found", err: run.ErrRunNotFound, wantCode: http.StatusNotFound},
		{name: "still running", err: run.ErrRunNotCompleted, wantCode: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestHandler(&stubUseCase{reportErr: tt.err})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/runs/run-1/report", nil))

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantCode)
			}
			env := decodeEnvelope(t, w.Body.Bytes())
			if env["error_code"] != float64(tt.wantCode) {
				t.Errorf("error_code = %v, want %d", env["error_code"], tt.wantCode)
			}
		})
	}
}

func TestGetBadgeIsNotEnveloped(t *testing.T) {
	badge := run.Badge{SchemaVersion: 1, Label: run.BadgeLabel, Message: "92/100", Color: "brightgreen"}
	r := newTestHandler(&stubUseCase{badge: badge})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/share/tok/badge", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got != "max-age=300" {
		t.Errorf("Cache-Control = %q", got)
	}
	var got run.Badge
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != badge {
		t.Errorf("badge = %+v, want %+v", got, badge)
	}

	t.Run("unknown token", func(t *testing.T) {
		r := newTestHandler(&stubUseCase{badgeErr: run.ErrRunNotFound})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/share/nope/badge", nil))
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}
