package http

import (
	"net/http"

	"campaignqa-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// @Summary Submit a QA run
// @Description Validate and store a batch of campaign URLs, run the instant checks inline and schedule the network checks
// @Tags Run
// @Accept json
// @Produce json
// @Param body body submitRunReq true "Run submission"
// @Success 200 {object} submitRunResp
// @Failure 400 {object} response.Resp
// @Failure 401 {object} response.Resp
// @Failure 500 {object} response.Resp
// @Router /campaign-qa/api/v1/runs [post]
func (h *handler) Submit(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processSubmitRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Submit: processSubmitRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.Submit(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Submit: usecase Submit failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newSubmitRunResp(o))
}

// @Summary Submit a QA run for a user
// @Description Service-to-service submission. The run is owned by user_id and recorded with input_method api
// @Tags Internal
// @Accept json
// @Produce json
// @Param X-Service-Key header string true "Service key as service:key"
// @Param body body internalSubmitReq true "Run submission"
// @Success 200 {object} submitRunResp
// @Failure 400 {object} response.Resp
// @Failure 401 {object} response.Resp
// @Router /campaign-qa/api/v1/internal/runs [post]
func (h *handler) InternalSubmit(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processInternalSubmitRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.InternalSubmit: processInternalSubmitRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.Submit(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.InternalSubmit: usecase Submit failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newSubmitRunResp(o))
}

// @Summary List runs
// @Description List the caller's runs, newest first
// @Tags Run
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} listRunsResp
// @Failure 400 {object} response.Resp
// @Failure 401 {object} response.Resp
// @Router /campaign-qa/api/v1/runs [get]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processListRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.List: processListRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.List(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.List: usecase List failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newListRunsResp(o))
}

// @Summary Get run status
// @Description Lightweight progress poll
// @Tags Run
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} statusResp
// @Failure 404 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/{run_id}/status [get]
func (h *handler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processRunRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.GetStatus: processRunRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.GetStatus(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.GetStatus: usecase GetStatus failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newStatusResp(o))
}

// @Summary Get run report
// @Description Full report of a completed run: summary, check results ordered by severity then status, and the parsed URLs
// @Tags Run
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} reportResp
// @Failure 404 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/{run_id}/report [get]
func (h *handler) GetReport(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processRunRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.GetReport: processRunRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.GetReport(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.GetReport: usecase GetReport failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newReportResp(o))
}

// @Summary Download run report
// @Description Presigned download URL of the archived markdown report
// @Tags Run
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} downloadResp
// @Failure 404 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Failure 503 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/{run_id}/report/download [get]
func (h *handler) DownloadReport(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processRunRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.DownloadReport: processRunRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.GetReportDownload(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.DownloadReport: usecase GetReportDownload failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newDownloadResp(o))
}

// @Summary Re-run a QA run
// @Description Submit a new run from the stored input of an existing one
// @Tags Run
// @Produce json
// @Param run_id path string true "Run ID"
// @Success 200 {object} submitRunResp
// @Failure 404 {object} response.Resp
// @Failure 422 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/{run_id}/rerun [post]
func (h *handler) Rerun(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processRunRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Rerun: processRunRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.Rerun(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Rerun: usecase Rerun failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newSubmitRunResp(o))
}

// @Summary Compare two runs
// @Description Per-check diff between two completed runs
// @Tags Run
// @Produce json
// @Param a query string true "Baseline run ID"
// @Param b query string true "Candidate run ID"
// @Success 200 {object} compareResp
// @Failure 400 {object} response.Resp
// @Failure 404 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/compare [get]
func (h *handler) Compare(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processCompareRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Compare: processCompareRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.Compare(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Compare: usecase Compare failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newCompareResp(o))
}

// @Summary Share a run report
// @Description Turn public access to the report on or off
// @Tags Run
// @Accept json
// @Produce json
// @Param run_id path string true "Run ID"
// @Param body body shareReq true "Share toggle"
// @Success 200 {object} shareResp
// @Failure 400 {object} response.Resp
// @Failure 404 {object} response.Resp
// @Router /campaign-qa/api/v1/runs/{run_id}/share [patch]
func (h *handler) Share(c *gin.Context) {
	ctx := c.Request.Context()

	req, sc, err := h.processShareRequest(c)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Share: processShareRequest failed: %v", err)
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.SetShare(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Share: usecase SetShare failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newShareResp(o))
}

// @Summary Get a shared report
// @Description Public report behind a share token. Ad URLs are not included
// @Tags Share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} reportResp
// @Failure 404 {object} response.Resp
// @Failure 409 {object} response.Resp
// @Router /campaign-qa/api/v1/reports/share/{token} [get]
func (h *handler) GetSharedReport(c *gin.Context) {
	ctx := c.Request.Context()

	req := h.processSharedRequest(c)
	o, err := h.uc.GetSharedReport(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "run.delivery.http.GetSharedReport: usecase GetSharedReport failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newReportResp(o))
}

// @Summary Get a run badge
// @Description shields.io endpoint payload for a shared run
// @Tags Share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} run.Badge
// @Failure 404 {object} response.Resp
// @Router /campaign-qa/api/v1/reports/share/{token}/badge [get]
func (h *handler) GetBadge(c *gin.Context) {
	ctx := c.Request.Context()

	req := h.processSharedRequest(c)
	o, err := h.uc.GetBadge(ctx, req.toInput())
	if err != nil {
		h.l.Warnf(ctx, "run.delivery.http.GetBadge: usecase GetBadge failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	// shields.io reads the payload at the top level, so it is not wrapped.
	c.Header("Cache-Control", "max-age=300")
	c.JSON(http.StatusOK, o)
}

// @Summary List checks
// @Description Catalogue of every registered check
// @Tags Check
// @Produce json
// @Success 200 {object} checksResp
// @Router /campaign-qa/api/v1/checks [get]
func (h *handler) ListChecks(c *gin.Context) {
	response.OK(c, h.newChecksResp(h.uc.ListChecks(c.Request.Context())))
}

// @Summary Benchmark pass rates
// @Description Per-check pass rates over completed runs, only for checks seen by enough distinct owners
// @Tags Run
// @Produce json
// @Param platform query string false "Platform, universal for all"
// @Param industry_vertical query string false "Industry vertical"
// @Success 200 {object} benchmarkResp
// @Failure 400 {object} response.Resp
// @Router /campaign-qa/api/v1/benchmark [get]
func (h *handler) Benchmark(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processBenchmarkRequest(c)
	if err != nil {
		response.Error(c, err, h.discord)
		return
	}

	o, err := h.uc.Benchmark(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Benchmark: usecase Benchmark failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newBenchmarkResp(o))
}

// @Summary Recover interrupted runs
// @Description Fail every run left running longer than the stale threshold
// @Tags Internal
// @Produce json
// @Param X-Service-Key header string true "Service key as service:key"
// @Success 200 {object} recoverResp
// @Failure 401 {object} response.Resp
// @Router /campaign-qa/api/v1/internal/recovery [post]
func (h *handler) Recover(c *gin.Context) {
	ctx := c.Request.Context()

	o, err := h.uc.RecoverStale(ctx)
	if err != nil {
		h.l.Errorf(ctx, "run.delivery.http.Recover: usecase RecoverStale failed: %v", err)
		response.Error(c, h.mapError(err), h.discord)
		return
	}

	response.OK(c, h.newRecoverResp(o))
}
