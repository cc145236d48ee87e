package http

import (
	"strings"

	"campaignqa-srv/internal/model"
	"campaignqa-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

func (h *handler) processSubmitRequest(c *gin.Context) (submitRunReq, model.Scope, error) {
	var req submitRunReq

	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "run.delivery.http.processSubmitRequest: ShouldBindJSON failed: %v", err)
		return req, model.Scope{}, errWrongBody
	}

	sc := scope.GetScopeFromContext(ctx)
	return req, sc, nil
}

func (h *handler) processInternalSubmitRequest(c *gin.Context) (submitRunReq, model.Scope, error) {
	var req internalSubmitReq

	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil {
		h.l.Warnf(ctx, "run.delivery.http.processInternalSubmitRequest: ShouldBindJSON failed: %v", err)
		return submitRunReq{}, model.Scope{}, errWrongBody
	}
	if strings.TrimSpace(req.UserID) == "" {
		return submitRunReq{}, model.Scope{}, errUserIDRequired
	}

	req.submitRunReq.InputMethod = string(model.InputMethodAPI)
	sc := model.Scope{UserID: strings.TrimSpace(req.UserID), Username: c.GetString("service_name")}
	return req.submitRunReq, sc, nil
}

func (h *handler) processRunRequest(c *gin.Context) (runReq, model.Scope, error) {
	req := runReq{
		RunID: c.Param("run_id"),
	}

	sc := scope.GetScopeFromContext(c.Request.Context())
	return req, sc, nil
}

func (h *handler) processListRequest(c *gin.Context) (listRunsReq, model.Scope, error) {
	var req listRunsReq

	ctx := c.Request.Context()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(ctx, "run.delivery.http.processListRequest: ShouldBindQuery failed: %v", err)
		return req, model.Scope{}, errWrongQuery
	}

	sc := scope.GetScopeFromContext(ctx)
	return req, sc, nil
}

func (h *handler) processCompareRequest(c *gin.Context) (compareReq, model.Scope, error) {
	var req compareReq

	ctx := c.Request.Context()
	if err := c.ShouldBindQuery(&req); err != nil || req.RunA == "" || req.RunB == "" {
		h.l.Warnf(ctx, "run.delivery.http.processCompareRequest: invalid query: a=%q b=%q err=%v", req.RunA, req.RunB, err)
		return req, model.Scope{}, errWrongQuery
	}

	sc := scope.GetScopeFromContext(ctx)
	return req, sc, nil
}

func (h *handler) processShareRequest(c *gin.Context) (shareReq, model.Scope, error) {
	var req shareReq

	ctx := c.Request.Context()
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPublic == nil {
		h.l.Warnf(ctx, "run.delivery.http.processShareRequest: is_public missing or body invalid: %v", err)
		return req, model.Scope{}, errWrongBody
	}
	req.RunID = c.Param("run_id")

	sc := scope.GetScopeFromContext(ctx)
	return req, sc, nil
}

func (h *handler) processSharedRequest(c *gin.Context) sharedReq {
	return sharedReq{
		Token: c.Param("token"),
	}
}

func (h *handler) processBenchmarkRequest(c *gin.Context) (benchmarkReq, error) {
	var req benchmarkReq
	if err := c.ShouldBindQuery(&req); err != nil {
		h.l.Warnf(c.Request.Context(), "run.delivery.http.processBenchmarkRequest: ShouldBindQuery failed: %v", err)
		return req, errWrongQuery
	}
	req.Platform = strings.ToLower(strings.TrimSpace(req.Platform))
	return req, nil
}
