package http

import (
	"campaignqa-srv/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *handler) RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware) {
	api := r.Group("/api/v1")

	public := api.Group("")
	{
		public.GET("/checks", h.ListChecks)
		public.GET("/reports/share/:token", h.GetSharedReport)
		public.GET("/reports/share/:token/badge", h.GetBadge)
	}

	runs := api.Group("/runs")
	runs.Use(mw.Auth())
	{
		runs.POST("", h.Submit)
		runs.GET("", h.List)
		runs.GET("/compare", h.Compare)
		runs.GET("/:run_id/status", h.GetStatus)
		runs.GET("/:run_id/report", h.GetReport)
		runs.GET("/:run_id/report/download", h.DownloadReport)
		runs.POST("/:run_id/rerun", h.Rerun)
		runs.PATCH("/:run_id/share", h.Share)
		runs.GET("/:run_id/stream", h.Stream)
	}

	api.GET("/benchmark", mw.Auth(), h.Benchmark)

	internal := api.Group("/internal")
	internal.Use(mw.ServiceAuth())
	{
		internal.POST("/runs", h.InternalSubmit)
		internal.POST("/recovery", h.Recover)
	}
}
