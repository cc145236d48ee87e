package httpserver

import (
	"context"

	"campaignqa-srv/internal/middleware"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (srv *HTTPServer) mapHandlers(ctx context.Context) error {
	mw := middleware.New(srv.l, srv.jwtManager, srv.config.Cookie, srv.config.InternalConfig.ServiceKeys, srv.encrypter)

	srv.gin.Use(middleware.Recovery(srv.l, srv.discord))
	srv.registerSystemRoutes()

	return srv.setupRunDomain(ctx, srv.gin.Group("/campaign-qa"), mw)
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI and docs
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("doc.json"), // Use relative path
		ginSwagger.DefaultModelsExpandDepth(-1),
	))
}
