package http

import (
	"campaignqa-srv/internal/middleware"
	"campaignqa-srv/internal/run"
	"campaignqa-srv/pkg/discord"
	"campaignqa-srv/pkg/log"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	RegisterRoutes(r *gin.RouterGroup, mw middleware.Middleware)
}

type handler struct {
	l       log.Logger
	uc      run.UseCase
	discord discord.IDiscord

	// allowedOrigins is passed to the websocket handshake. Empty means same-origin only.
	allowedOrigins []string
}

func New(l log.Logger, uc run.UseCase, discord discord.IDiscord, allowedOrigins []string) Handler {
	return &handler{
		l:              l,
		uc:             uc,
		discord:        discord,
		allowedOrigins: allowedOrigins,
	}
}
