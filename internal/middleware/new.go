package middleware

import (
	"campaignqa-srv/config"
	"campaignqa-srv/pkg/encrypter"
	"campaignqa-srv/pkg/log"
	"campaignqa-srv/pkg/scope"
)

type Middleware struct {
	l            log.Logger
	jwtManager   scope.Manager
	cookieConfig config.CookieConfig
	// serviceKeys maps a calling service to the bcrypt hash of its key.
	serviceKeys map[string]string
	encrypter   encrypter.Encrypter
}

func New(l log.Logger, jwtManager scope.Manager, cookieConfig config.CookieConfig, serviceKeys map[string]string, enc encrypter.Encrypter) Middleware {
	return Middleware{
		l:            l,
		jwtManager:   jwtManager,
		cookieConfig: cookieConfig,
		serviceKeys:  serviceKeys,
		encrypter:    enc,
	}
}
