package middleware

import (
	"strings"

	"campaignqa-srv/pkg/response"
	"campaignqa-srv/pkg/scope"

	"github.com/gin-gonic/gin"
)

// Auth verifies the caller's access token and stores the owner scope on the request context.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// Authorization header first, "Bearer <token>" or the plain token
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		// Browsers cannot set headers on a websocket handshake, so fall back to the cookie
		if tokenString == "" && m.cookieConfig.Name != "" {
			tokenString, _ = c.Cookie(m.cookieConfig.Name)
		}
		if tokenString == "" || m.jwtManager == nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		payload, err := m.jwtManager.Verify(tokenString)
		if err != nil {
			m.l.Debugf(c.Request.Context(), "middleware.Auth: token rejected: %v", err)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		sc := scope.NewScope(payload)
		if sc.UserID == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = scope.SetPayloadToContext(ctx, payload)
		ctx = scope.SetScopeToContext(ctx, sc)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
