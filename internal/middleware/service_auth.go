package middleware

import (
	"strings"

	"campaignqa-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// ServiceAuth validates the X-Service-Key header for service-to-service calls.
// The header carries "serviceName:key"; the key is checked against the configured bcrypt hash.
func (m Middleware) ServiceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		serviceKey := c.GetHeader("X-Service-Key")
		if serviceKey == "" || m.encrypter == nil {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		serviceName, keyValue, ok := strings.Cut(serviceKey, ":")
		if !ok || serviceName == "" || keyValue == "" {
			m.l.Warnf(ctx, "middleware.ServiceAuth: invalid key format (expected serviceName:key)")
			response.Unauthorized(c)
			c.Abort()
			return
		}

		hash, exists := m.serviceKeys[serviceName]
		if !exists {
			m.l.Warnf(ctx, "middleware.ServiceAuth: service not found: %s", serviceName)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		// Never log key values
		if !m.encrypter.VerifySecret(keyValue, hash) {
			m.l.Warnf(ctx, "middleware.ServiceAuth: key mismatch for service %s", serviceName)
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("service_name", serviceName)
		c.Next()
	}
}
