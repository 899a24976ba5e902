package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/auth"
)

// AuditMiddleware resolves the caller's IP once so audit entries can record it.
// Forwarding headers only count when the engine trusts the hop that sent
// them; see gin.Engine.SetTrustedProxies.
func AuditMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(auth.ContextClientIPKey, c.ClientIP())
		c.Next()
	}
}
