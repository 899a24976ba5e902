package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
)

// RBACMiddleware checks that the authenticated user has one of the allowed roles.
// It must run after AuthMiddleware.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := auth.CurrentUser(c)
		if err != nil {
			apperr.Respond(c, err)
			return
		}

		if err := auth.RequireRole(user, allowedRoles...); err != nil {
			apperr.Respond(c, err)
			return
		}

		c.Next()
	}
}
