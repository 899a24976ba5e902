package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sharath018/eventify-backend/internal/apperr"
	"github.com/sharath018/eventify-backend/internal/auth"
)

// AuthMiddleware requires a valid bearer token and an active account, and
// attaches the user to the context.
func AuthMiddleware(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			apperr.Respond(c, apperr.ErrUnauthenticated)
			return
		}

		user, err := authSvc.ResolveUser(c.Request.Context(), token)
		if err != nil {
			apperr.Respond(c, err)
			return
		}
		if err := auth.RequireActive(user); err != nil {
			apperr.Respond(c, err)
			return
		}

		setUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the user when a valid token for an active account is
// present and otherwise lets the request through anonymously.
func OptionalAuth(authSvc auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.TokenFromHeader(c.GetHeader("Authorization"))
		if token != "" {
			if user, err := authSvc.ResolveUser(c.Request.Context(), token); err == nil && user.IsActive {
				setUser(c, user)
			}
		}
		c.Next()
	}
}

func setUser(c *gin.Context, user *auth.User) {
	c.Set(auth.ContextUserKey, user)
	c.Set("user_id", user.ID)

	logger := zerolog.Ctx(c.Request.Context()).With().Uint("user_id", user.ID).Logger()
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
}
