package auth

import (
	"github.com/gin-gonic/gin"
	"github.com/sharath018/eventify-backend/internal/apperr"
)

// Keys under which the middleware stores request-scoped values.
const (
	ContextUserKey     = "user"
	ContextClientIPKey = "client_ip"
)

// CurrentUser returns the authenticated user attached by the auth middleware.
func CurrentUser(c *gin.Context) (*User, error) {
	if u := OptionalUser(c); u != nil {
		return u, nil
	}
	return nil, apperr.ErrUnauthenticated
}

// OptionalUser returns the attached user or nil for anonymous requests.
func OptionalUser(c *gin.Context) *User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*User)
	return u
}

func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIPKey); ip != "" {
		return ip
	}
	return c.ClientIP()
}
