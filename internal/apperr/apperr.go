// Package apperr defines the error kinds shared by every resource and maps
// them onto HTTP responses.
package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindForbidden
	KindUnauthenticated
	KindBadRequest
	KindAccountDisabled
)

// Sentinels for errors.Is matching.
var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "Not found"}
	ErrForbidden       = &Error{Kind: KindForbidden, Message: "Not enough permissions"}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "Could not validate credentials"}
	ErrBadRequest      = &Error{Kind: KindBadRequest, Message: "Bad request"}
	ErrAccountDisabled = &Error{Kind: KindAccountDisabled, Message: "Inactive user"}
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is matches on kind so that NotFound("Event not found") satisfies errors.Is(err, ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func BadRequest(msg string) error      { return &Error{Kind: KindBadRequest, Message: msg} }

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindBadRequest, KindAccountDisabled:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a {"detail": ...} body and aborts the chain.
func Respond(c *gin.Context, err error) {
	status := Status(err)
	detail := "internal server error"

	var e *Error
	if errors.As(err, &e) {
		detail = e.Message
	} else {
		log.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
	}

	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}
