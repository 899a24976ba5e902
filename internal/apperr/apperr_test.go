package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	err := fmt.Errorf("load event: %w", NotFound("Event not found"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.Equal(t, http.StatusNotFound, Status(err))
	assert.Equal(t, http.StatusBadRequest, Status(ErrAccountDisabled))
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("boom")))
}

func TestRespond(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"forbidden", Forbidden("Not authorized to update this event"), http.StatusForbidden, `{"detail":"Not authorized to update this event"}`},
		{"unauthenticated", ErrUnauthenticated, http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`},
		{"internal", errors.New("db down"), http.StatusInternalServerError, `{"detail":"internal server error"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Respond(c, tc.err)

			assert.Equal(t, tc.status, w.Code)
			assert.JSONEq(t, tc.body, w.Body.String())
			if tc.status == http.StatusUnauthorized {
				assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
