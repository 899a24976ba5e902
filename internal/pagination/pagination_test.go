package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  Page
	}{
		{"", Page{Skip: 0, Limit: 100}},
		{"?skip=20&limit=10", Page{Skip: 20, Limit: 10}},
		{"?skip=-5&limit=0", Page{Skip: 0, Limit: 1}},
		{"?limit=500", Page{Skip: 0, Limit: 100}},
		{"?skip=abc&limit=xyz", Page{Skip: 0, Limit: 100}},
	}

	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/events"+tc.query, nil)
			assert.Equal(t, tc.want, FromQuery(c, 100, 100))
		})
	}
}
