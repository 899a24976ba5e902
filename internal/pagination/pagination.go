package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Page is a skip/limit window.
type Page struct {
	Skip  int
	Limit int
}

// FromQuery reads ?skip=&limit=. Missing or malformed values fall back to the
// defaults; limit is clamped to [1, max].
func FromQuery(c *gin.Context, defaultLimit, max int) Page {
	p := Page{Skip: 0, Limit: defaultLimit}

	if v, err := strconv.Atoi(c.Query("skip")); err == nil && v > 0 {
		p.Skip = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		p.Limit = v
	}
	return p.Clamp(max)
}

func (p Page) Clamp(max int) Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit < 1 {
		p.Limit = 1
	}
	if p.Limit > max {
		p.Limit = max
	}
	return p
}
