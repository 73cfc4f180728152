package util

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPageParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		page  int
		limit int
	}{
		{"", 1, 20},
		{"page=3&limit=50", 3, 50},
		{"page=0&limit=0", 1, 20},
		{"page=-2&limit=500", 1, 20},
		{"page=abc&limit=xyz", 1, 20},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		page, limit := PageParams(c)
		if page != tc.page || limit != tc.limit {
			t.Errorf("query %q: got (%d, %d), want (%d, %d)", tc.query, page, limit, tc.page, tc.limit)
		}
	}
}
