package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("requestId")) })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := resp.Header().Get(RequestIDHeader)
	require.NotEmpty(t, generated)
	assert.Equal(t, generated, resp.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	assert.Equal(t, "req-42", resp.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-42", resp.Body.String())
}

func TestAdminIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var seen *uint
	r := gin.New()
	r.Use(AdminIdentity())
	r.GET("/", func(c *gin.Context) {
		seen = ActingAdmin(c)
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		header string
		want   *uint
	}{
		{"", nil},
		{"7", func() *uint { v := uint(7); return &v }()},
		{" 7 ", func() *uint { v := uint(7); return &v }()},
		{"0", nil},
		{"admin", nil},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set(AdminIDHeader, tc.header)
		}
		r.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, tc.want, seen, "header %q", tc.header)
	}
}
