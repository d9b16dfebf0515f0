package middleware

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const AdminIDHeader = "X-Admin-ID"

// AdminIdentity records the acting admin from the X-Admin-ID header set by
// the authenticating gateway. Requests without it act anonymously.
func AdminIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := strings.TrimSpace(c.GetHeader(AdminIDHeader)); raw != "" {
			if id, err := strconv.ParseUint(raw, 10, 64); err == nil && id > 0 {
				c.Set("adminId", uint(id))
			}
		}
		c.Next()
	}
}

// ActingAdmin returns the admin id stored by AdminIdentity, or nil.
func ActingAdmin(c *gin.Context) *uint {
	v, ok := c.Get("adminId")
	if !ok {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
